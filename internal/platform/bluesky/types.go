package bluesky

type createSessionRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type createSessionResponse struct {
	AccessJwt string `json:"accessJwt"`
	Handle    string `json:"handle"`
	DID       string `json:"did"`
}

type authorFeedParams struct {
	Actor  string `url:"actor"`
	Limit  int    `url:"limit"`
	Cursor string `url:"cursor,omitempty"`
}

type searchPostsParams struct {
	Q      string `url:"q"`
	Limit  int    `url:"limit"`
	Cursor string `url:"cursor,omitempty"`
}

type feedResponse struct {
	Feed []struct {
		Post PostView `json:"post"`
	} `json:"feed"`
	Cursor string `json:"cursor"`
}

type searchResponse struct {
	Posts  []PostView `json:"posts"`
	Cursor string     `json:"cursor"`
}

type PostView struct {
	URI    string `json:"uri"`
	Author struct {
		Handle      string `json:"handle"`
		DisplayName string `json:"displayName"`
	} `json:"author"`
	Record struct {
		Text      string `json:"text"`
		CreatedAt string `json:"createdAt"`
	} `json:"record"`
	Embed       *EmbedView `json:"embed"`
	LikeCount   int        `json:"likeCount"`
	RepostCount int        `json:"repostCount"`
	IndexedAt   string     `json:"indexedAt"`
}
