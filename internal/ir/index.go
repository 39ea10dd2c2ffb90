package ir

import (
	"sync"

	"FediSleuth/internal/models"
)

// Posting 倒排列表中的一项
type Posting struct {
	DocID       int
	TermFreq    int // 作者 + 正文
	AuthorFreq  int
	ContentFreq int
}

type PostingList []Posting

// InvertedIndex 帖子的倒排索引，DocID 是帖子在输入切片中的下标
type InvertedIndex struct {
	index        map[string]PostingList
	docLengths   map[int]int
	tokenizer    *Tokenizer
	mutex        sync.RWMutex
	totalDocs    int
	avgDocLength float64
}

func NewInvertedIndex(tokenizer *Tokenizer) *InvertedIndex {
	return &InvertedIndex{
		index:      make(map[string]PostingList),
		docLengths: make(map[int]int),
		tokenizer:  tokenizer,
	}
}

func (ii *InvertedIndex) AddDocument(docID int, post *models.Post) {
	ii.mutex.Lock()
	defer ii.mutex.Unlock()

	authorTokens := ii.tokenizer.Tokenize(post.Author)
	contentTokens := ii.tokenizer.Tokenize(post.Content)

	authorFreqs := make(map[string]int)
	for _, tok := range authorTokens {
		authorFreqs[tok]++
	}
	contentFreqs := make(map[string]int)
	for _, tok := range contentTokens {
		contentFreqs[tok]++
	}

	terms := make(map[string]bool, len(authorFreqs)+len(contentFreqs))
	for term := range authorFreqs {
		terms[term] = true
	}
	for term := range contentFreqs {
		terms[term] = true
	}

	for term := range terms {
		a, c := authorFreqs[term], contentFreqs[term]
		ii.index[term] = append(ii.index[term], Posting{
			DocID:       docID,
			TermFreq:    a + c,
			AuthorFreq:  a,
			ContentFreq: c,
		})
	}

	ii.docLengths[docID] = len(authorTokens) + len(contentTokens)
	ii.totalDocs++
	ii.updateAverageDocumentLength()
}

// AddDocuments 按切片下标编号
func (ii *InvertedIndex) AddDocuments(posts []*models.Post) {
	for i, p := range posts {
		if p != nil {
			ii.AddDocument(i, p)
		}
	}
}

func (ii *InvertedIndex) GetPostingList(term string) PostingList {
	ii.mutex.RLock()
	defer ii.mutex.RUnlock()
	return ii.index[term]
}

func (ii *InvertedIndex) GetPosting(term string, docID int) (Posting, bool) {
	for _, p := range ii.GetPostingList(term) {
		if p.DocID == docID {
			return p, true
		}
	}
	return Posting{}, false
}

func (ii *InvertedIndex) GetDocumentFrequency(term string) int {
	return len(ii.GetPostingList(term))
}

func (ii *InvertedIndex) GetDocumentLength(docID int) int {
	ii.mutex.RLock()
	defer ii.mutex.RUnlock()
	return ii.docLengths[docID]
}

func (ii *InvertedIndex) GetAverageDocumentLength() float64 {
	ii.mutex.RLock()
	defer ii.mutex.RUnlock()
	return ii.avgDocLength
}

func (ii *InvertedIndex) GetTotalDocs() int {
	ii.mutex.RLock()
	defer ii.mutex.RUnlock()
	return ii.totalDocs
}

func (ii *InvertedIndex) GetVocabularySize() int {
	ii.mutex.RLock()
	defer ii.mutex.RUnlock()
	return len(ii.index)
}

func (ii *InvertedIndex) updateAverageDocumentLength() {
	if ii.totalDocs == 0 {
		ii.avgDocLength = 0
		return
	}
	total := 0
	for _, l := range ii.docLengths {
		total += l
	}
	ii.avgDocLength = float64(total) / float64(ii.totalDocs)
}
