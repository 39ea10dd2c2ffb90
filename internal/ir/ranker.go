package ir

import (
	"fmt"
	"strings"

	"FediSleuth/internal/models"
)

const (
	AlgorithmBM25  = "bm25"
	AlgorithmTFIDF = "tfidf"
)

// Rank 按相关度重新排列帖子；没有命中任何查询词的帖子保持原顺序排在后面
func Rank(posts []*models.Post, query, algorithm string) ([]*models.Post, error) {
	if strings.TrimSpace(query) == "" || len(posts) == 0 {
		return posts, nil
	}

	tokenizer := NewTokenizer()
	index := NewInvertedIndex(tokenizer)
	index.AddDocuments(posts)

	var results []*SearchResult
	switch strings.ToLower(algorithm) {
	case "", AlgorithmBM25:
		results = NewBM25Searcher(index, tokenizer).Search(query, 0)
	case AlgorithmTFIDF:
		results = NewTFIDFSearcher(index, tokenizer).Search(query, 0)
	default:
		return nil, fmt.Errorf("不支持的排序算法: %s", algorithm)
	}

	ranked := make([]*models.Post, 0, len(posts))
	placed := make([]bool, len(posts))
	for _, r := range results {
		ranked = append(ranked, posts[r.DocID])
		placed[r.DocID] = true
	}
	for i, p := range posts {
		if !placed[i] && p != nil {
			ranked = append(ranked, p)
		}
	}
	return ranked, nil
}
