package ir

import (
	"math"
	"sort"
)

type SearchResult struct {
	DocID int
	Score float64
}

type TFIDFSearcher struct {
	index     *InvertedIndex
	tokenizer *Tokenizer
}

func NewTFIDFSearcher(index *InvertedIndex, tokenizer *Tokenizer) *TFIDFSearcher {
	return &TFIDFSearcher{index: index, tokenizer: tokenizer}
}

func (s *TFIDFSearcher) Search(query string, topK int) []*SearchResult {
	return search(s.index, s.tokenizer.Tokenize(query), topK, s.computeDocumentScore)
}

// computeDocumentScore 作者和正文分别计算 (1+log tf)·idf 后加权求和
func (s *TFIDFSearcher) computeDocumentScore(queryTerms []string, docID int) float64 {
	n := s.index.GetTotalDocs()
	if n == 0 {
		return 0
	}

	var total float64
	for _, term := range queryTerms {
		posting, ok := s.index.GetPosting(term, docID)
		if !ok {
			continue
		}
		df := s.index.GetDocumentFrequency(term)
		idf := math.Log(float64(n) / float64(df))
		if idf == 0 {
			// 所有文档都包含该词时仍保留一点区分度
			idf = 0.1
		}
		if posting.AuthorFreq > 0 {
			total += (1 + math.Log(float64(posting.AuthorFreq))) * idf * authorWeight
		}
		if posting.ContentFreq > 0 {
			total += (1 + math.Log(float64(posting.ContentFreq))) * idf
		}
	}
	return total
}

// search 收集命中文档并按分数降序，同分时 DocID 小的在前
func search(index *InvertedIndex, terms []string, topK int, score func([]string, int) float64) []*SearchResult {
	if len(terms) == 0 {
		return []*SearchResult{}
	}

	seen := make(map[int]bool)
	var results []*SearchResult
	for _, term := range terms {
		for _, p := range index.GetPostingList(term) {
			if seen[p.DocID] {
				continue
			}
			seen[p.DocID] = true
			results = append(results, &SearchResult{DocID: p.DocID, Score: score(terms, p.DocID)})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].DocID < results[j].DocID
	})

	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}
	return results
}
