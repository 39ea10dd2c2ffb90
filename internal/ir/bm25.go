package ir

import (
	"math"
)

const (
	defaultK1    = 1.5
	defaultB     = 0.75
	authorWeight = 2.0 // 作者名命中的权重
)

// BM25Searcher BM25 打分
type BM25Searcher struct {
	index     *InvertedIndex
	tokenizer *Tokenizer
	k1        float64 // 词频饱和度
	b         float64 // 长度归一化
}

func NewBM25Searcher(index *InvertedIndex, tokenizer *Tokenizer) *BM25Searcher {
	return NewBM25SearcherWithParams(index, tokenizer, defaultK1, defaultB)
}

func NewBM25SearcherWithParams(index *InvertedIndex, tokenizer *Tokenizer, k1, b float64) *BM25Searcher {
	return &BM25Searcher{index: index, tokenizer: tokenizer, k1: k1, b: b}
}

func (s *BM25Searcher) Search(query string, topK int) []*SearchResult {
	return search(s.index, s.tokenizer.Tokenize(query), topK, s.computeDocumentScore)
}

func (s *BM25Searcher) SetParameters(k1, b float64) {
	s.k1 = k1
	s.b = b
}

func (s *BM25Searcher) GetParameters() (k1, b float64) {
	return s.k1, s.b
}

// computeIDF 小数据集上用 log(N/df)，所有文档都出现的词给 0.1
func (s *BM25Searcher) computeIDF(term string) float64 {
	df := s.index.GetDocumentFrequency(term)
	n := s.index.GetTotalDocs()
	if df == 0 || n == 0 {
		return 0
	}
	if df == n {
		return 0.1
	}
	return math.Log(float64(n) / float64(df))
}

func (s *BM25Searcher) computeDocumentScore(queryTerms []string, docID int) float64 {
	docLength := s.index.GetDocumentLength(docID)
	avg := s.index.GetAverageDocumentLength()
	if docLength == 0 || avg == 0 {
		return 0
	}

	var total float64
	for _, term := range queryTerms {
		posting, ok := s.index.GetPosting(term, docID)
		if !ok {
			continue
		}
		idf := s.computeIDF(term)
		if idf == 0 {
			continue
		}

		// BM25(q,d) = IDF × tf(k1+1) / (tf + k1(1 - b + b|d|/avgdl))
		tf := float64(posting.TermFreq)
		score := idf * tf * (s.k1 + 1) / (tf + s.k1*(1-s.b+s.b*float64(docLength)/avg))

		if posting.AuthorFreq > 0 {
			score *= 1 + (authorWeight-1)*float64(posting.AuthorFreq)/tf
		}
		total += score
	}
	return total
}
