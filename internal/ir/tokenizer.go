package ir

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var nonWord = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)

var defaultStopWords = []string{
	"a", "an", "the",
	"and", "or", "but", "nor", "for", "so", "yet",
	"in", "on", "at", "to", "of", "with", "by", "from", "up", "about", "into",
	"i", "you", "he", "she", "it", "we", "they", "this", "that", "these", "those",
	"is", "are", "was", "were", "be", "been", "being",
	"have", "has", "had", "do", "does", "did",
	"will", "would", "should", "could", "can", "may", "might", "must",
	"as", "if", "than", "then", "when", "where", "how",
	"my", "your", "our", "their", "its", "me", "us", "them",
	"rt", "via",
}

type Tokenizer struct {
	stopWords map[string]bool // 停用词集合
}

func NewTokenizer(extraStopWords ...string) *Tokenizer {
	sw := make(map[string]bool, len(defaultStopWords)+len(extraStopWords))
	for _, w := range defaultStopWords {
		sw[w] = true
	}
	for _, w := range extraStopWords {
		sw[strings.ToLower(w)] = true
	}
	return &Tokenizer{stopWords: sw}
}

// Tokenize 小写化后按非字母数字切分，# 和 @ 会被当作分隔符
func (t *Tokenizer) Tokenize(text string) []string {
	if text == "" {
		return []string{}
	}

	text = strings.ToLower(text)
	text = nonWord.ReplaceAllString(text, " ")

	words := strings.Fields(text)
	tokens := make([]string, 0, len(words))
	for _, word := range words {
		if utf8.RuneCountInString(word) > 1 && !t.stopWords[word] {
			tokens = append(tokens, word)
		}
	}
	return tokens
}

func (t *Tokenizer) TokenizeWithCount(text string) map[string]int {
	result := make(map[string]int)
	for _, token := range t.Tokenize(text) {
		result[token]++
	}
	return result
}
