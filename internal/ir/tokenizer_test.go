package ir

import (
	"reflect"
	"testing"
)

func TestTokenizer_Tokenize(t *testing.T) {
	tok := NewTokenizer()

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", []string{}},
		{"stop words removed", "The cat and the dog", []string{"cat", "dog"}},
		{"hashtags and mentions", "#Sunset over @alice's bay!", []string{"sunset", "over", "alice", "bay"}},
		{"single runes dropped", "a b cd", []string{"cd"}},
		{"unicode kept", "Café naïve 東京", []string{"café", "naïve", "東京"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tok.Tokenize(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTokenizer_ExtraStopWords(t *testing.T) {
	tok := NewTokenizer("Photo")
	got := tok.TokenizeWithCount("photo of a photo sunset sunset")
	if _, ok := got["photo"]; ok {
		t.Errorf("expected 'photo' to be a stop word, got %v", got)
	}
	if got["sunset"] != 2 {
		t.Errorf("expected sunset count 2, got %d", got["sunset"])
	}
}
