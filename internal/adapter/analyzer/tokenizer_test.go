package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenizer_Tokenize(t *testing.T) {
	tests := []struct {
		name  string
		stem  bool
		input string
		want  []string
	}{
		{"stopwords removed", false, "the cat sat on the mat", []string{"cat", "sat", "mat"}},
		{"stemming", true, "running dogs are playing", []string{"run", "dog", "play"}},
		{"no stemming", false, "running dogs", []string{"running", "dogs"}},
		{"punctuation", false, "What is a HashMap? (Java)", []string{"hashmap", "java"}},
		{"short tokens dropped", false, "x y zz", []string{"zz"}},
		{"empty", false, "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := NewTokenizer(tt.stem)
			assert.Equal(t, tt.want, tok.Tokenize(tt.input))
		})
	}
}

func TestTokenizer_Normalize(t *testing.T) {
	tok := NewTokenizer(false)
	assert.Equal(t, "difference between abstract class interface", tok.Normalize("What is the difference between an abstract class and an interface?"))
}

func TestStem(t *testing.T) {
	cases := map[string]string{
		"cats":    "cat",
		"kittens": "kitten",
		"queries": "query",
		"classes": "class",
		"class":   "class",
		"status":  "status",
		"rallied": "rally",
		"stopped": "stop",
		"sitting": "sit",
		"calling": "call",
		"markets": "market",
		"bus":     "bus",
		"cat":     "cat",
	}
	for in, want := range cases {
		assert.Equal(t, want, Stem(in), in)
	}
}
