package tokenizer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Tokenizer lowercases text, splits it on non-alphanumeric runes and drops stop words.
// The zero value keeps every token; use New to attach a stop-word set.
type Tokenizer struct {
	stopWords      map[string]struct{}
	minTokenLength int
}

// Options configures a Tokenizer.
type Options struct {
	// StopWords is the exact set of tokens to discard after lowercasing.
	StopWords []string
	// MinTokenLength drops tokens with fewer runes than this. Values below 1 mean 1.
	MinTokenLength int
}

// New builds a Tokenizer from options.
func New(opts Options) *Tokenizer {
	stop := make(map[string]struct{}, len(opts.StopWords))
	for _, w := range opts.StopWords {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			stop[w] = struct{}{}
		}
	}

	minLen := opts.MinTokenLength
	if minLen < 1 {
		minLen = 1
	}

	return &Tokenizer{
		stopWords:      stop,
		minTokenLength: minLen,
	}
}

// NewEnglish returns a Tokenizer using the default English stop-word list.
func NewEnglish() *Tokenizer {
	return New(Options{StopWords: EnglishStopWords()})
}

// Tokenize converts text into an ordered slice of tokens, duplicates included.
func (t *Tokenizer) Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), isSeparator)

	tokens := make([]string, 0, len(fields)) // Initialize as empty slice, not nil
	for _, f := range fields {
		if t.minTokenLength > 1 && utf8.RuneCountInString(f) < t.minTokenLength {
			continue
		}
		if t.IsStopWord(f) {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// IsStopWord reports whether the lowercased token is in the stop-word set.
func (t *Tokenizer) IsStopWord(token string) bool {
	if t == nil || t.stopWords == nil {
		return false
	}
	_, ok := t.stopWords[token]
	return ok
}

// StopWordCount returns the size of the configured stop-word set.
func (t *Tokenizer) StopWordCount() int {
	return len(t.stopWords)
}

func isSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
