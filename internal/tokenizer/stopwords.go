package tokenizer

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// StopWordsEnglish selects the built-in English list.
	StopWordsEnglish = "english"
	// StopWordsNone disables stop-word removal.
	StopWordsNone = "none"
)

// englishStopWords is the NLTK English stop-word list without the entries that
// contain an apostrophe. Apostrophes are separators for Tokenize, so "don't" is
// seen as "don" and "t", both of which are listed here.
var englishStopWords = []string{
	"i", "me", "my", "myself", "we", "our", "ours", "ourselves",
	"you", "your", "yours", "yourself", "yourselves",
	"he", "him", "his", "himself", "she", "her", "hers", "herself",
	"it", "its", "itself", "they", "them", "their", "theirs", "themselves",
	"what", "which", "who", "whom", "this", "that", "these", "those",
	"am", "is", "are", "was", "were", "be", "been", "being",
	"have", "has", "had", "having", "do", "does", "did", "doing",
	"a", "an", "the", "and", "but", "if", "or", "because", "as", "until", "while",
	"of", "at", "by", "for", "with", "about", "against", "between", "into",
	"through", "during", "before", "after", "above", "below", "to", "from",
	"up", "down", "in", "out", "on", "off", "over", "under", "again", "further",
	"then", "once", "here", "there", "when", "where", "why", "how",
	"all", "any", "both", "each", "few", "more", "most", "other", "some", "such",
	"no", "nor", "not", "only", "own", "same", "so", "than", "too", "very",
	"s", "t", "can", "will", "just", "don", "should", "now",
	"d", "ll", "m", "o", "re", "ve", "y",
	"ain", "aren", "couldn", "didn", "doesn", "hadn", "hasn", "haven", "isn",
	"ma", "mightn", "mustn", "needn", "shan", "shouldn", "wasn", "weren",
	"won", "wouldn",
}

// EnglishStopWords returns a copy of the built-in English stop-word list.
func EnglishStopWords() []string {
	out := make([]string, len(englishStopWords))
	copy(out, englishStopWords)
	return out
}

// stopWordFile accepts both a bare YAML sequence and a mapping with a stopwords key.
type stopWordFile struct {
	StopWords []string `yaml:"stopwords"`
}

// LoadStopWords resolves a stop-word source: "english", "none" (or empty for none),
// or a path to a YAML file holding the list.
func LoadStopWords(source string) ([]string, error) {
	switch strings.ToLower(strings.TrimSpace(source)) {
	case StopWordsEnglish:
		return EnglishStopWords(), nil
	case StopWordsNone, "":
		return []string{}, nil
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("failed to read stop-word file %s: %w", source, err)
	}

	return ParseStopWords(data)
}

// ParseStopWords decodes a YAML stop-word list.
func ParseStopWords(data []byte) ([]string, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("failed to parse stop-word list: %w", err)
	}

	// Empty document
	if len(node.Content) == 0 {
		return []string{}, nil
	}

	root := node.Content[0]
	var words []string
	switch root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&words); err != nil {
			return nil, fmt.Errorf("failed to decode stop-word sequence: %w", err)
		}
	case yaml.MappingNode:
		var file stopWordFile
		if err := root.Decode(&file); err != nil {
			return nil, fmt.Errorf("failed to decode stop-word mapping: %w", err)
		}
		words = file.StopWords
	default:
		return nil, fmt.Errorf("stop-word list must be a sequence or a mapping with a 'stopwords' key")
	}

	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			out = append(out, w)
		}
	}
	return out, nil
}
