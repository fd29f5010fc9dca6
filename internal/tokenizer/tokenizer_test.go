package tokenizer

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tok := NewEnglish()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty string", "", []string{}},
		{"simple lowercase", "python developer", []string{"python", "developer"}},
		{"stop words dropped", "python developer with Flask experience", []string{"python", "developer", "flask", "experience"}},
		{"punctuation splits", "Python developer, Flask, REST APIs", []string{"python", "developer", "flask", "rest", "apis"}},
		{"with numbers", "item123 test", []string{"item123", "test"}},
		{"hyphenated", "state-of-the-art", []string{"state", "art"}},
		{"apostrophe contraction", "don't stop", []string{"stop"}},
		{"symbols split", "C++ & Go", []string{"c", "go"}},
		{"unicode letters kept", "Über café", []string{"über", "café"}},
		{"duplicates kept", "go go Go", []string{"go", "go", "go"}},
		{"only stop words", "the and of", []string{}},
		{"only symbols", "!@#$%^", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tok.Tokenize(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestTokenize_NoStopWords(t *testing.T) {
	tok := New(Options{})

	got := tok.Tokenize("The quick fox")
	assert.Equal(t, []string{"the", "quick", "fox"}, got)
	assert.Equal(t, 0, tok.StopWordCount())
}

func TestTokenize_MinTokenLength(t *testing.T) {
	tok := New(Options{MinTokenLength: 2})

	got := tok.Tokenize("a C go java")
	assert.Equal(t, []string{"go", "java"}, got)
}

func TestNew_NormalizesStopWords(t *testing.T) {
	tok := New(Options{StopWords: []string{"  Flask ", "", "JAVA"}})

	assert.True(t, tok.IsStopWord("flask"))
	assert.True(t, tok.IsStopWord("java"))
	assert.Equal(t, 2, tok.StopWordCount())
	assert.Equal(t, []string{"python"}, tok.Tokenize("Python Flask Java"))
}

func TestEnglishStopWords_ReturnsCopy(t *testing.T) {
	words := EnglishStopWords()
	require.NotEmpty(t, words)

	words[0] = "python"
	assert.NotEqual(t, "python", EnglishStopWords()[0])

	for _, w := range EnglishStopWords() {
		assert.NotContains(t, w, "'", "apostrophe entries can never match a token")
	}
}

func TestLoadStopWords(t *testing.T) {
	t.Run("english", func(t *testing.T) {
		words, err := LoadStopWords("English")
		require.NoError(t, err)
		assert.Equal(t, EnglishStopWords(), words)
	})

	t.Run("none", func(t *testing.T) {
		words, err := LoadStopWords("none")
		require.NoError(t, err)
		assert.Empty(t, words)
	})

	t.Run("yaml sequence file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "stop.yaml")
		require.NoError(t, os.WriteFile(path, []byte("- The\n- and\n- ' '\n"), 0644))

		words, err := LoadStopWords(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"the", "and"}, words)
	})

	t.Run("yaml mapping file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "stop.yaml")
		require.NoError(t, os.WriteFile(path, []byte("stopwords:\n  - resume\n  - cv\n"), 0644))

		words, err := LoadStopWords(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"resume", "cv"}, words)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadStopWords(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
	})
}

func TestParseStopWords_Invalid(t *testing.T) {
	_, err := ParseStopWords([]byte("just a scalar"))
	require.Error(t, err)

	words, err := ParseStopWords([]byte(""))
	require.NoError(t, err)
	assert.Empty(t, words)
}
