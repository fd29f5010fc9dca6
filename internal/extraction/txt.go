package extraction

import (
	"bytes"
	"errors"
	"unicode/utf8"
)

// extractTXT decodes UTF-8 verbatim; only a leading byte order mark is removed.
func extractTXT(content []byte) (string, error) {
	content = bytes.TrimPrefix(content, utf8BOM)
	if !utf8.Valid(content) {
		return "", errors.New("text file is not valid UTF-8")
	}
	return string(content), nil
}
