package comment

import (
	"strings"
	"unicode/utf16"
)

// MaxTextLength is measured in UTF-16 code units, the unit browser clients count in.
const MaxTextLength = 280

const (
	ReasonPostIDRequired = "post id required"
	ReasonTextRequired   = "text required"
	ReasonWhitespaceOnly = "text cannot be whitespace-only"
	ReasonTooLong        = "exceeds 280 characters"
)

// ValidatePostID checks the partition key shared by reads and writes.
func ValidatePostID(postID string) error {
	if strings.TrimSpace(postID) == "" {
		return invalid("post_id", ReasonPostIDRequired)
	}
	return nil
}

// ValidateNew applies the write rules in order and returns the text to store.
// A nil text and an empty text are both treated as absent.
func ValidateNew(postID string, text *string) (string, error) {
	if err := ValidatePostID(postID); err != nil {
		return "", err
	}
	if text == nil || *text == "" {
		return "", invalid("text", ReasonTextRequired)
	}
	trimmed := strings.TrimSpace(*text)
	if trimmed == "" {
		return "", invalid("text", ReasonWhitespaceOnly)
	}
	// the limit is checked against the raw input, before trimming
	if TextLength(*text) > MaxTextLength {
		return "", invalid("text", ReasonTooLong)
	}
	return trimmed, nil
}

// TextLength counts s in UTF-16 code units.
func TextLength(s string) int {
	n := 0
	for _, r := range s {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}
