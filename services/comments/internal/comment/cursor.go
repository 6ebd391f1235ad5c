package comment

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const cursorVersion = "v1"

var errMalformedCursor = errors.New("malformed cursor")

// EncodeCursor serializes a resume position as an opaque, URL-safe token.
// Layout before encoding: "v1|<unix micros>|<id>".
func EncodeCursor(k SortKey) string {
	raw := fmt.Sprintf("%s|%d|%s", cursorVersion, k.CreatedAt.UnixMicro(), k.ID)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor is the strict inverse of EncodeCursor.
func DecodeCursor(c string) (SortKey, error) {
	raw, err := base64.RawURLEncoding.DecodeString(c)
	if err != nil {
		return SortKey{}, err
	}
	parts := strings.SplitN(string(raw), "|", 3)
	if len(parts) != 3 || parts[0] != cursorVersion || parts[2] == "" {
		return SortKey{}, errMalformedCursor
	}
	micros, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return SortKey{}, err
	}
	return SortKey{CreatedAt: time.UnixMicro(micros).UTC(), ID: parts[2]}, nil
}

// ParseCursor decodes c for the read path. Empty, stale or corrupted
// tokens yield nil, meaning "start from the beginning".
func ParseCursor(c string) *SortKey {
	c = strings.TrimSpace(c)
	if c == "" {
		return nil
	}
	k, err := DecodeCursor(c)
	if err != nil {
		return nil
	}
	return &k
}
