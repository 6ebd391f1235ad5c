// Package comment holds the comment record, its ordering key and the
// rules a comment must satisfy before it is stored.
package comment

import (
	"time"
)

// Precision is the resolution every CreatedAt is truncated to. Postgres
// stores microseconds, so anything finer would not survive a round trip
// and cursors would drift from the stored keys.
const Precision = time.Microsecond

// Comment represents a single stored comment. It is never mutated after
// creation; AuthorName is captured at write time.
type Comment struct {
	ID         string    `json:"id"`
	PostID     string    `json:"post_id"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}

// Key returns the position of c in its post's ordering.
func (c Comment) Key() SortKey {
	return SortKey{CreatedAt: c.CreatedAt, ID: c.ID}
}

// SortKey totally orders comments within a post: CreatedAt first, ID breaks ties.
type SortKey struct {
	CreatedAt time.Time
	ID        string
}

// Less reports whether k sorts strictly before other.
func (k SortKey) Less(other SortKey) bool {
	if !k.CreatedAt.Equal(other.CreatedAt) {
		return k.CreatedAt.Before(other.CreatedAt)
	}
	return k.ID < other.ID
}

// Identity is the authenticated caller, as supplied by the auth layer.
type Identity struct {
	UserID string
	Name   string
}

// Normalize truncates t to the stored precision in UTC.
func Normalize(t time.Time) time.Time {
	return t.UTC().Truncate(Precision)
}
