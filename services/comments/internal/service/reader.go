package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/example/microblog/services/comments/internal/comment"
	"github.com/example/microblog/services/comments/internal/store"
)

// Default page sizes used when no Limits are configured.
const (
	DefaultPageSize = 50
	MaxPageSize     = 100
)

// Limits bounds the page size a caller may ask for.
type Limits struct {
	Default int
	Max     int
}

// Normalize maps a requested limit onto [1, Max]; non-positive requests get Default.
func (l Limits) Normalize(n int) int {
	def, ceiling := l.Default, l.Max
	if def <= 0 {
		def = DefaultPageSize
	}
	if ceiling <= 0 {
		ceiling = MaxPageSize
	}
	if def > ceiling {
		def = ceiling
	}
	if n <= 0 {
		return def
	}
	if n > ceiling {
		return ceiling
	}
	return n
}

// Page is one batch of comments, oldest first. NextCursor is nil when the
// post has nothing after the last comment of this page.
type Page struct {
	Comments   []comment.Comment `json:"comments"`
	NextCursor *string           `json:"next_cursor"`
}

// Reader serves cursor-paginated reads.
type Reader struct {
	store  store.CommentStore
	limits Limits
	log    *zap.Logger
}

func NewReader(s store.CommentStore, limits Limits, log *zap.Logger) *Reader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reader{store: s, limits: limits, log: log}
}

// List returns the page of postID's comments that follows cursor.
// A malformed cursor restarts from the first comment instead of failing.
func (r *Reader) List(ctx context.Context, postID string, limit int, cursor string) (Page, error) {
	if err := comment.ValidatePostID(postID); err != nil {
		return Page{}, err
	}
	limit = r.limits.Normalize(limit)

	after := comment.ParseCursor(cursor)
	if after == nil && cursor != "" {
		r.log.Debug("ignoring undecodable cursor", zap.String("post_id", postID))
	}

	// one extra row tells us whether another page exists
	rows, err := r.store.Scan(ctx, store.ScanRequest{PostID: postID, After: after, Limit: limit + 1})
	if err != nil {
		r.log.Error("comment scan failed", zap.String("post_id", postID), zap.Error(err))
		return Page{}, &comment.StorageError{Op: "scan", Err: err}
	}

	page := Page{Comments: rows}
	if len(rows) > limit {
		page.Comments = rows[:limit]
		next := comment.EncodeCursor(rows[limit-1].Key())
		page.NextCursor = &next
	}
	if page.Comments == nil {
		page.Comments = []comment.Comment{}
	}
	return page, nil
}

// Get returns a single comment by id. Unknown ids yield store.ErrNotFound.
func (r *Reader) Get(ctx context.Context, id string) (comment.Comment, error) {
	c, err := r.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return comment.Comment{}, err
		}
		r.log.Error("comment get failed", zap.String("comment_id", id), zap.Error(err))
		return comment.Comment{}, &comment.StorageError{Op: "get", Err: err}
	}
	return c, nil
}
