//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
package store

import (
	"context"
	"errors"

	"github.com/example/microblog/services/comments/internal/comment"
)

// Sentinel errors
var (
	ErrNotFound    = errors.New("comment not found")
	ErrDuplicateID = errors.New("comment id already exists")
)

// ScanRequest selects one ascending slice of a post's comments.
type ScanRequest struct {
	PostID string
	// After, when set, excludes every comment whose key is <= *After.
	After *comment.SortKey
	// Limit <= 0 means no limit.
	Limit int
}

// CommentStore defines the contract for comment persistence.
//
// Implementations store each comment under its id and under
// (post_id, created_at, id), and Scan walks the latter in ascending order.
// Returned errors are raw backend errors; callers classify them.
type CommentStore interface {
	Insert(ctx context.Context, c comment.Comment) error
	Get(ctx context.Context, id string) (comment.Comment, error)
	Scan(ctx context.Context, req ScanRequest) ([]comment.Comment, error)
	Ping(ctx context.Context) error
}
