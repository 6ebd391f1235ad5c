// Package service implements the two comment operations: Writer validates
// and stores a new comment, Reader pages through a post's comments.
package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/microblog/internal/platform/events"
	"github.com/example/microblog/services/comments/internal/comment"
	"github.com/example/microblog/services/comments/internal/store"
)

// EventPublisher is the fire-and-forget sink for domain events.
type EventPublisher interface {
	Publish(subject, eventName, userID string, props map[string]any)
}

// CreateInput is the caller-controlled part of a new comment. Author
// identity is deliberately absent; it comes from the authenticated caller.
type CreateInput struct {
	PostID string
	Text   *string
}

// Writer validates and persists new comments.
type Writer struct {
	store  store.CommentStore
	log    *zap.Logger
	events EventPublisher
	now    func() time.Time
	newID  func() string

	mu   sync.Mutex
	last time.Time
}

type WriterOption func(*Writer)

// WithClock replaces the wall clock, mostly for tests.
func WithClock(now func() time.Time) WriterOption {
	return func(w *Writer) { w.now = now }
}

// WithIDGenerator replaces uuid generation, mostly for tests.
func WithIDGenerator(newID func() string) WriterOption {
	return func(w *Writer) { w.newID = newID }
}

// WithEvents publishes a comments.created event after every successful write.
func WithEvents(p EventPublisher) WriterOption {
	return func(w *Writer) { w.events = p }
}

func NewWriter(s store.CommentStore, log *zap.Logger, opts ...WriterOption) *Writer {
	if log == nil {
		log = zap.NewNop()
	}
	w := &Writer{
		store: s,
		log:   log,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Create validates in and stores exactly one comment authored by who.
// Validation failures return *comment.ValidationError and write nothing;
// store failures return *comment.StorageError.
func (w *Writer) Create(ctx context.Context, who comment.Identity, in CreateInput) (comment.Comment, error) {
	if strings.TrimSpace(who.UserID) == "" {
		return comment.Comment{}, comment.ErrUnauthenticated
	}
	text, err := comment.ValidateNew(in.PostID, in.Text)
	if err != nil {
		w.log.Debug("comment rejected", zap.String("post_id", in.PostID), zap.Error(err))
		return comment.Comment{}, err
	}

	c := comment.Comment{
		ID:         w.newID(),
		PostID:     in.PostID,
		AuthorID:   who.UserID,
		AuthorName: who.Name,
		Text:       text,
		CreatedAt:  w.timestamp(),
	}
	if err := w.store.Insert(ctx, c); err != nil {
		w.log.Error("comment insert failed",
			zap.String("post_id", c.PostID), zap.String("comment_id", c.ID), zap.Error(err))
		return comment.Comment{}, &comment.StorageError{Op: "insert", Err: err}
	}

	if w.events != nil {
		w.events.Publish(events.SubjectCommentCreated, "comment_created", c.AuthorID, map[string]any{
			"comment_id": c.ID,
			"post_id":    c.PostID,
			"author_id":  c.AuthorID,
			"created_at": c.CreatedAt,
		})
	}
	return c, nil
}

// timestamp is strictly increasing per writer, so one writer's comments
// always read back in insertion order even when the wall clock stalls or
// steps back. Different writers can still collide; ids break those ties.
func (w *Writer) timestamp() time.Time {
	t := comment.Normalize(w.now())
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.last.IsZero() && !t.After(w.last) {
		t = w.last.Add(comment.Precision)
	}
	w.last = t
	return t
}
