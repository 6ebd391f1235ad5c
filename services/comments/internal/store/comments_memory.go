package store

import (
	"context"
	"sort"
	"sync"

	"github.com/example/microblog/services/comments/internal/comment"
)

// InMemoryCommentStore is a development-only in-memory implementation.
type InMemoryCommentStore struct {
	mu     sync.RWMutex
	byID   map[string]comment.Comment   // id -> comment
	byPost map[string][]comment.Comment // post_id -> comments sorted by key
}

func NewInMemoryCommentStore() *InMemoryCommentStore {
	return &InMemoryCommentStore{
		byID:   make(map[string]comment.Comment),
		byPost: make(map[string][]comment.Comment),
	}
}

func (s *InMemoryCommentStore) Insert(_ context.Context, c comment.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[c.ID]; ok {
		return ErrDuplicateID
	}
	s.byID[c.ID] = c

	list := s.byPost[c.PostID]
	key := c.Key()
	i := sort.Search(len(list), func(i int) bool { return key.Less(list[i].Key()) })
	list = append(list, comment.Comment{})
	copy(list[i+1:], list[i:])
	list[i] = c
	s.byPost[c.PostID] = list
	return nil
}

func (s *InMemoryCommentStore) Get(_ context.Context, id string) (comment.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.byID[id]
	if !ok {
		return comment.Comment{}, ErrNotFound
	}
	return c, nil
}

func (s *InMemoryCommentStore) Scan(_ context.Context, req ScanRequest) ([]comment.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.byPost[req.PostID]
	start := 0
	if req.After != nil {
		after := *req.After
		start = sort.Search(len(list), func(i int) bool { return after.Less(list[i].Key()) })
	}
	end := len(list)
	if req.Limit > 0 && start+req.Limit < end {
		end = start + req.Limit
	}
	if start >= end {
		return []comment.Comment{}, nil
	}

	out := make([]comment.Comment, end-start)
	copy(out, list[start:end])
	return out, nil
}

func (s *InMemoryCommentStore) Ping(context.Context) error { return nil }

// Len returns the number of stored comments across all posts.
func (s *InMemoryCommentStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
