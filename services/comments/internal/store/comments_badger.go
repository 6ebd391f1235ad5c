package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/dgraph-io/badger/v4"

	"github.com/example/microblog/services/comments/internal/comment"
)

// BadgerCommentStore persists comments in an embedded BadgerDB.
//
// Every comment is written twice in one transaction:
//
//	comments/id/{id}                                  -> record
//	comments/post/{post_id}/{unix micros %019d}/{id}  -> record
//
// The zero-padded timestamp makes lexicographic key order equal to
// (created_at, id) order, so a page is a prefix scan.
type BadgerCommentStore struct {
	db *badger.DB
}

// NewBadgerCommentStore wraps an already opened database. The caller owns db.
func NewBadgerCommentStore(db *badger.DB) *BadgerCommentStore {
	return &BadgerCommentStore{db: db}
}

// OpenBadger opens (or creates) a database directory with quiet logging.
func OpenBadger(path string) (*badger.DB, error) {
	db, err := badger.Open(badger.DefaultOptions(path).WithLoggingLevel(badger.WARNING))
	if err != nil {
		return nil, fmt.Errorf("open badger %s: %w", path, err)
	}
	return db, nil
}

func idKey(id string) []byte {
	return []byte("comments/id/" + id)
}

func postPrefix(postID string) []byte {
	return []byte("comments/post/" + url.PathEscape(postID) + "/")
}

func orderKey(postID string, k comment.SortKey) []byte {
	return []byte(fmt.Sprintf("%s%019d/%s", postPrefix(postID), k.CreatedAt.UnixMicro(), k.ID))
}

func (s *BadgerCommentStore) Insert(_ context.Context, c comment.Comment) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(idKey(c.ID)); err == nil {
			return ErrDuplicateID
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := txn.Set(idKey(c.ID), data); err != nil {
			return err
		}
		return txn.Set(orderKey(c.PostID, c.Key()), data)
	})
}

func (s *BadgerCommentStore) Get(_ context.Context, id string) (comment.Comment, error) {
	var out comment.Comment
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(idKey(id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &out)
		})
	})
	if err != nil {
		return comment.Comment{}, err
	}
	return out, nil
}

func (s *BadgerCommentStore) Scan(ctx context.Context, req ScanRequest) ([]comment.Comment, error) {
	prefix := postPrefix(req.PostID)
	seek := prefix
	if req.After != nil {
		seek = orderKey(req.PostID, *req.After)
	}

	out := []comment.Comment{}
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		if req.Limit > 0 && req.Limit < opts.PrefetchSize {
			opts.PrefetchSize = req.Limit
		}
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			// Seek lands on the cursor key itself when it still exists
			if req.After != nil && bytes.Equal(item.Key(), seek) {
				continue
			}
			var c comment.Comment
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &c)
			}); err != nil {
				return err
			}
			out = append(out, c)
			if req.Limit > 0 && len(out) == req.Limit {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *BadgerCommentStore) Ping(context.Context) error {
	if s.db.IsClosed() {
		return errors.New("badger: database closed")
	}
	return nil
}
