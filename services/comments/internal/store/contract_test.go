package store

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"github.com/example/microblog/services/comments/internal/comment"
)

// runContract exercises the ordering and paging guarantees every backend must give.
func runContract(t *testing.T, newStore func(t *testing.T) CommentStore) {
	t.Run("insert and get", func(t *testing.T) {
		req := require.New(t)
		s := newStore(t)
		ctx := context.Background()

		c := newComment("post-get", baseTime(), "hello")
		req.NoError(s.Insert(ctx, c))

		got, err := s.Get(ctx, c.ID)
		req.NoError(err)
		assertSameComment(t, c, got)

		_, err = s.Get(ctx, uuid.NewString())
		req.ErrorIs(err, ErrNotFound)
	})

	t.Run("duplicate id rejected", func(t *testing.T) {
		req := require.New(t)
		s := newStore(t)
		ctx := context.Background()

		c := newComment("post-dup", baseTime(), "first")
		req.NoError(s.Insert(ctx, c))
		req.ErrorIs(s.Insert(ctx, c), ErrDuplicateID)
	})

	t.Run("empty partition", func(t *testing.T) {
		req := require.New(t)
		s := newStore(t)

		got, err := s.Scan(context.Background(), ScanRequest{PostID: "nobody-here", Limit: 10})
		req.NoError(err)
		req.Empty(got)
	})

	t.Run("scan is ascending and partitioned", func(t *testing.T) {
		req := require.New(t)
		s := newStore(t)
		ctx := context.Background()

		at := baseTime()
		// inserted out of order on purpose
		third := newComment("post-a", at.Add(2*time.Second), "third")
		first := newComment("post-a", at, "first")
		second := newComment("post-a", at.Add(time.Second), "second")
		other := newComment("post-b", at, "elsewhere")
		for _, c := range []comment.Comment{third, first, other, second} {
			req.NoError(s.Insert(ctx, c))
		}

		got, err := s.Scan(ctx, ScanRequest{PostID: "post-a", Limit: 10})
		req.NoError(err)
		req.Equal([]string{"first", "second", "third"}, texts(got))
	})

	t.Run("ties ordered by id", func(t *testing.T) {
		req := require.New(t)
		s := newStore(t)
		ctx := context.Background()

		at := baseTime()
		var all []comment.Comment
		for i := 0; i < 7; i++ {
			c := newComment("post-tie", at, fmt.Sprintf("tie-%d", i))
			all = append(all, c)
			req.NoError(s.Insert(ctx, c))
		}
		sort.Slice(all, func(i, j int) bool { return all[i].Key().Less(all[j].Key()) })

		got, err := s.Scan(ctx, ScanRequest{PostID: "post-tie", Limit: 100})
		req.NoError(err)
		req.Equal(ids(all), ids(got))

		// resuming from the middle of a tie run continues inside it
		after := all[2].Key()
		got, err = s.Scan(ctx, ScanRequest{PostID: "post-tie", After: &after, Limit: 2})
		req.NoError(err)
		req.Equal(ids(all[3:5]), ids(got))
	})

	t.Run("after excludes the cursor row", func(t *testing.T) {
		req := require.New(t)
		s := newStore(t)
		ctx := context.Background()

		at := baseTime()
		var all []comment.Comment
		for i := 0; i < 5; i++ {
			c := newComment("post-after", at.Add(time.Duration(i)*time.Millisecond), fmt.Sprintf("c%d", i))
			all = append(all, c)
			req.NoError(s.Insert(ctx, c))
		}

		after := all[1].Key()
		got, err := s.Scan(ctx, ScanRequest{PostID: "post-after", After: &after, Limit: 10})
		req.NoError(err)
		req.Equal(ids(all[2:]), ids(got))

		last := all[4].Key()
		got, err = s.Scan(ctx, ScanRequest{PostID: "post-after", After: &last, Limit: 10})
		req.NoError(err)
		req.Empty(got)
	})

	t.Run("after a key that is not stored", func(t *testing.T) {
		req := require.New(t)
		s := newStore(t)
		ctx := context.Background()

		at := baseTime()
		early := newComment("post-gap", at, "early")
		late := newComment("post-gap", at.Add(time.Second), "late")
		req.NoError(s.Insert(ctx, early))
		req.NoError(s.Insert(ctx, late))

		gap := comment.SortKey{CreatedAt: at.Add(500 * time.Millisecond), ID: "zzz"}
		got, err := s.Scan(ctx, ScanRequest{PostID: "post-gap", After: &gap, Limit: 10})
		req.NoError(err)
		req.Equal([]string{"late"}, texts(got))
	})

	t.Run("limit bounds the slice", func(t *testing.T) {
		req := require.New(t)
		s := newStore(t)
		ctx := context.Background()

		at := baseTime()
		for i := 0; i < 4; i++ {
			req.NoError(s.Insert(ctx, newComment("post-limit", at.Add(time.Duration(i)*time.Second), fmt.Sprintf("c%d", i))))
		}
		got, err := s.Scan(ctx, ScanRequest{PostID: "post-limit", Limit: 3})
		req.NoError(err)
		req.Equal([]string{"c0", "c1", "c2"}, texts(got))
	})

	t.Run("post ids sharing a prefix stay apart", func(t *testing.T) {
		req := require.New(t)
		s := newStore(t)
		ctx := context.Background()

		req.NoError(s.Insert(ctx, newComment("p/1", baseTime(), "slash")))
		req.NoError(s.Insert(ctx, newComment("p", baseTime(), "plain")))

		got, err := s.Scan(ctx, ScanRequest{PostID: "p", Limit: 10})
		req.NoError(err)
		req.Equal([]string{"plain"}, texts(got))
	})

	t.Run("ping", func(t *testing.T) {
		require.NoError(t, newStore(t).Ping(context.Background()))
	})
}

func baseTime() time.Time {
	return comment.Normalize(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
}

func newComment(postID string, at time.Time, text string) comment.Comment {
	return comment.Comment{
		ID:         uuid.NewString(),
		PostID:     postID,
		AuthorID:   "user-a",
		AuthorName: "Alice",
		Text:       text,
		CreatedAt:  comment.Normalize(at),
	}
}

func assertSameComment(t *testing.T, want, got comment.Comment) {
	t.Helper()
	require.True(t, want.CreatedAt.Equal(got.CreatedAt), "created_at %v != %v", want.CreatedAt, got.CreatedAt)
	got.CreatedAt = want.CreatedAt
	require.Equal(t, want, got)
}

func ids(cs []comment.Comment) []string {
	return lo.Map(cs, func(c comment.Comment, _ int) string { return c.ID })
}

func texts(cs []comment.Comment) []string {
	return lo.Map(cs, func(c comment.Comment, _ int) string { return c.Text })
}
