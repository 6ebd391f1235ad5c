package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/example/microblog/services/comments/internal/comment"
)

// id uses the C collation so Postgres orders ties exactly like a byte-wise
// string comparison, which is what the other backends and cursors assume.
const schema = `
CREATE TABLE IF NOT EXISTS comments (
	id          text COLLATE "C" PRIMARY KEY,
	post_id     text NOT NULL,
	author_id   text NOT NULL,
	author_name text NOT NULL,
	text        text NOT NULL,
	created_at  timestamptz NOT NULL
);
CREATE INDEX IF NOT EXISTS comments_post_order_idx ON comments (post_id, created_at, id);
`

const commentColumns = `id, post_id, author_id, author_name, text, created_at`

// PostgresCommentStore persists comments in Postgres.
type PostgresCommentStore struct {
	pool *pgxpool.Pool
}

// NewPostgresCommentStore creates a store backed by Postgres.
func NewPostgresCommentStore(pool *pgxpool.Pool) *PostgresCommentStore {
	return &PostgresCommentStore{pool: pool}
}

// EnsureSchema creates the comments table and its ordering index if missing.
func (s *PostgresCommentStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schema)
	return err
}

func (s *PostgresCommentStore) Insert(ctx context.Context, c comment.Comment) error {
	const q = `INSERT INTO comments (` + commentColumns + `)
	           VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := s.pool.Exec(ctx, q, c.ID, c.PostID, c.AuthorID, c.AuthorName, c.Text, c.CreatedAt)
	if err != nil {
		// unique violation
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateID
		}
		return err
	}
	return nil
}

func (s *PostgresCommentStore) Get(ctx context.Context, id string) (comment.Comment, error) {
	const q = `SELECT ` + commentColumns + ` FROM comments WHERE id = $1`
	var c comment.Comment
	err := s.pool.QueryRow(ctx, q, id).Scan(&c.ID, &c.PostID, &c.AuthorID, &c.AuthorName, &c.Text, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return comment.Comment{}, ErrNotFound
		}
		return comment.Comment{}, err
	}
	c.CreatedAt = c.CreatedAt.UTC()
	return c, nil
}

func (s *PostgresCommentStore) Scan(ctx context.Context, req ScanRequest) ([]comment.Comment, error) {
	var q string
	var args []any

	// LIMIT NULL means no limit
	var limit any
	if req.Limit > 0 {
		limit = req.Limit
	}

	if req.After == nil {
		q = `SELECT ` + commentColumns + `
		     FROM comments
		     WHERE post_id = $1
		     ORDER BY created_at ASC, id ASC
		     LIMIT $2`
		args = []any{req.PostID, limit}
	} else {
		q = `SELECT ` + commentColumns + `
		     FROM comments
		     WHERE post_id = $1
		       AND (created_at, id) > ($3, $4)
		     ORDER BY created_at ASC, id ASC
		     LIMIT $2`
		args = []any{req.PostID, limit, req.After.CreatedAt, req.After.ID}
	}

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []comment.Comment{}
	for rows.Next() {
		var c comment.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.AuthorName, &c.Text, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.CreatedAt = c.CreatedAt.UTC()
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PostgresCommentStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}
