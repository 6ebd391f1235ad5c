// Package handlers is the HTTP transport of the comments service.
package handlers

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/example/microblog/internal/platform/auth"
	"github.com/example/microblog/services/comments/internal/service"
)

// Register mounts the comment routes. Reads are public, writes need a bearer token.
func Register(r chi.Router, cw *service.Writer, cr *service.Reader, verifier auth.JWTVerifier, log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	r.Get("/v1/posts/{post_id}/comments", ListComments(cr, log))
	r.Get("/v1/comments/{comment_id}", GetComment(cr, log))
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireUser(verifier))
		r.Post("/v1/posts/{post_id}/comments", CreateComment(cw, log))
	})
}
