package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/example/microblog/internal/platform/api"
	"github.com/example/microblog/internal/platform/auth"
	"github.com/example/microblog/internal/platform/httpserver"
	"github.com/example/microblog/services/comments/internal/comment"
	"github.com/example/microblog/services/comments/internal/service"
	"github.com/example/microblog/services/comments/internal/store"
)

const maxBodyBytes = 1 << 16

// createCommentRequest only carries text. Author fields sent by the client
// are dropped by the decoder; the author is always the authenticated caller.
type createCommentRequest struct {
	Text *string `json:"text"`
}

// CreateComment handles POST /v1/posts/{post_id}/comments
func CreateComment(cw *service.Writer, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok || strings.TrimSpace(userID) == "" {
			api.Unauthorized(w, "UNAUTHORIZED", "authentication required", rid)
			return
		}
		name, _ := auth.UserNameFromContext(r.Context())
		if strings.TrimSpace(name) == "" {
			name = userID
		}

		var req createCommentRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
			api.BadRequest(w, "INVALID_JSON", "invalid JSON", rid, nil)
			return
		}

		created, err := cw.Create(r.Context(), comment.Identity{UserID: userID, Name: name}, service.CreateInput{
			PostID: chi.URLParam(r, "post_id"),
			Text:   req.Text,
		})
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		api.WriteJSON(w, http.StatusCreated, created)
	}
}

// ListComments handles GET /v1/posts/{post_id}/comments
func ListComments(cr *service.Reader, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		// unparsable limits fall back to the default page size
		limit, _ := strconv.Atoi(strings.TrimSpace(q.Get("limit")))

		page, err := cr.List(r.Context(), chi.URLParam(r, "post_id"), limit, q.Get("cursor"))
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, page)
	}
}

// GetComment handles GET /v1/comments/{comment_id}
func GetComment(cr *service.Reader, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "comment_id"))
		if id == "" {
			api.BadRequest(w, "MISSING_ID", "comment_id is required", httpserver.RequestIDFromContext(r.Context()), nil)
			return
		}
		c, err := cr.Get(r.Context(), id)
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, c)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	rid := httpserver.RequestIDFromContext(r.Context())
	var ve *comment.ValidationError
	switch {
	case errors.As(err, &ve):
		api.BadRequest(w, "VALIDATION_FAILED", ve.Reason, rid, map[string]any{"field": ve.Field})
	case errors.Is(err, comment.ErrUnauthenticated):
		api.Unauthorized(w, "UNAUTHORIZED", "authentication required", rid)
	case errors.Is(err, store.ErrNotFound):
		api.NotFound(w, "NOT_FOUND", "comment not found", rid)
	case comment.IsStorage(err):
		api.Unavailable(w, "STORAGE_UNAVAILABLE", "comment storage unavailable", rid)
	default:
		log.Error("unhandled comment error", zap.String("request_id", rid), zap.Error(err))
		api.Internal(w, rid)
	}
}
