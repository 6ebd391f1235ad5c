// Package grpcapi exposes the comment operations as comments.v1.CommentService.
package grpcapi

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/example/microblog/services/comments/internal/comment"
	"github.com/example/microblog/services/comments/internal/service"
)

// CommentService implements CommentServiceServer on top of the service layer.
type CommentService struct {
	Writer *service.Writer
	Reader *service.Reader
}

var _ CommentServiceServer = (*CommentService)(nil)

// identityFromMD reads the caller forwarded by the trusted gateway.
func identityFromMD(ctx context.Context) comment.Identity {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return comment.Identity{}
	}
	first := func(key string) string {
		if vals := md.Get(key); len(vals) > 0 {
			return strings.TrimSpace(vals[0])
		}
		return ""
	}
	id := comment.Identity{UserID: first("user_id"), Name: first("user_name")}
	if id.Name == "" {
		id.Name = id.UserID
	}
	return id
}

func commentToStruct(c comment.Comment) map[string]any {
	return map[string]any{
		"id":          c.ID,
		"post_id":     c.PostID,
		"author_id":   c.AuthorID,
		"author_name": c.AuthorName,
		"text":        c.Text,
		"created_at":  c.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func stringField(req *structpb.Struct, key string) string {
	if v, ok := req.GetFields()[key]; ok {
		if s, ok := v.GetKind().(*structpb.Value_StringValue); ok {
			return s.StringValue
		}
	}
	return ""
}

// CreateComment expects {"post_id": string, "text": string} and answers {"comment": {...}}.
func (s *CommentService) CreateComment(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	who := identityFromMD(ctx)
	if who.UserID == "" {
		return nil, toStatus(comment.ErrUnauthenticated)
	}

	var text *string
	if v, ok := req.GetFields()["text"]; ok {
		switch k := v.GetKind().(type) {
		case *structpb.Value_StringValue:
			text = &k.StringValue
		case *structpb.Value_NullValue:
		default:
			return nil, errInvalidArgument("INVALID_ARGUMENT", "text must be a string", map[string]string{"text": "must be a string"})
		}
	}

	created, err := s.Writer.Create(ctx, who, service.CreateInput{
		PostID: stringField(req, "post_id"),
		Text:   text,
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return structpb.NewStruct(map[string]any{"comment": commentToStruct(created)})
}

// GetComments expects {"post_id", "limit"?, "cursor"?} and answers
// {"comments": [...], "next_cursor": string | null}.
func (s *CommentService) GetComments(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	limit := 0
	if v, ok := req.GetFields()["limit"]; ok {
		if n, ok := v.GetKind().(*structpb.Value_NumberValue); ok {
			limit = int(n.NumberValue)
		}
	}

	page, err := s.Reader.List(ctx, stringField(req, "post_id"), limit, stringField(req, "cursor"))
	if err != nil {
		return nil, toStatus(err)
	}

	comments := make([]any, 0, len(page.Comments))
	for _, c := range page.Comments {
		comments = append(comments, commentToStruct(c))
	}
	var next any
	if page.NextCursor != nil {
		next = *page.NextCursor
	}
	return structpb.NewStruct(map[string]any{"comments": comments, "next_cursor": next})
}

// UnaryLogger logs every call with its status code.
func UnaryLogger(log *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		log.Debug("grpc call",
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
			zap.Duration("elapsed", time.Since(start)))
		return resp, err
	}
}
