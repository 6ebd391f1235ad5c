package grpcapi

import (
	"errors"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/example/microblog/services/comments/internal/comment"
	"github.com/example/microblog/services/comments/internal/store"
)

const errorDomain = "comments"

func errInvalidArgument(code, msg string, fieldViolations map[string]string) error {
	st := status.New(codes.InvalidArgument, msg)
	info := &errdetails.ErrorInfo{Reason: code, Domain: errorDomain}

	bad := &errdetails.BadRequest{}
	for field, desc := range fieldViolations {
		bad.FieldViolations = append(bad.FieldViolations, &errdetails.BadRequest_FieldViolation{Field: field, Description: desc})
	}

	st2, err := st.WithDetails(info, bad)
	if err != nil {
		return st.Err()
	}
	return st2.Err()
}

func errWithInfo(c codes.Code, code, msg string) error {
	st := status.New(c, msg)
	st2, err := st.WithDetails(&errdetails.ErrorInfo{Reason: code, Domain: errorDomain})
	if err != nil {
		return st.Err()
	}
	return st2.Err()
}

// toStatus maps the comment error taxonomy onto gRPC status codes.
func toStatus(err error) error {
	var ve *comment.ValidationError
	switch {
	case errors.As(err, &ve):
		return errInvalidArgument("VALIDATION_FAILED", ve.Reason, map[string]string{ve.Field: ve.Reason})
	case errors.Is(err, comment.ErrUnauthenticated):
		return errWithInfo(codes.Unauthenticated, "UNAUTHENTICATED", "authentication required")
	case errors.Is(err, store.ErrNotFound):
		return errWithInfo(codes.NotFound, "NOT_FOUND", "comment not found")
	case comment.IsStorage(err):
		return errWithInfo(codes.Unavailable, "STORAGE_UNAVAILABLE", "comment storage unavailable")
	default:
		return errWithInfo(codes.Internal, "INTERNAL", "internal error")
	}
}
