package grpcapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const serviceName = "comments.v1.CommentService"

// Full method names, as seen by interceptors and clients.
const (
	MethodCreateComment = "/" + serviceName + "/CreateComment"
	MethodGetComments   = "/" + serviceName + "/GetComments"
)

// CommentServiceServer is the server side of comments.v1.CommentService.
// Requests and responses are google.protobuf.Struct documents.
type CommentServiceServer interface {
	CreateComment(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetComments(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// ServiceDesc describes comments.v1.CommentService for grpc.Server.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*CommentServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateComment", Handler: createCommentHandler},
		{MethodName: "GetComments", Handler: getCommentsHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "comments/v1/comments.proto",
}

func RegisterCommentServiceServer(s grpc.ServiceRegistrar, srv CommentServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func createCommentHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CommentServiceServer).CreateComment(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodCreateComment}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CommentServiceServer).CreateComment(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func getCommentsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CommentServiceServer).GetComments(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodGetComments}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CommentServiceServer).GetComments(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// CommentServiceClient calls comments.v1.CommentService.
type CommentServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewCommentServiceClient(cc grpc.ClientConnInterface) *CommentServiceClient {
	return &CommentServiceClient{cc: cc}
}

func (c *CommentServiceClient) CreateComment(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MethodCreateComment, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CommentServiceClient) GetComments(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MethodGetComments, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
