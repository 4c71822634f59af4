// Package grpcapi serves expression sessions over gRPC. Messages use the
// well-known protobuf types, so clients need no generated code beyond what
// ships with google.golang.org/protobuf.
package grpcapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/anypb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	longrunningpb "cloud.google.com/go/longrunning/autogen/longrunningpb"

	"github.com/jac259/CompilerDesign/pkg/api"
	"github.com/jac259/CompilerDesign/pkg/runtime"
	"github.com/jac259/CompilerDesign/pkg/store"
	"github.com/jac259/CompilerDesign/pkg/types"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "exprc.v1.Sessions"

// SessionsServer is the server API for the Sessions service.
type SessionsServer interface {
	// CreateSession takes {"sessionId", "radix"}, both optional.
	CreateSession(context.Context, *structpb.Struct) (*longrunningpb.Operation, error)
	// GetSession takes a session ID.
	GetSession(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	// DeleteSession takes a session ID.
	DeleteSession(context.Context, *wrapperspb.StringValue) (*longrunningpb.Operation, error)
	// ExecuteLines takes {"session", "source"} and returns {"results": [...]}.
	ExecuteLines(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SessionsServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "CreateSession",
			Handler: unaryHandler("CreateSession", func() proto.Message { return new(structpb.Struct) },
				func(s SessionsServer, ctx context.Context, req proto.Message) (proto.Message, error) {
					return s.CreateSession(ctx, req.(*structpb.Struct))
				}),
		},
		{
			MethodName: "GetSession",
			Handler: unaryHandler("GetSession", func() proto.Message { return new(wrapperspb.StringValue) },
				func(s SessionsServer, ctx context.Context, req proto.Message) (proto.Message, error) {
					return s.GetSession(ctx, req.(*wrapperspb.StringValue))
				}),
		},
		{
			MethodName: "DeleteSession",
			Handler: unaryHandler("DeleteSession", func() proto.Message { return new(wrapperspb.StringValue) },
				func(s SessionsServer, ctx context.Context, req proto.Message) (proto.Message, error) {
					return s.DeleteSession(ctx, req.(*wrapperspb.StringValue))
				}),
		},
		{
			MethodName: "ExecuteLines",
			Handler: unaryHandler("ExecuteLines", func() proto.Message { return new(structpb.Struct) },
				func(s SessionsServer, ctx context.Context, req proto.Message) (proto.Message, error) {
					return s.ExecuteLines(ctx, req.(*structpb.Struct))
				}),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "exprc/v1/sessions.proto",
}

// unaryHandler adapts a typed method to grpc.MethodHandler.
func unaryHandler(
	method string,
	newReq func() proto.Message,
	call func(SessionsServer, context.Context, proto.Message) (proto.Message, error),
) grpc.MethodHandler {
	fullMethod := "/" + ServiceName + "/" + method
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := newReq()
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(SessionsServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(SessionsServer), ctx, req.(proto.Message))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// RegisterSessionsServer registers srv on the gRPC server.
func RegisterSessionsServer(s grpc.ServiceRegistrar, srv SessionsServer) {
	s.RegisterService(&serviceDesc, srv)
}

// Server implements the Sessions and Operations gRPC services.
type Server struct {
	longrunningpb.UnimplementedOperationsServer

	store *store.Store
	radix types.Radix
	grpc  *grpc.Server
}

// New creates a new gRPC server wrapping the given store.
func New(s *store.Store, defaultRadix types.Radix) *Server {
	srv := &Server{
		store: s,
		radix: defaultRadix,
	}

	gs := grpc.NewServer()
	RegisterSessionsServer(gs, srv)
	longrunningpb.RegisterOperationsServer(gs, srv)
	srv.grpc = gs

	return srv
}

// Serve starts listening on the given address and serves gRPC requests.
func (s *Server) Serve(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("grpc listen: %w", err)
	}
	return s.grpc.Serve(lis)
}

// GracefulStop gracefully stops the gRPC server.
func (s *Server) GracefulStop() {
	s.grpc.GracefulStop()
}

// --- Sessions Service ---

// CreateSession creates a session, named when the request has a sessionId.
func (s *Server) CreateSession(ctx context.Context, req *structpb.Struct) (*longrunningpb.Operation, error) {
	fields := req.GetFields()

	radix := s.radix
	if r := fields["radix"].GetStringValue(); r != "" {
		parsed, err := types.ParseRadix(r)
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		radix = parsed
	}

	var e *store.Entry
	if id := fields["sessionId"].GetStringValue(); id != "" {
		if !api.ValidSessionID(id) {
			return nil, status.Errorf(codes.InvalidArgument, "invalid session ID %q", id)
		}
		var err error
		e, err = s.store.CreateNamedSession(id, radix)
		if err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return nil, status.Error(codes.AlreadyExists, err.Error())
			}
			return nil, status.Error(codes.Internal, err.Error())
		}
	} else {
		e = s.store.CreateSession(radix)
	}

	session, err := sessionToProto(e)
	if err != nil {
		return nil, err
	}
	return doneOperation("create-"+e.ID(), session)
}

// GetSession returns the session as a Struct.
func (s *Server) GetSession(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	e, err := s.store.GetSession(req.GetValue())
	if err != nil {
		return nil, status.Error(codes.NotFound, err.Error())
	}
	return sessionToProto(e)
}

// DeleteSession removes the session and its variables.
func (s *Server) DeleteSession(ctx context.Context, req *wrapperspb.StringValue) (*longrunningpb.Operation, error) {
	if err := s.store.DeleteSession(req.GetValue()); err != nil {
		return nil, status.Error(codes.NotFound, err.Error())
	}
	return doneOperation("delete-"+req.GetValue(), &emptypb.Empty{})
}

// ExecuteLines runs the source in the session, one result per executed line.
func (s *Server) ExecuteLines(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()

	e, err := s.store.GetSession(fields["session"].GetStringValue())
	if err != nil {
		return nil, status.Error(codes.NotFound, err.Error())
	}

	source := fields["source"].GetStringValue()
	if len(source) > api.MaxSourceBytes {
		return nil, status.Errorf(codes.InvalidArgument, "source exceeds maximum size of %d bytes", api.MaxSourceBytes)
	}

	lines := e.Session.ExecuteSource(source)
	results := make([]interface{}, len(lines))
	for i, l := range lines {
		results[i] = reportToMap(l.Report())
	}

	out, err := structpb.NewStruct(map[string]interface{}{"results": results})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode results: %v", err)
	}
	return out, nil
}

// --- Operations Service ---

// GetOperation returns NotFound: every operation completes before the call
// that started it returns.
func (s *Server) GetOperation(ctx context.Context, req *longrunningpb.GetOperationRequest) (*longrunningpb.Operation, error) {
	return nil, status.Errorf(codes.NotFound, "operation %q not found (operations complete immediately)", req.GetName())
}

// doneOperation wraps a proto message in an already-completed LRO Operation.
func doneOperation(name string, msg proto.Message) (*longrunningpb.Operation, error) {
	any, err := anypb.New(msg)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to marshal operation result: %v", err)
	}
	return &longrunningpb.Operation{
		Name: "operations/" + name,
		Done: true,
		Result: &longrunningpb.Operation_Response{
			Response: any,
		},
	}, nil
}

func sessionToProto(e *store.Entry) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(map[string]interface{}{
		"name":       e.Name,
		"radix":      e.Session.Radix().String(),
		"createTime": e.Session.CreateTime().Format(time.RFC3339),
		"updateTime": e.Session.UpdateTime().Format(time.RFC3339),
		"lineCount":  e.Session.LineCount(),
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode session: %v", err)
	}
	return s, nil
}

func reportToMap(r runtime.Report) map[string]interface{} {
	m := map[string]interface{}{"input": r.Input}
	if r.Error == nil {
		m["statement"] = r.Statement
		m["result"] = r.Result
		return m
	}

	tags := make([]interface{}, len(r.Error.Tags))
	for i, t := range r.Error.Tags {
		tags[i] = t
	}
	m["error"] = map[string]interface{}{
		"message": r.Error.Message,
		"tags":    tags,
	}
	return m
}
