package grpcapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	longrunningpb "cloud.google.com/go/longrunning/autogen/longrunningpb"
)

// Client is the client API for the Sessions service.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient creates a Sessions client on an existing connection.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// CreateSession creates a session and returns the completed operation.
func (c *Client) CreateSession(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*longrunningpb.Operation, error) {
	out := new(longrunningpb.Operation)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/CreateSession", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// GetSession fetches the session with the given ID.
func (c *Client) GetSession(ctx context.Context, id string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/GetSession", wrapperspb.String(id), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteSession deletes the session with the given ID.
func (c *Client) DeleteSession(ctx context.Context, id string, opts ...grpc.CallOption) (*longrunningpb.Operation, error) {
	out := new(longrunningpb.Operation)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/DeleteSession", wrapperspb.String(id), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// ExecuteLines runs source in the session and returns one result per
// executed line.
func (c *Client) ExecuteLines(ctx context.Context, session, source string, opts ...grpc.CallOption) ([]*structpb.Value, error) {
	in, err := structpb.NewStruct(map[string]interface{}{
		"session": session,
		"source":  source,
	})
	if err != nil {
		return nil, err
	}

	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/ExecuteLines", in, out, opts...); err != nil {
		return nil, err
	}
	return out.GetFields()["results"].GetListValue().GetValues(), nil
}
