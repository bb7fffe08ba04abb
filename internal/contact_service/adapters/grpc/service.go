package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified name of the contact service.
const ServiceName = "contactbook.v1.ContactService"

// ContactServiceServer is the server API of ServiceName. Contacts travel as
// google.protobuf.Struct values using the field names of the JSON document.
type ContactServiceServer interface {
	AddContact(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateContact(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RemoveContact(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error)
	GetContact(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	ListContacts(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	// SearchContacts takes {"query": string, "by": "name"|"email"|"phone"}.
	SearchContacts(context.Context, *structpb.Struct) (*structpb.ListValue, error)
	// SortContacts takes {"field": string, "order": "asc"|"desc"}.
	SortContacts(context.Context, *structpb.Struct) (*structpb.ListValue, error)
}

// ContactServiceDesc describes ServiceName for grpc.Server.RegisterService.
var ContactServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ContactServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod("AddContact", newStruct, func(s ContactServiceServer, ctx context.Context, in proto.Message) (proto.Message, error) {
			return s.AddContact(ctx, in.(*structpb.Struct))
		}),
		unaryMethod("UpdateContact", newStruct, func(s ContactServiceServer, ctx context.Context, in proto.Message) (proto.Message, error) {
			return s.UpdateContact(ctx, in.(*structpb.Struct))
		}),
		unaryMethod("RemoveContact", newString, func(s ContactServiceServer, ctx context.Context, in proto.Message) (proto.Message, error) {
			return s.RemoveContact(ctx, in.(*wrapperspb.StringValue))
		}),
		unaryMethod("GetContact", newString, func(s ContactServiceServer, ctx context.Context, in proto.Message) (proto.Message, error) {
			return s.GetContact(ctx, in.(*wrapperspb.StringValue))
		}),
		unaryMethod("ListContacts", newEmpty, func(s ContactServiceServer, ctx context.Context, in proto.Message) (proto.Message, error) {
			return s.ListContacts(ctx, in.(*emptypb.Empty))
		}),
		unaryMethod("SearchContacts", newStruct, func(s ContactServiceServer, ctx context.Context, in proto.Message) (proto.Message, error) {
			return s.SearchContacts(ctx, in.(*structpb.Struct))
		}),
		unaryMethod("SortContacts", newStruct, func(s ContactServiceServer, ctx context.Context, in proto.Message) (proto.Message, error) {
			return s.SortContacts(ctx, in.(*structpb.Struct))
		}),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "contactbook/v1/contact_service",
}

// RegisterContactServiceServer registers srv under ServiceName.
func RegisterContactServiceServer(s grpc.ServiceRegistrar, srv ContactServiceServer) {
	s.RegisterService(&ContactServiceDesc, srv)
}

func newStruct() proto.Message { return new(structpb.Struct) }
func newString() proto.Message { return new(wrapperspb.StringValue) }
func newEmpty() proto.Message  { return new(emptypb.Empty) }

func fullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

func unaryMethod(
	name string,
	newRequest func() proto.Message,
	call func(ContactServiceServer, context.Context, proto.Message) (proto.Message, error),
) grpc.MethodDesc {
	method := fullMethod(name)
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := newRequest()
			if err := dec(in); err != nil {
				return nil, err
			}
			server := srv.(ContactServiceServer)
			if interceptor == nil {
				return call(server, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(server, ctx, req.(proto.Message))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ContactServiceClient calls ServiceName over a client connection.
type ContactServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewContactServiceClient(cc grpc.ClientConnInterface) *ContactServiceClient {
	return &ContactServiceClient{cc: cc}
}

func (c *ContactServiceClient) AddContact(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, fullMethod("AddContact"), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ContactServiceClient) UpdateContact(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, fullMethod("UpdateContact"), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ContactServiceClient) RemoveContact(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, fullMethod("RemoveContact"), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ContactServiceClient) GetContact(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, fullMethod("GetContact"), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ContactServiceClient) ListContacts(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, fullMethod("ListContacts"), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ContactServiceClient) SearchContacts(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, fullMethod("SearchContacts"), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ContactServiceClient) SortContacts(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, fullMethod("SortContacts"), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
