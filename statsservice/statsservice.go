// Package statsservice exposes a hazptr Global's reclamation activity
// over gRPC. Its ServiceDesc is hand-written in the exact shape
// protoc-gen-go-grpc emits, rather than generated, since this module's
// build never invokes protoc; the request and response messages are
// structpb.Struct, encoded and decoded through statspb.
package statsservice

import (
	"context"
	"time"

	"hazptr/global"
	"hazptr/statspb"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const serviceName = "hazptr.statsservice.StatsService"

// StatsServiceServer is implemented by Server and by any test double.
type StatsServiceServer interface {
	GetStats(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// Server reports live Snapshot data for one bound Global.
type Server struct {
	g *global.Global
}

// NewServer builds a Server reporting on g.
func NewServer(g *global.Global) *Server {
	return &Server{g: g}
}

// GetStats answers with the current Snapshot of the bound Global,
// encoded as a structpb.Struct. The request payload is ignored; its
// presence keeps the method's shape consistent with a normal unary RPC.
func (s *Server) GetStats(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	snap := collect(s.g)
	return statspb.ToStruct(snap)
}

func collect(g *global.Global) statspb.Snapshot {
	var total, reserved uint64
	it := g.Registry.Iter()
	for {
		cell, ok := it.Next()
		if !ok {
			break
		}
		total++
		if _, protected := cell.LoadProtected(); protected {
			reserved++
		}
	}

	return statspb.Snapshot{
		CellsTotal:     total,
		CellsReserved:  reserved,
		AbandonedNodes: uint64(g.Abandoned.Len()),
		ScanThreshold:  uint64(g.Config.Threshold),
		CountMode:      g.Config.CountMode.String(),
		CollectedAt:    time.Now(),
	}
}

// ServiceDesc is the hand-written equivalent of what
// protoc-gen-go-grpc would emit for a StatsService with one GetStats
// unary method.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*StatsServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetStats",
			Handler:    getStatsHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "statsservice.proto",
}

func getStatsHandler(
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StatsServiceServer).GetStats(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/" + serviceName + "/GetStats",
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(StatsServiceServer).GetStats(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// RegisterStatsServiceServer registers srv on s, the way a generated
// RegisterXxxServer function would.
func RegisterStatsServiceServer(s grpc.ServiceRegistrar, srv StatsServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// Client calls a remote StatsService.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient builds a Client bound to cc.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// GetStats invokes the remote GetStats method.
func (c *Client) GetStats(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	req := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/GetStats", req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
