package rulesserver

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "swse.rules.v1.Rules"

// RulesServer is the server API of the Rules service.
type RulesServer interface {
	Derive(context.Context, *DeriveRequest) (*DeriveResponse, error)
	ValidateUpgrade(context.Context, *UpgradeRequest) (*UpgradeResponse, error)
	InstallUpgrade(context.Context, *UpgradeRequest) (*UpgradeResponse, error)
	RemoveUpgrade(context.Context, *RemoveUpgradeRequest) (*RemoveUpgradeResponse, error)
	Strip(context.Context, *StripRequest) (*StripResponse, error)
	EligiblePrestige(context.Context, *EligiblePrestigeRequest) (*EligiblePrestigeResponse, error)
	PrestigeDetails(context.Context, *PrestigeDetailsRequest) (*PrestigeDetailsResponse, error)
	InstallationTime(context.Context, *InstallationTimeRequest) (*InstallationTimeResponse, error)
	RollForceDie(context.Context, *RollForceDieRequest) (*RollForceDieResponse, error)
}

// ServiceDesc describes the Rules service for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RulesServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Derive", RulesServer.Derive),
		unary("ValidateUpgrade", RulesServer.ValidateUpgrade),
		unary("InstallUpgrade", RulesServer.InstallUpgrade),
		unary("RemoveUpgrade", RulesServer.RemoveUpgrade),
		unary("Strip", RulesServer.Strip),
		unary("EligiblePrestige", RulesServer.EligiblePrestige),
		unary("PrestigeDetails", RulesServer.PrestigeDetails),
		unary("InstallationTime", RulesServer.InstallationTime),
		unary("RollForceDie", RulesServer.RollForceDie),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "swse/rules/v1/rules",
}

// Register adds srv to s.
func Register(s grpc.ServiceRegistrar, srv RulesServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func fullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

func unary[Req, Resp any](method string, call func(RulesServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(RulesServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(method)}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(srv.(RulesServer), ctx, req.(*Req))
			})
		},
	}
}
