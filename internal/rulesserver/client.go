package rulesserver

import (
	"context"

	"google.golang.org/grpc"
)

// Client calls the Rules service over a gRPC connection.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps cc.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, fullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Derive(ctx context.Context, in *DeriveRequest, opts ...grpc.CallOption) (*DeriveResponse, error) {
	return invoke[DeriveResponse](ctx, c.cc, "Derive", in, opts)
}

func (c *Client) ValidateUpgrade(ctx context.Context, in *UpgradeRequest, opts ...grpc.CallOption) (*UpgradeResponse, error) {
	return invoke[UpgradeResponse](ctx, c.cc, "ValidateUpgrade", in, opts)
}

func (c *Client) InstallUpgrade(ctx context.Context, in *UpgradeRequest, opts ...grpc.CallOption) (*UpgradeResponse, error) {
	return invoke[UpgradeResponse](ctx, c.cc, "InstallUpgrade", in, opts)
}

func (c *Client) RemoveUpgrade(ctx context.Context, in *RemoveUpgradeRequest, opts ...grpc.CallOption) (*RemoveUpgradeResponse, error) {
	return invoke[RemoveUpgradeResponse](ctx, c.cc, "RemoveUpgrade", in, opts)
}

func (c *Client) Strip(ctx context.Context, in *StripRequest, opts ...grpc.CallOption) (*StripResponse, error) {
	return invoke[StripResponse](ctx, c.cc, "Strip", in, opts)
}

func (c *Client) EligiblePrestige(ctx context.Context, in *EligiblePrestigeRequest, opts ...grpc.CallOption) (*EligiblePrestigeResponse, error) {
	return invoke[EligiblePrestigeResponse](ctx, c.cc, "EligiblePrestige", in, opts)
}

func (c *Client) PrestigeDetails(ctx context.Context, in *PrestigeDetailsRequest, opts ...grpc.CallOption) (*PrestigeDetailsResponse, error) {
	return invoke[PrestigeDetailsResponse](ctx, c.cc, "PrestigeDetails", in, opts)
}

func (c *Client) InstallationTime(ctx context.Context, in *InstallationTimeRequest, opts ...grpc.CallOption) (*InstallationTimeResponse, error) {
	return invoke[InstallationTimeResponse](ctx, c.cc, "InstallationTime", in, opts)
}

func (c *Client) RollForceDie(ctx context.Context, in *RollForceDieRequest, opts ...grpc.CallOption) (*RollForceDieResponse, error) {
	return invoke[RollForceDieResponse](ctx, c.cc, "RollForceDie", in, opts)
}
