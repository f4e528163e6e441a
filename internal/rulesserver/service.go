// Package rulesserver exposes the rules engine over gRPC. Messages are plain
// Go structs sent as google.protobuf.Struct payloads; the service descriptor
// is declared by hand in desc.go.
package rulesserver

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/cory-johannsen/swse/internal/compendium"
	"github.com/cory-johannsen/swse/internal/game/character"
	"github.com/cory-johannsen/swse/internal/game/derive"
	"github.com/cory-johannsen/swse/internal/game/dice"
	"github.com/cory-johannsen/swse/internal/game/prestige"
	"github.com/cory-johannsen/swse/internal/game/upgrade"
	"github.com/cory-johannsen/swse/internal/storage"
)

// TreeResolver names the talent tree a talent belongs to.
// *ruleset.Registry satisfies it.
type TreeResolver interface {
	TreeOf(talent string) (string, bool)
}

// Service implements RulesServer against stored actors and the compendium.
type Service struct {
	actors    storage.ActorRepository
	installer *upgrade.Installer
	docs      *compendium.Client
	trees     TreeResolver
	rules     derive.Rules
	roller    *dice.Roller
	logger    *zap.Logger
}

// NewService wires a Service.
//
// Precondition: actors, installer, and docs must be non-nil. trees may be nil,
// in which case talents must carry their tree. roller may be nil, which makes
// RollForceDie fail with FailedPrecondition.
// Postcondition: Returns a non-nil Service.
func NewService(
	actors storage.ActorRepository,
	installer *upgrade.Installer,
	docs *compendium.Client,
	trees TreeResolver,
	rules derive.Rules,
	roller *dice.Roller,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		actors:    actors,
		installer: installer,
		docs:      docs,
		trees:     trees,
		rules:     rules,
		roller:    roller,
		logger:    logger,
	}
}

func (s *Service) actor(ctx context.Context, ref ActorRef) (*character.Actor, error) {
	if ref.Actor != nil {
		if err := ref.Actor.Validate(); err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		return ref.Actor, nil
	}
	if ref.ActorID == "" {
		return nil, status.Error(codes.InvalidArgument, "actorId or actor is required")
	}
	a, err := s.actors.Get(ctx, ref.ActorID)
	if err != nil {
		return nil, toStatus(err)
	}
	return a, nil
}

func (s *Service) talents(a *character.Actor) []character.Talent {
	if s.trees == nil {
		return a.Talents
	}
	return prestige.ResolveTrees(a.Talents, s.trees.TreeOf)
}

// Derive runs the derivation pass on an actor.
func (s *Service) Derive(ctx context.Context, req *DeriveRequest) (*DeriveResponse, error) {
	a, err := s.actor(ctx, req.ActorRef)
	if err != nil {
		return nil, err
	}
	return &DeriveResponse{Sheet: derive.Pass(a, s.rules)}, nil
}

// ValidateUpgrade checks an installation without changing the actor.
func (s *Service) ValidateUpgrade(ctx context.Context, req *UpgradeRequest) (*UpgradeResponse, error) {
	a, err := s.actor(ctx, ActorRef{ActorID: req.ActorID})
	if err != nil {
		return nil, err
	}
	item, ok := a.Item(req.ItemID)
	if !ok {
		return nil, status.Errorf(codes.NotFound, "item %s not found", req.ItemID)
	}
	up, err := s.docs.Upgrade(ctx, req.UpgradeID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &UpgradeResponse{
		Result: s.installer.Engine().Validate(item, up, a),
		Time:   upgrade.InstallationTime(up.Slots, false),
	}, nil
}

// InstallUpgrade validates and installs an upgrade in one atomic update.
func (s *Service) InstallUpgrade(ctx context.Context, req *UpgradeRequest) (*UpgradeResponse, error) {
	up, err := s.docs.Upgrade(ctx, req.UpgradeID)
	if err != nil {
		return nil, toStatus(err)
	}
	res, err := s.installer.Install(ctx, req.ActorID, req.ItemID, up)
	if err != nil {
		return nil, toStatus(err)
	}
	return &UpgradeResponse{Result: res, Time: upgrade.InstallationTime(up.Slots, false)}, nil
}

// RemoveUpgrade uninstalls one installed upgrade.
func (s *Service) RemoveUpgrade(ctx context.Context, req *RemoveUpgradeRequest) (*RemoveUpgradeResponse, error) {
	t, err := s.installer.Remove(ctx, req.ActorID, req.ItemID, req.InstallationID, req.ScratchBuilt, req.Destructive)
	if err != nil {
		return nil, toStatus(err)
	}
	return &RemoveUpgradeResponse{Time: t}, nil
}

// Strip previews or applies stripping a feature from an item.
func (s *Service) Strip(ctx context.Context, req *StripRequest) (*StripResponse, error) {
	if req.Apply {
		res, err := s.installer.Strip(ctx, req.ActorID, req.ItemID, req.Feature)
		if err != nil {
			return nil, toStatus(err)
		}
		return &StripResponse{Result: res}, nil
	}
	a, err := s.actor(ctx, ActorRef{ActorID: req.ActorID})
	if err != nil {
		return nil, err
	}
	item, ok := a.Item(req.ItemID)
	if !ok {
		return nil, status.Errorf(codes.NotFound, "item %s not found", req.ItemID)
	}
	return &StripResponse{Result: upgrade.Strip(item, req.Feature)}, nil
}

// EligiblePrestige lists the prestige classes whose talent gate the actor meets.
func (s *Service) EligiblePrestige(ctx context.Context, req *EligiblePrestigeRequest) (*EligiblePrestigeResponse, error) {
	a, err := s.actor(ctx, req.ActorRef)
	if err != nil {
		return nil, err
	}
	classes := prestige.EligibleClasses(s.talents(a))
	out := make([]string, len(classes))
	for i, c := range classes {
		out[i] = c.ID()
	}
	return &EligiblePrestigeResponse{Classes: out}, nil
}

// PrestigeDetails reports progress toward one prestige class's talent gate.
func (s *Service) PrestigeDetails(ctx context.Context, req *PrestigeDetailsRequest) (*PrestigeDetailsResponse, error) {
	c, ok := prestige.Parse(req.Class)
	if !ok {
		return nil, status.Errorf(codes.InvalidArgument, "unknown prestige class %q", req.Class)
	}
	a, err := s.actor(ctx, req.ActorRef)
	if err != nil {
		return nil, err
	}
	return &PrestigeDetailsResponse{Details: prestige.RequirementDetails(s.talents(a), c)}, nil
}

// InstallationTime returns the Mechanics DC and duration for a slot count.
func (s *Service) InstallationTime(_ context.Context, req *InstallationTimeRequest) (*InstallationTimeResponse, error) {
	if req.Slots < 0 {
		return nil, status.Error(codes.InvalidArgument, "slots must be >= 0")
	}
	return &InstallationTimeResponse{Time: upgrade.InstallationTime(req.Slots, req.ScratchBuilt)}, nil
}

// RollForceDie rolls the actor's Force Point die.
func (s *Service) RollForceDie(ctx context.Context, req *RollForceDieRequest) (*RollForceDieResponse, error) {
	if s.roller == nil {
		return nil, status.Error(codes.FailedPrecondition, "no dice roller configured")
	}
	a, err := s.actor(ctx, req.ActorRef)
	if err != nil {
		return nil, err
	}
	if a.IsVehicle() {
		return nil, status.Error(codes.FailedPrecondition, "vehicles have no Force Points")
	}
	sheet := derive.Pass(a, s.rules)
	res, err := s.roller.Roll(derive.ForceDie(sheet.Level))
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return &RollForceDieResponse{Expression: res.Expression, Dice: res.Dice, Total: res.Total()}, nil
}

// toStatus maps domain sentinel errors onto gRPC codes.
func toStatus(err error) error {
	if _, ok := status.FromError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, storage.ErrActorNotFound),
		errors.Is(err, storage.ErrDocumentNotFound),
		errors.Is(err, upgrade.ErrItemNotFound),
		errors.Is(err, compendium.ErrPackNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// LoggingInterceptor logs every unary call with its method, code, and latency.
func LoggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		code := status.Code(err)
		fields := []zap.Field{
			zap.String("method", info.FullMethod[strings.LastIndex(info.FullMethod, "/")+1:]),
			zap.String("code", code.String()),
			zap.Duration("elapsed", time.Since(start)),
		}
		if code == codes.Internal || code == codes.Unknown {
			logger.Error("rpc failed", append(fields, zap.Error(err))...)
		} else {
			logger.Debug("rpc", fields...)
		}
		return resp, err
	}
}

var _ RulesServer = (*Service)(nil)
