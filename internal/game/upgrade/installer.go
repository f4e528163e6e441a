package upgrade

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/swse/internal/game/character"
	"github.com/cory-johannsen/swse/internal/game/inventory"
)

// ErrItemNotFound is returned when the actor carries no item with the given ID.
var ErrItemNotFound = errors.New("item not found")

// errRejected aborts an update transaction after a validation failure.
var errRejected = errors.New("upgrade rejected")

// ActorStore applies fn to the current state of one actor as a single atomic
// update. If fn returns an error nothing is written.
type ActorStore interface {
	UpdateActor(ctx context.Context, id string, fn func(*character.Actor) error) (*character.Actor, error)
}

// Installer runs upgrade transitions against stored actors. Credit and token
// deduction and the item change are committed together or not at all.
type Installer struct {
	engine *Engine
	store  ActorStore
	logger *zap.Logger
}

// NewInstaller returns an Installer.
//
// Precondition: engine and store must be non-nil.
func NewInstaller(engine *Engine, store ActorStore, logger *zap.Logger) *Installer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Installer{engine: engine, store: store, logger: logger}
}

// Engine returns the rules engine the installer validates with.
func (in *Installer) Engine() *Engine { return in.engine }

func findItem(a *character.Actor, itemID string) (*inventory.Item, error) {
	item, ok := a.Item(itemID)
	if !ok {
		return nil, fmt.Errorf("actor %s item %s: %w", a.ID, itemID, ErrItemNotFound)
	}
	return item, nil
}

// Install validates and installs up on the actor's item. A validation
// failure is returned as an invalid Result with a nil error.
func (in *Installer) Install(ctx context.Context, actorID, itemID string, up *inventory.UpgradeDef) (Result, error) {
	var res Result
	_, err := in.store.UpdateActor(ctx, actorID, func(a *character.Actor) error {
		item, err := findItem(a, itemID)
		if err != nil {
			return err
		}
		var plan Install
		plan, res = in.engine.PlanInstall(item, up, a)
		if !res.Valid {
			return errRejected
		}
		a.Credits = plan.Credits
		a.ModificationTokens = plan.Tokens
		a.ReplaceItem(plan.Item)
		return nil
	})
	if errors.Is(err, errRejected) {
		in.logger.Debug("upgrade install rejected",
			zap.String("actor", actorID), zap.String("item", itemID),
			zap.String("upgrade", up.ID), zap.String("reason", res.Reason))
		return res, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("installing upgrade %s: %w", up.ID, err)
	}
	in.logger.Info("upgrade installed",
		zap.String("actor", actorID), zap.String("item", itemID),
		zap.String("upgrade", up.ID), zap.Int("cost", res.Cost))
	return res, nil
}

// Remove uninstalls one installed upgrade and reports the time it takes.
// Removal refunds nothing; a destructive removal also destroys the upgrade.
func (in *Installer) Remove(ctx context.Context, actorID, itemID, installationID string, scratchBuilt, destructive bool) (Time, error) {
	var t Time
	_, err := in.store.UpdateActor(ctx, actorID, func(a *character.Actor) error {
		item, err := findItem(a, itemID)
		if err != nil {
			return err
		}
		next, removed, ok := PlanRemoval(item, installationID)
		if !ok {
			return fmt.Errorf("installation %s on item %s: %w", installationID, itemID, ErrItemNotFound)
		}
		t = RemovalTime(removed.SlotsUsed, scratchBuilt, destructive)
		a.ReplaceItem(next)
		return nil
	})
	if err != nil {
		return Time{}, fmt.Errorf("removing upgrade: %w", err)
	}
	return t, nil
}

// Strip strips feature f from the actor's item and charges the job cost.
func (in *Installer) Strip(ctx context.Context, actorID, itemID string, f inventory.Feature) (StripResult, error) {
	var res StripResult
	_, err := in.store.UpdateActor(ctx, actorID, func(a *character.Actor) error {
		item, err := findItem(a, itemID)
		if err != nil {
			return err
		}
		res = Strip(item, f)
		if !res.Valid {
			return errRejected
		}
		if a.Credits < res.Cost {
			res = StripResult{Feature: f, Reason: fmt.Sprintf("Insufficient credits. Need %d, have %d.", res.Cost, a.Credits)}
			return errRejected
		}
		a.Credits -= res.Cost
		a.ReplaceItem(ApplyStrip(item, res))
		return nil
	})
	if errors.Is(err, errRejected) {
		return res, nil
	}
	if err != nil {
		return StripResult{}, fmt.Errorf("stripping %s: %w", f, err)
	}
	in.logger.Info("feature stripped",
		zap.String("actor", actorID), zap.String("item", itemID), zap.String("feature", string(f)))
	return res, nil
}

// IncreaseSize makes the actor's item one size larger and charges the job cost.
func (in *Installer) IncreaseSize(ctx context.Context, actorID, itemID string) (SizeResult, error) {
	var res SizeResult
	_, err := in.store.UpdateActor(ctx, actorID, func(a *character.Actor) error {
		item, err := findItem(a, itemID)
		if err != nil {
			return err
		}
		res = IncreaseSize(item)
		if !res.Valid {
			return errRejected
		}
		if a.Credits < res.Cost {
			res = SizeResult{Reason: fmt.Sprintf("Insufficient credits. Need %d, have %d.", res.Cost, a.Credits)}
			return errRejected
		}
		a.Credits -= res.Cost
		a.ReplaceItem(ApplySizeIncrease(item, res))
		return nil
	})
	if errors.Is(err, errRejected) {
		return res, nil
	}
	if err != nil {
		return SizeResult{}, fmt.Errorf("increasing size: %w", err)
	}
	return res, nil
}
