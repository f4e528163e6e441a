package rulesserver

import (
	"github.com/cory-johannsen/swse/internal/game/character"
	"github.com/cory-johannsen/swse/internal/game/derive"
	"github.com/cory-johannsen/swse/internal/game/inventory"
	"github.com/cory-johannsen/swse/internal/game/prestige"
	"github.com/cory-johannsen/swse/internal/game/upgrade"
)

// ActorRef names a stored actor, or carries one inline. Inline actors are
// never persisted.
type ActorRef struct {
	ActorID string           `json:"actorId,omitempty"`
	Actor   *character.Actor `json:"actor,omitempty"`
}

type DeriveRequest struct {
	ActorRef
}

type DeriveResponse struct {
	Sheet derive.Sheet `json:"sheet"`
}

type UpgradeRequest struct {
	ActorID   string `json:"actorId"`
	ItemID    string `json:"itemId"`
	UpgradeID string `json:"upgradeId"`
}

type UpgradeResponse struct {
	Result upgrade.Result `json:"result"`
	// Time is the installation check for the requested upgrade.
	Time upgrade.Time `json:"time"`
}

type RemoveUpgradeRequest struct {
	ActorID        string `json:"actorId"`
	ItemID         string `json:"itemId"`
	InstallationID string `json:"installationId"`
	ScratchBuilt   bool   `json:"scratchBuilt,omitempty"`
	Destructive    bool   `json:"destructive,omitempty"`
}

type RemoveUpgradeResponse struct {
	Time upgrade.Time `json:"time"`
}

type StripRequest struct {
	ActorID string            `json:"actorId"`
	ItemID  string            `json:"itemId"`
	Feature inventory.Feature `json:"feature"`
	// Apply commits the strip; otherwise the result is a preview.
	Apply bool `json:"apply,omitempty"`
}

type StripResponse struct {
	Result upgrade.StripResult `json:"result"`
}

type EligiblePrestigeRequest struct {
	ActorRef
}

type EligiblePrestigeResponse struct {
	Classes []string `json:"classes"`
}

type PrestigeDetailsRequest struct {
	ActorRef
	Class string `json:"class"`
}

type PrestigeDetailsResponse struct {
	Details prestige.Details `json:"details"`
}

type InstallationTimeRequest struct {
	Slots        int  `json:"slots"`
	ScratchBuilt bool `json:"scratchBuilt,omitempty"`
}

type InstallationTimeResponse struct {
	Time upgrade.Time `json:"time"`
}

type RollForceDieRequest struct {
	ActorRef
}

type RollForceDieResponse struct {
	Expression string `json:"expression"`
	Dice       []int  `json:"dice"`
	Total      int    `json:"total"`
}
