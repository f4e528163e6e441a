package compendium

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cory-johannsen/swse/internal/config"
	"github.com/cory-johannsen/swse/internal/game/inventory"
	"github.com/cory-johannsen/swse/internal/game/traits"
)

// Client fronts a Source with a TTL-bounded LRU cache.
//
// Client is safe for concurrent use.
type Client struct {
	src         Source
	cache       *expirable.LRU[string, json.RawMessage]
	concurrency int
	logger      *zap.Logger
}

// NewClient creates a Client over src.
//
// Precondition: src must be non-nil; cfg must satisfy config validation.
// Postcondition: Returns a non-nil Client with an empty cache.
func NewClient(src Source, cfg config.CacheConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	concurrency := cfg.FetchConcurrency
	if concurrency < 1 {
		concurrency = 1
	}
	return &Client{
		src:         src,
		cache:       expirable.NewLRU[string, json.RawMessage](cfg.Size, nil, cfg.TTL),
		concurrency: concurrency,
		logger:      logger,
	}
}

func cacheKey(pack, id string) string { return pack + "/" + id }

// Get returns document id of pack, consulting the cache first.
func (c *Client) Get(ctx context.Context, pack, id string) (json.RawMessage, error) {
	key := cacheKey(pack, id)
	if doc, ok := c.cache.Get(key); ok {
		return doc, nil
	}
	doc, err := c.src.Get(ctx, pack, id)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, doc)
	return doc, nil
}

// SafeGetMany fetches ids of pack concurrently. A document that fails to load
// is logged and skipped; the batch itself never fails.
//
// Postcondition: the result keeps the relative order of ids.
func (c *Client) SafeGetMany(ctx context.Context, pack string, ids []string) []json.RawMessage {
	docs := make([]json.RawMessage, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, id := range ids {
		g.Go(func() error {
			doc, err := c.Get(gctx, pack, id)
			if err != nil {
				c.logger.Warn("skipping reference document",
					zap.String("pack", pack),
					zap.String("id", id),
					zap.Error(err),
				)
				return nil
			}
			docs[i] = doc
			return nil
		})
	}
	_ = g.Wait()

	out := docs[:0]
	for _, d := range docs {
		if d != nil {
			out = append(out, d)
		}
	}
	return out
}

// Pack returns every document of pack. A missing pack logs a warning and
// yields an empty result.
func (c *Client) Pack(ctx context.Context, pack string) []json.RawMessage {
	ids, err := c.src.IDs(ctx, pack)
	if err != nil {
		if errors.Is(err, ErrPackNotFound) {
			c.logger.Warn("reference pack missing", zap.String("pack", pack))
		} else {
			c.logger.Warn("listing reference pack", zap.String("pack", pack), zap.Error(err))
		}
		return nil
	}
	return c.SafeGetMany(ctx, pack, ids)
}

// Upgrade returns the upgrade definition id.
func (c *Client) Upgrade(ctx context.Context, id string) (*inventory.UpgradeDef, error) {
	doc, err := c.Get(ctx, PackUpgrades, id)
	if err != nil {
		return nil, err
	}
	var u inventory.UpgradeDef
	if err := json.Unmarshal(doc, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Upgrades returns every decodable upgrade definition.
func (c *Client) Upgrades(ctx context.Context) []*inventory.UpgradeDef {
	return decodeAll[inventory.UpgradeDef](c, PackUpgrades, c.Pack(ctx, PackUpgrades))
}

// Gear returns the gear template id as a fresh item.
func (c *Client) Gear(ctx context.Context, id string) (*inventory.Item, error) {
	doc, err := c.Get(ctx, PackGear, id)
	if err != nil {
		return nil, err
	}
	var it inventory.Item
	if err := json.Unmarshal(doc, &it); err != nil {
		return nil, err
	}
	return &it, nil
}

// Species returns every decodable species trait record.
func (c *Client) Species(ctx context.Context) []*traits.Species {
	return decodeAll[traits.Species](c, PackSpecies, c.Pack(ctx, PackSpecies))
}

// RulesFor decodes the trait rules of one species record. A fetch failure
// is logged and yields no rules.
func (c *Client) RulesFor(speciesID string) []traits.Rule {
	doc, err := c.Get(context.Background(), PackSpecies, speciesID)
	if err != nil {
		c.logger.Warn("fetching species rules", zap.String("id", speciesID), zap.Error(err))
		return nil
	}
	var s traits.Species
	if err := json.Unmarshal(doc, &s); err != nil {
		c.logger.Warn("decoding species record", zap.String("id", speciesID), zap.Error(err))
		return nil
	}
	return s.Rules()
}

// Purge empties the cache.
func (c *Client) Purge() { c.cache.Purge() }

// Len reports the number of cached documents.
func (c *Client) Len() int { return c.cache.Len() }

func decodeAll[T any](c *Client, pack string, docs []json.RawMessage) []*T {
	out := make([]*T, 0, len(docs))
	for _, d := range docs {
		v := new(T)
		if err := json.Unmarshal(d, v); err != nil {
			c.logger.Warn("skipping undecodable document", zap.String("pack", pack), zap.Error(err))
			continue
		}
		out = append(out, v)
	}
	return out
}
