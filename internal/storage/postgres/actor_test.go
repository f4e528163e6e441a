package postgres_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/swse/internal/game/character"
	"github.com/cory-johannsen/swse/internal/game/inventory"
	"github.com/cory-johannsen/swse/internal/storage"
	"github.com/cory-johannsen/swse/internal/storage/postgres"
	"github.com/cory-johannsen/swse/internal/testutil"
)

func makeActor(name string, credits int) *character.Actor {
	return &character.Actor{
		ID:      uuid.NewString(),
		Name:    name,
		Kind:    character.KindCharacter,
		Level:   3,
		Credits: credits,
		Abilities: map[character.Ability]character.AbilityBlock{
			character.Dexterity: {Base: 14, Racial: 2},
		},
		Gear: []*inventory.Item{{
			ID: "rifle", Name: "Blaster Rifle", Type: inventory.TypeWeapon, Cost: 1000,
			Restriction: inventory.RestrictionLicensed,
			Weapon:      &inventory.WeaponStats{Damage: "3d8", Range: inventory.RangeRifle},
		}},
	}
}

func TestActorRepository_CreateAndGet(t *testing.T) {
	repo := postgres.NewActorRepository(testutil.NewPool(t))
	ctx := context.Background()

	a := makeActor("Kyle", 500)
	require.NoError(t, repo.Create(ctx, a))
	assert.ErrorIs(t, repo.Create(ctx, a), storage.ErrActorExists)

	got, err := repo.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.Name, got.Name)
	assert.Equal(t, 500, got.Credits)
	assert.Equal(t, 16, got.Abilities[character.Dexterity].Base+got.Abilities[character.Dexterity].Racial)
	require.Len(t, got.Gear, 1)
	assert.Equal(t, "3d8", got.Gear[0].Weapon.Damage)

	_, err = repo.Get(ctx, uuid.NewString())
	assert.ErrorIs(t, err, storage.ErrActorNotFound)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, list)
}

func TestActorRepository_UpdateRollsBackOnError(t *testing.T) {
	repo := postgres.NewActorRepository(testutil.NewPool(t))
	ctx := context.Background()
	a := makeActor("Jan", 300)
	require.NoError(t, repo.Create(ctx, a))

	boom := errors.New("second write failed")
	_, err := repo.UpdateActor(ctx, a.ID, func(x *character.Actor) error {
		x.Credits -= 100
		x.Gear[0].InstalledUpgrades = append(x.Gear[0].InstalledUpgrades, inventory.InstalledUpgrade{ID: "u", SlotsUsed: 1})
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := repo.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 300, got.Credits)
	assert.Empty(t, got.Gear[0].InstalledUpgrades)
}

func TestActorRepository_ConcurrentUpdatesSerialize(t *testing.T) {
	repo := postgres.NewActorRepository(testutil.NewPool(t))
	ctx := context.Background()
	a := makeActor("Mara", 0)
	require.NoError(t, repo.Create(ctx, a))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.UpdateActor(ctx, a.ID, func(x *character.Actor) error {
				x.Credits += 10
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	got, err := repo.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, got.Credits)
}

func TestDocumentRepository_PutGetIDs(t *testing.T) {
	repo := postgres.NewDocumentRepository(testutil.NewPool(t))
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, "upgrades", "b", json.RawMessage(`{"id":"b"}`)))
	require.NoError(t, repo.Put(ctx, "upgrades", "a", json.RawMessage(`{"id":"a","cost":1}`)))
	require.NoError(t, repo.Put(ctx, "upgrades", "a", json.RawMessage(`{"id":"a","cost":2}`)))

	doc, err := repo.Get(ctx, "upgrades", "a")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"a","cost":2}`, string(doc))

	ids, err := repo.IDs(ctx, "upgrades")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)

	_, err = repo.Get(ctx, "upgrades", "zzz")
	assert.ErrorIs(t, err, storage.ErrDocumentNotFound)
}

func TestPool_ProbeReportsUsage(t *testing.T) {
	db := testutil.NewDatabase(t)
	stats, err := db.Pool.Probe(context.Background(), 5*time.Second)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, stats.Total, int32(1))
	assert.Positive(t, stats.Latency)

	var app string
	require.NoError(t, db.Pool.DB().QueryRow(context.Background(), "SELECT current_setting('application_name')").Scan(&app))
	assert.Equal(t, postgres.ApplicationName, app)
}

func TestPool_ProbeTimesOut(t *testing.T) {
	db := testutil.NewDatabase(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := db.Pool.Probe(ctx, time.Second)
	assert.Error(t, err)
}
