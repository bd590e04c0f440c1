package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/example/petpal/internal/application"
	"github.com/example/petpal/internal/persistence"
	"github.com/example/petpal/internal/persistence/memory"
	"github.com/example/petpal/internal/testfixtures"
)

// countingBackend counts writes per key on top of a memory backend.
type countingBackend struct {
	*memory.Backend
	sets map[persistence.Key]int
}

func newCountingBackend() *countingBackend {
	return &countingBackend{Backend: memory.New(), sets: make(map[persistence.Key]int)}
}

func (b *countingBackend) Set(ctx context.Context, key persistence.Key, value []byte) error {
	b.sets[key]++
	return b.Backend.Set(ctx, key, value)
}

func newStore(t *testing.T, backend persistence.Backend) (*application.Store, *persistence.Bridge) {
	t.Helper()
	bridge := persistence.NewBridge(backend, testfixtures.QuietLogger(), nil)
	return application.NewStore(context.Background(), bridge), bridge
}

func TestStore_MirrorsOnlyOnChange(t *testing.T) {
	ctx := context.Background()
	backend := newCountingBackend()
	store, bridge := newStore(t, backend)

	booking := application.Booking{ID: "b1", SitterID: "s1", Status: application.BookingPending}
	store.SetBookings(ctx, []application.Booking{booking})
	store.SetBookings(ctx, []application.Booking{booking})
	require.Equal(t, 1, backend.sets[persistence.KeyBookings])
	require.Equal(t, []application.Booking{booking}, bridge.LoadBookings(ctx))

	store.SetMessages(ctx, []application.Record{{"from": "Marie", "text": "Bonjour"}})
	store.SetMessages(ctx, []application.Record{{"from": "Marie", "text": "Bonjour"}})
	require.Equal(t, 1, backend.sets[persistence.KeyMessages])

	store.SetProfile(ctx, nil)
	require.Zero(t, backend.sets[persistence.KeyProfile], "nil profile equals the loaded empty record")

	store.SetAuth(ctx, persistence.DefaultAuthState())
	require.Zero(t, backend.sets[persistence.KeyAuth])
	store.SetAuth(ctx, application.AuthState{Authenticated: true, Role: application.RoleSitter})
	require.Equal(t, 1, backend.sets[persistence.KeyAuth])

	store.SetNotifications(ctx, []application.Record{{"id": float64(1)}})
	require.Len(t, bridge.LoadNotifications(ctx), 1)

	user := testfixtures.NewUser()
	store.SetUser(ctx, &user)
	store.SetUser(ctx, user.Clone())
	require.Equal(t, 1, backend.sets[persistence.KeyUser])
	require.Equal(t, user.ID, bridge.LoadUser(ctx).ID)
}

func TestStore_LoadsEverySliceOnce(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	seed := persistence.NewBridge(backend, testfixtures.QuietLogger(), nil)
	user := testfixtures.NewUser()
	seed.SaveUser(ctx, &user)
	seed.SaveAuth(ctx, application.AuthState{Authenticated: true, Role: application.RoleOwner})
	seed.SaveSitters(ctx, testfixtures.Sitters())
	seed.SaveProfile(ctx, application.Record{"bio": "Hello"})

	store, _ := newStore(t, backend)
	require.True(t, store.Auth().Authenticated)
	require.Equal(t, &user, store.User())
	require.Len(t, store.Sitters(), 3)
	require.Equal(t, application.Record{"bio": "Hello"}, store.Profile())
	require.Empty(t, store.Bookings())
	require.NotNil(t, store.Bookings())

	// Later storage writes are not observed.
	seed.SaveProfile(ctx, application.Record{"bio": "Changed"})
	require.Equal(t, application.Record{"bio": "Hello"}, store.Profile())
}

func TestStore_GettersReturnCopies(t *testing.T) {
	ctx := context.Background()
	store, bridge := newStore(t, memory.New())

	store.SetSitters(ctx, testfixtures.Sitters())
	sitters := store.Sitters()
	sitters[0].Name = "mutated"
	sitters[0].PetTypes[0] = "mutated"
	require.Equal(t, "Alice Bernard", store.Sitters()[0].Name)
	require.Equal(t, "Chiens", store.Sitters()[0].PetTypes[0])

	store.SetProfile(ctx, application.Record{"city": "Lyon"})
	profile := store.Profile()
	profile["city"] = "Paris"
	require.Equal(t, "Lyon", store.Profile()["city"])
	require.Equal(t, "Lyon", bridge.LoadProfile(ctx)["city"])
}

func TestStore_SetSittersNotifiesOnChange(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t, memory.New())

	calls := 0
	store.OnSittersChanged(func() { calls++ })

	store.SetSitters(ctx, testfixtures.Sitters())
	store.SetSitters(ctx, testfixtures.Sitters())
	require.Equal(t, 1, calls)

	store.SetSitters(ctx, nil)
	require.Equal(t, 2, calls)
	require.Empty(t, store.Sitters())
}

func TestStore_KeepsEmptySlicesEmpty(t *testing.T) {
	ctx := context.Background()
	backend := newCountingBackend()
	store, _ := newStore(t, backend)

	calls := 0
	store.OnSittersChanged(func() { calls++ })

	sitter := testfixtures.NewSitter("s9", "Emma Petit", testfixtures.WithPetTypes())
	sitter.Availability = []string{}
	store.SetSitters(ctx, []application.Sitter{sitter})
	store.SetSitters(ctx, []application.Sitter{sitter})
	require.Equal(t, 1, calls)
	require.Equal(t, 1, backend.sets[persistence.KeySitters])

	raw, err := backend.Get(ctx, persistence.KeySitters)
	require.NoError(t, err)
	require.Contains(t, string(raw), `"petTypes":[]`)
	require.Contains(t, string(raw), `"availability":[]`)
	require.NotNil(t, store.Sitters()[0].PetTypes)
	require.Equal(t, []application.Sitter{sitter}, store.Sitters())

	booking := application.Booking{ID: "b1", Pets: []application.Pet{}}
	store.SetBookings(ctx, []application.Booking{booking})
	store.SetBookings(ctx, []application.Booking{booking})
	require.Equal(t, 1, backend.sets[persistence.KeyBookings])
	require.NotNil(t, store.Bookings()[0].Pets)
}

func TestStore_UpdateUserRewritesMatchingRosterEntry(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	seed := persistence.NewBridge(backend, testfixtures.QuietLogger(), nil)
	seven := testfixtures.NewUser(testfixtures.WithUserID("7"))
	other := testfixtures.NewUser(testfixtures.WithUserID("8"))
	seed.SaveRoster(ctx, []persistence.User{other, seven})

	store, bridge := newStore(t, backend)
	updated := seven
	updated.Phone = "0799999999"
	updated.Pets = append(updated.Pets, testfixtures.NewPet(2, "Luna"))
	store.UpdateUser(ctx, updated)

	require.Equal(t, &updated, store.User())
	require.Equal(t, &updated, bridge.LoadUser(ctx))

	roster := bridge.LoadRoster(ctx)
	require.Len(t, roster, 2)
	require.Equal(t, other, roster[0])
	require.Equal(t, updated, roster[1])
}

func TestStore_UpdateUserDoesNotInsertIntoRoster(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	store, bridge := newStore(t, backend)

	stranger := testfixtures.NewUser(testfixtures.WithUserID("42"))
	store.UpdateUser(ctx, stranger)

	require.Equal(t, &stranger, bridge.LoadUser(ctx))
	require.Empty(t, bridge.LoadRoster(ctx))
	require.False(t, backend.Has(persistence.KeyRoster))
}
