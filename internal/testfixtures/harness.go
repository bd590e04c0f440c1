package testfixtures

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/example/petpal/internal/application"
	"github.com/example/petpal/internal/persistence"
	"github.com/example/petpal/internal/persistence/memory"
	"github.com/example/petpal/internal/persistence/sqlite"
)

// Harness wires a controller to an in-memory backend with a fixed clock,
// sequential ids and a metrics spy.
type Harness struct {
	Backend    *memory.Backend
	Bridge     *persistence.Bridge
	Clock      *Clock
	IDs        *IDGenerator
	Metrics    *MetricsSpy
	Controller *application.Controller

	catalog    []persistence.Sitter
	catalogErr error
}

// HarnessOption seeds storage or overrides collaborators before the controller
// loads.
type HarnessOption func(ctx context.Context, h *Harness)

// WithCatalog replaces the sitter catalog the controller seeds from. The
// default is Sitters().
func WithCatalog(sitters ...persistence.Sitter) HarnessOption {
	return func(_ context.Context, h *Harness) {
		h.catalog = append([]persistence.Sitter{}, sitters...)
	}
}

// WithCatalogError makes the catalog fail to load.
func WithCatalogError(err error) HarnessOption {
	return func(_ context.Context, h *Harness) { h.catalogErr = err }
}

// WithRoster stores users as the registered roster.
func WithRoster(users ...persistence.User) HarnessOption {
	return func(ctx context.Context, h *Harness) { h.Bridge.SaveRoster(ctx, users) }
}

// WithSession stores user as logged in with their role, as a previous run
// would have left it.
func WithSession(user persistence.User) HarnessOption {
	return func(ctx context.Context, h *Harness) {
		h.Bridge.SaveUser(ctx, &user)
		h.Bridge.SaveAuth(ctx, persistence.AuthState{Authenticated: true, Role: user.Role})
	}
}

// WithStored runs fn against the bridge before the controller loads.
func WithStored(fn func(ctx context.Context, bridge *persistence.Bridge)) HarnessOption {
	return func(ctx context.Context, h *Harness) { fn(ctx, h.Bridge) }
}

// NewHarness builds a harness and its controller.
func NewHarness(tb testing.TB, opts ...HarnessOption) *Harness {
	tb.Helper()

	ctx := context.Background()
	h := &Harness{
		Backend: memory.New(),
		Clock:   NewClock(ReferenceTime()),
		IDs:     NewIDGenerator("id"),
		Metrics: NewMetricsSpy(),
		catalog: Sitters(),
	}
	h.Bridge = persistence.NewBridge(h.Backend, QuietLogger(), h.Metrics)
	for _, opt := range opts {
		opt(ctx, h)
	}
	h.Controller = h.newController(ctx)
	return h
}

// Restart builds a fresh controller over the same storage, as a page reload
// would.
func (h *Harness) Restart() *application.Controller {
	h.Controller = h.newController(context.Background())
	return h.Controller
}

func (h *Harness) newController(ctx context.Context) *application.Controller {
	catalog, catalogErr := h.catalog, h.catalogErr
	return application.NewController(ctx, h.Bridge, application.Options{
		Logger:  QuietLogger(),
		Metrics: h.Metrics,
		Now:     h.Clock.Now,
		NewID:   h.IDs.Next,
		Catalog: func() ([]persistence.Sitter, error) {
			if catalogErr != nil {
				return nil, catalogErr
			}
			return append([]persistence.Sitter{}, catalog...), nil
		},
	})
}

// QuietLogger discards everything.
func QuietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewSQLiteStorage opens and migrates a SQLite store in a temporary directory.
// It is closed when the test ends.
func NewSQLiteStorage(tb testing.TB) *sqlite.Storage {
	tb.Helper()

	storage, err := sqlite.Open(filepath.Join(tb.TempDir(), "petpal.db"))
	if err != nil {
		tb.Fatalf("open sqlite storage: %v", err)
	}
	tb.Cleanup(func() { _ = storage.Close() })

	if err := storage.Migrate(context.Background()); err != nil {
		tb.Fatalf("migrate sqlite storage: %v", err)
	}
	return storage
}
