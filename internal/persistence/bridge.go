package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/example/petpal/internal/logging"
)

// Backend is the raw key-value store behind the Bridge. Get returns
// ErrNotFound when nothing is stored under the key.
type Backend interface {
	Get(ctx context.Context, key Key) ([]byte, error)
	Set(ctx context.Context, key Key, value []byte) error
	Remove(ctx context.Context, key Key) error
	Clear(ctx context.Context) error
}

// FailureRecorder counts swallowed persistence failures.
type FailureRecorder interface {
	IncPersistenceFailure(op string, key Key)
}

// Bridge maps logical resources to JSON values in a Backend. It never returns
// an error: failed loads fall back to the caller's default and failed writes
// are logged and dropped, so the in-memory state stays authoritative.
type Bridge struct {
	backend  Backend
	logger   *slog.Logger
	failures FailureRecorder
}

// NewBridge wraps backend. logger and failures may be nil.
func NewBridge(backend Backend, logger *slog.Logger, failures FailureRecorder) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bridge{backend: backend, logger: logger, failures: failures}
}

func (b *Bridge) log(ctx context.Context, op string, key Key) *slog.Logger {
	logger := logging.FromContext(ctx)
	if logger == nil {
		logger = b.logger
	}
	return logger.With("component", "persistence", "operation", op, "key", key.String())
}

func (b *Bridge) fail(ctx context.Context, op string, key Key, err error) {
	b.log(ctx, op, key).WarnContext(ctx, "persistence operation failed", "error", err)
	if b.failures != nil {
		b.failures.IncPersistenceFailure(op, key)
	}
}

// Load decodes the value stored under key, or returns def when the value is
// absent, unreadable, or corrupt.
func Load[T any](ctx context.Context, b *Bridge, key Key, def T) T {
	if b == nil || b.backend == nil {
		return def
	}
	raw, err := b.backend.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			b.log(ctx, "load", key).DebugContext(ctx, "no persisted value, using default")
			return def
		}
		b.fail(ctx, "load", key, err)
		return def
	}
	if len(raw) == 0 {
		return def
	}

	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		b.fail(ctx, "decode", key, err)
		return def
	}
	return value
}

// Save encodes value as JSON and stores it under key.
func Save[T any](ctx context.Context, b *Bridge, key Key, value T) {
	if b == nil || b.backend == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		b.fail(ctx, "encode", key, err)
		return
	}
	if err := b.backend.Set(ctx, key, raw); err != nil {
		b.fail(ctx, "save", key, err)
	}
}

// Remove deletes the value stored under key.
func (b *Bridge) Remove(ctx context.Context, key Key) {
	if b == nil || b.backend == nil {
		return
	}
	if err := b.backend.Remove(ctx, key); err != nil && !errors.Is(err, ErrNotFound) {
		b.fail(ctx, "remove", key, err)
	}
}

// Clear wipes every key, roster included.
func (b *Bridge) Clear(ctx context.Context) {
	if b == nil || b.backend == nil {
		return
	}
	if err := b.backend.Clear(ctx); err != nil {
		b.fail(ctx, "clear", "*", err)
	}
}

// Logout drops the session keys and keeps the shared collections.
func (b *Bridge) Logout(ctx context.Context) {
	for _, key := range SessionKeys() {
		b.Remove(ctx, key)
	}
}

func (b *Bridge) LoadAuth(ctx context.Context) AuthState {
	auth := Load(ctx, b, KeyAuth, DefaultAuthState())
	if !auth.Role.Valid() {
		auth.Role = RoleOwner
	}
	return auth
}

func (b *Bridge) SaveAuth(ctx context.Context, auth AuthState) { Save(ctx, b, KeyAuth, auth) }

func (b *Bridge) LoadUser(ctx context.Context) *User { return Load[*User](ctx, b, KeyUser, nil) }

func (b *Bridge) SaveUser(ctx context.Context, user *User) { Save(ctx, b, KeyUser, user) }

func (b *Bridge) LoadBookings(ctx context.Context) []Booking {
	return nonNil(Load(ctx, b, KeyBookings, []Booking{}))
}

func (b *Bridge) SaveBookings(ctx context.Context, bookings []Booking) {
	Save(ctx, b, KeyBookings, nonNil(bookings))
}

func (b *Bridge) LoadMessages(ctx context.Context) []Record {
	return nonNil(Load(ctx, b, KeyMessages, []Record{}))
}

func (b *Bridge) SaveMessages(ctx context.Context, messages []Record) {
	Save(ctx, b, KeyMessages, nonNil(messages))
}

func (b *Bridge) LoadNotifications(ctx context.Context) []Record {
	return nonNil(Load(ctx, b, KeyNotifications, []Record{}))
}

func (b *Bridge) SaveNotifications(ctx context.Context, notifications []Record) {
	Save(ctx, b, KeyNotifications, nonNil(notifications))
}

func (b *Bridge) LoadSitters(ctx context.Context) []Sitter {
	return nonNil(Load(ctx, b, KeySitters, []Sitter{}))
}

func (b *Bridge) SaveSitters(ctx context.Context, sitters []Sitter) {
	Save(ctx, b, KeySitters, nonNil(sitters))
}

func (b *Bridge) LoadProfile(ctx context.Context) Record {
	profile := Load(ctx, b, KeyProfile, Record{})
	if profile == nil {
		return Record{}
	}
	return profile
}

func (b *Bridge) SaveProfile(ctx context.Context, profile Record) {
	if profile == nil {
		profile = Record{}
	}
	Save(ctx, b, KeyProfile, profile)
}

// LoadRoster returns every registered user.
func (b *Bridge) LoadRoster(ctx context.Context) []User {
	return nonNil(Load(ctx, b, KeyRoster, []User{}))
}

func (b *Bridge) SaveRoster(ctx context.Context, users []User) {
	Save(ctx, b, KeyRoster, nonNil(users))
}

// nonNil keeps "null" out of the collection keys.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
