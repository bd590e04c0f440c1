package application

import (
	"context"
	"maps"
	"reflect"
	"slices"

	"github.com/example/petpal/internal/persistence"
)

// Store holds the session slices in memory and mirrors every change to the
// bridge before the setter returns. Storage is read only once, in NewStore.
//
// A Store is not safe for concurrent use; callers serialize access.
type Store struct {
	bridge *persistence.Bridge

	auth          AuthState
	user          *User
	bookings      []Booking
	messages      []Record
	notifications []Record
	sitters       []Sitter
	profile       Record

	sittersChanged func()
}

// NewStore populates every slice from bridge, falling back to defaults.
func NewStore(ctx context.Context, bridge *persistence.Bridge) *Store {
	return &Store{
		bridge:        bridge,
		auth:          bridge.LoadAuth(ctx),
		user:          bridge.LoadUser(ctx),
		bookings:      bridge.LoadBookings(ctx),
		messages:      bridge.LoadMessages(ctx),
		notifications: bridge.LoadNotifications(ctx),
		sitters:       bridge.LoadSitters(ctx),
		profile:       bridge.LoadProfile(ctx),
	}
}

// OnSittersChanged registers fn to run after the sitters slice changes.
func (s *Store) OnSittersChanged(fn func()) {
	s.sittersChanged = fn
}

func (s *Store) Auth() AuthState { return s.auth }

// User returns a copy of the current user, or nil when logged out.
func (s *Store) User() *User { return s.user.Clone() }

func (s *Store) Bookings() []Booking     { return cloneBookings(s.bookings) }
func (s *Store) Messages() []Record      { return cloneRecords(s.messages) }
func (s *Store) Notifications() []Record { return cloneRecords(s.notifications) }
func (s *Store) Sitters() []Sitter       { return cloneSitters(s.sitters) }
func (s *Store) Profile() Record         { return maps.Clone(s.profile) }

func (s *Store) SetAuth(ctx context.Context, auth AuthState) {
	if auth == s.auth {
		return
	}
	s.auth = auth
	s.bridge.SaveAuth(ctx, auth)
}

func (s *Store) SetUser(ctx context.Context, user *User) {
	if reflect.DeepEqual(user, s.user) {
		return
	}
	s.user = user.Clone()
	s.bridge.SaveUser(ctx, s.user)
}

func (s *Store) SetBookings(ctx context.Context, bookings []Booking) {
	bookings = orEmpty(bookings)
	if reflect.DeepEqual(bookings, s.bookings) {
		return
	}
	s.bookings = cloneBookings(bookings)
	s.bridge.SaveBookings(ctx, s.bookings)
}

func (s *Store) SetMessages(ctx context.Context, messages []Record) {
	messages = orEmpty(messages)
	if reflect.DeepEqual(messages, s.messages) {
		return
	}
	s.messages = cloneRecords(messages)
	s.bridge.SaveMessages(ctx, s.messages)
}

func (s *Store) SetNotifications(ctx context.Context, notifications []Record) {
	notifications = orEmpty(notifications)
	if reflect.DeepEqual(notifications, s.notifications) {
		return
	}
	s.notifications = cloneRecords(notifications)
	s.bridge.SaveNotifications(ctx, s.notifications)
}

func (s *Store) SetSitters(ctx context.Context, sitters []Sitter) {
	sitters = orEmpty(sitters)
	if reflect.DeepEqual(sitters, s.sitters) {
		return
	}
	s.sitters = cloneSitters(sitters)
	s.bridge.SaveSitters(ctx, s.sitters)
	if s.sittersChanged != nil {
		s.sittersChanged()
	}
}

func (s *Store) SetProfile(ctx context.Context, profile Record) {
	if profile == nil {
		profile = Record{}
	}
	if reflect.DeepEqual(profile, s.profile) {
		return
	}
	s.profile = maps.Clone(profile)
	s.bridge.SaveProfile(ctx, s.profile)
}

// commitSession sets user and auth and writes both unconditionally, so a
// navigation that follows sees the committed session in storage too.
func (s *Store) commitSession(ctx context.Context, user *User, auth AuthState) {
	s.user = user.Clone()
	s.auth = auth
	s.bridge.SaveUser(ctx, s.user)
	s.bridge.SaveAuth(ctx, s.auth)
}

// endSession resets auth and user in memory and drops their keys from
// storage instead of writing the defaults back.
func (s *Store) endSession(ctx context.Context) {
	s.auth = persistence.DefaultAuthState()
	s.user = nil
	s.bridge.Logout(ctx)
}

// UpdateUser replaces the current user and rewrites the roster entry with the
// same id. A user missing from the roster is not added to it.
func (s *Store) UpdateUser(ctx context.Context, user User) {
	s.user = user.Clone()
	s.bridge.SaveUser(ctx, s.user)

	roster := s.bridge.LoadRoster(ctx)
	for i := range roster {
		if roster[i].ID == user.ID {
			roster[i] = *user.Clone()
			s.bridge.SaveRoster(ctx, roster)
			return
		}
	}
}

func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func cloneBookings(in []Booking) []Booking {
	out := make([]Booking, len(in))
	for i, booking := range in {
		booking.Pets = slices.Clone(booking.Pets)
		out[i] = booking
	}
	return out
}

func cloneSitters(in []Sitter) []Sitter {
	out := make([]Sitter, len(in))
	for i, sitter := range in {
		sitter.Availability = slices.Clone(sitter.Availability)
		sitter.PetTypes = slices.Clone(sitter.PetTypes)
		sitter.Services = slices.Clone(sitter.Services)
		out[i] = sitter
	}
	return out
}

// cloneRecords copies the slice and each top-level map. Nested values are shared.
func cloneRecords(in []Record) []Record {
	out := make([]Record, len(in))
	for i, record := range in {
		out[i] = maps.Clone(record)
	}
	return out
}
