package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/example/petpal/internal/metrics"
	"github.com/example/petpal/internal/persistence"
)

// Session transitions reported to metrics.
const (
	transitionLogin          = "login"
	transitionLogout         = "logout"
	transitionImplicitLogout = "implicit_logout"
	transitionRoleShortcut   = "role_shortcut"
)

// Options configures a Controller. Zero values select production defaults.
type Options struct {
	Logger         *slog.Logger
	Metrics        metrics.Recorder
	Now            func() time.Time
	NewID          func() (string, error)
	Catalog        func() ([]Sitter, error)
	SearchCacheTTL time.Duration
}

// Controller is the view router. It owns the store and the current view and
// runs every screen flow. A Controller models one browser tab: it is not safe
// for concurrent use and callers serialize events.
type Controller struct {
	store   *Store
	view    View
	logger  *slog.Logger
	metrics metrics.Recorder
	now     func() time.Time
	newID   func() (string, error)
	catalog func() ([]Sitter, error)
	search  *searchCache
}

// NewController loads the store from bridge and starts on the home view.
func NewController(ctx context.Context, bridge *persistence.Bridge, opts Options) *Controller {
	if opts.Metrics == nil {
		opts.Metrics = metrics.NoopRecorder{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = newUUIDv7
	}
	if opts.Catalog == nil {
		opts.Catalog = func() ([]Sitter, error) { return []Sitter{}, nil }
	}

	c := &Controller{
		store:   NewStore(ctx, bridge),
		view:    InitialView(),
		logger:  defaultLogger(opts.Logger),
		metrics: opts.Metrics,
		now:     opts.Now,
		newID:   opts.NewID,
		catalog: opts.Catalog,
		search:  newSearchCache(opts.SearchCacheTTL),
	}
	c.store.OnSittersChanged(c.search.Invalidate)
	return c
}

func newUUIDv7() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return id.String(), nil
}

func (c *Controller) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, c.logger, "Controller", operation, attrs...)
}

// Store exposes the state store for the screens' direct setters.
func (c *Controller) Store() *Store { return c.store }

// View returns the current view.
func (c *Controller) View() View { return c.view }

// Screen resolves the current view to the screen to render.
func (c *Controller) Screen() Screen { return Resolve(c.view) }

// Header selects the page header for the current session.
func (c *Controller) Header() Header { return HeaderFor(c.store.Auth()) }

func (c *Controller) Auth() AuthState { return c.store.Auth() }

func (c *Controller) CurrentUser() *User { return c.store.User() }

// Navigate applies a navigation request and returns the screen to render.
//
// Opening a parameterized view never touches the session. Going to a
// dashboard identifier marks the session authenticated with that role, and
// going home while authenticated ends the session.
func (c *Controller) Navigate(ctx context.Context, req Request) Screen {
	logger := c.loggerWith(ctx, "Navigate")

	switch r := req.(type) {
	case Open:
		c.view = viewFor(r)
	case Go:
		c.applySessionEffects(ctx, r)
		c.view = FlatView{ID: r.View}
	default:
		logger.WarnContext(ctx, "ignoring empty navigation request")
		return c.Screen()
	}

	screen := c.Screen()
	c.metrics.IncNavigation(string(screen.ID))
	logger.DebugContext(ctx, "navigated", "view", c.view.Request(), "screen", string(screen.ID))
	return screen
}

// NavigateTo parses the string form of a request and navigates to it.
func (c *Controller) NavigateTo(ctx context.Context, raw string) Screen {
	return c.Navigate(ctx, ParseRequest(raw))
}

func (c *Controller) applySessionEffects(ctx context.Context, req Go) {
	switch {
	case req.View == ViewOwner || req.View == ViewSitter:
		role := Role(req.View)
		if c.store.Auth() == (AuthState{Authenticated: true, Role: role}) {
			return
		}
		c.store.SetAuth(ctx, AuthState{Authenticated: true, Role: role})
		c.metrics.IncSessionTransition(transitionRoleShortcut)
	case req.View == ViewHome && c.store.Auth().Authenticated:
		c.store.endSession(ctx)
		c.metrics.IncSessionTransition(transitionImplicitLogout)
		c.loggerWith(ctx, "Navigate").InfoContext(ctx, "session ended by navigating home")
	}
}

// Login makes user the current user with role and persists both at once. It
// does not navigate.
func (c *Controller) Login(ctx context.Context, user *User, role Role) {
	if !role.Valid() {
		role = RoleOwner
	}
	c.store.commitSession(ctx, user, AuthState{Authenticated: true, Role: role})
	c.metrics.IncSessionTransition(transitionLogin)

	var userID string
	if user != nil {
		userID = user.ID
	}
	c.loggerWith(ctx, "Login", "user_id", userID, "role", string(role)).InfoContext(ctx, "session started")
}

// Logout ends the session, removes it from storage and returns home.
func (c *Controller) Logout(ctx context.Context) Screen {
	c.store.endSession(ctx)
	c.metrics.IncSessionTransition(transitionLogout)
	c.view = InitialView()
	c.loggerWith(ctx, "Logout").InfoContext(ctx, "session ended")
	return c.Screen()
}

// UpdateUser replaces the current user's record. The id always stays the
// current user's.
func (c *Controller) UpdateUser(ctx context.Context, user User) (*User, error) {
	current := c.store.User()
	if current == nil {
		return nil, ErrNotAuthenticated
	}
	user.ID = current.ID
	if user.CreatedAt.IsZero() {
		user.CreatedAt = current.CreatedAt
	}
	c.store.UpdateUser(ctx, user)
	return c.store.User(), nil
}

// dashboard returns the request for the current role's dashboard.
func (c *Controller) dashboard() Go {
	return Go{View: string(c.store.Auth().Role)}
}

func (c *Controller) validationFailed(operation string, err *ValidationError) error {
	c.metrics.IncValidationFailure(operation)
	return err
}
