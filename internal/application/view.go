package application

import "strings"

// Flat view identifiers. The two dashboard identifiers double as role names.
const (
	ViewHome          = "home"
	ViewLogin         = "login"
	ViewSignup        = "signup"
	ViewOwner         = "owner"
	ViewSitter        = "sitter"
	ViewProfile       = "profile"
	ViewAddPet        = "addpet"
	ViewNotifications = "notifications"
	ViewMessages      = "messages"
	ViewServices      = "services"
	ViewSitters       = "sitters"
)

// Parameterized view names.
const (
	ViewSitterProfile = "sitterprofile"
	ViewBooking       = "booking"
)

// paramSeparator splits "name/param" requests at the transport edge.
const paramSeparator = "/"

// View is the router's current view. It is one of FlatView, SitterProfileView,
// BookingView, or UnknownView and is never persisted.
type View interface {
	// Request renders the view back into the string form screens navigate with.
	Request() string
	isView()
}

// FlatView is a view named by a bare identifier.
type FlatView struct{ ID string }

// SitterProfileView shows one sitter.
type SitterProfileView struct{ SitterID string }

// BookingView is the booking request form for one sitter.
type BookingView struct{ SitterID string }

// UnknownView is a parameterized view whose name the router does not know.
// It renders as the landing screen.
type UnknownView struct{ Name, Param string }

func (v FlatView) Request() string          { return v.ID }
func (v SitterProfileView) Request() string { return ViewSitterProfile + paramSeparator + v.SitterID }
func (v BookingView) Request() string       { return ViewBooking + paramSeparator + v.SitterID }
func (v UnknownView) Request() string       { return v.Name + paramSeparator + v.Param }

func (FlatView) isView()          {}
func (SitterProfileView) isView() {}
func (BookingView) isView()       {}
func (UnknownView) isView()       {}

// InitialView is where every session starts.
func InitialView() View { return FlatView{ID: ViewHome} }

// Request is a navigation request: Go to a bare identifier or Open a
// parameterized view.
type Request interface {
	isRequest()
}

// Go requests a flat view. Dashboard and home identifiers carry session side
// effects, see Controller.Navigate.
type Go struct{ View string }

// Open requests a parameterized view. It never touches the session.
type Open struct{ Name, Param string }

func (Go) isRequest()   {}
func (Open) isRequest() {}

// ParseRequest turns the string form screens use ("home", "booking/42") into
// a Request. Only the first separator splits; the rest stays in the param.
func ParseRequest(raw string) Request {
	name, param, found := strings.Cut(raw, paramSeparator)
	if !found {
		return Go{View: raw}
	}
	return Open{Name: name, Param: param}
}

// viewFor maps an Open request onto its view variant.
func viewFor(req Open) View {
	switch req.Name {
	case ViewSitterProfile:
		return SitterProfileView{SitterID: req.Param}
	case ViewBooking:
		return BookingView{SitterID: req.Param}
	default:
		return UnknownView{Name: req.Name, Param: req.Param}
	}
}

// ScreenID names a concrete screen.
type ScreenID string

const (
	ScreenLanding         ScreenID = "landing"
	ScreenLogin           ScreenID = "login"
	ScreenSignup          ScreenID = "signup"
	ScreenOwnerDashboard  ScreenID = "owner-dashboard"
	ScreenSitterDashboard ScreenID = "sitter-dashboard"
	ScreenProfileSettings ScreenID = "profile-settings"
	ScreenAddPet          ScreenID = "add-pet"
	ScreenNotifications   ScreenID = "notifications"
	ScreenMessages        ScreenID = "messages"
	ScreenServices        ScreenID = "services"
	ScreenSitterSearch    ScreenID = "sitter-search"
	ScreenSitterProfile   ScreenID = "sitter-profile"
	ScreenBookingRequest  ScreenID = "booking-request"
)

// Screen is what the host renders for a view. Param is set for the
// parameterized screens only.
type Screen struct {
	ID    ScreenID
	Param string
}

var flatScreens = map[string]ScreenID{
	ViewHome:          ScreenLanding,
	ViewLogin:         ScreenLogin,
	ViewSignup:        ScreenSignup,
	ViewOwner:         ScreenOwnerDashboard,
	ViewSitter:        ScreenSitterDashboard,
	ViewProfile:       ScreenProfileSettings,
	ViewAddPet:        ScreenAddPet,
	ViewNotifications: ScreenNotifications,
	ViewMessages:      ScreenMessages,
	ViewServices:      ScreenServices,
	ViewSitters:       ScreenSitterSearch,
}

// Resolve dispatches a view to its screen. Anything unknown lands on the
// landing screen so no view leaves the user on a blank page.
func Resolve(view View) Screen {
	switch v := view.(type) {
	case SitterProfileView:
		return Screen{ID: ScreenSitterProfile, Param: v.SitterID}
	case BookingView:
		return Screen{ID: ScreenBookingRequest, Param: v.SitterID}
	case FlatView:
		if id, ok := flatScreens[v.ID]; ok {
			return Screen{ID: id}
		}
	}
	return Screen{ID: ScreenLanding}
}

// Header selects the page header.
type Header string

const (
	HeaderAnonymous     Header = "anonymous"
	HeaderAuthenticated Header = "authenticated"
)

// HeaderFor derives the header from the session flag alone.
func HeaderFor(auth AuthState) Header {
	if auth.Authenticated {
		return HeaderAuthenticated
	}
	return HeaderAnonymous
}
