package application

import "github.com/example/petpal/internal/persistence"

// Persisted records are shared with the persistence layer unchanged.
type (
	Role          = persistence.Role
	AuthState     = persistence.AuthState
	User          = persistence.User
	Pet           = persistence.Pet
	Booking       = persistence.Booking
	BookingStatus = persistence.BookingStatus
	Sitter        = persistence.Sitter
	SitterService = persistence.SitterService
	Record        = persistence.Record
)

const (
	RoleOwner  = persistence.RoleOwner
	RoleSitter = persistence.RoleSitter

	BookingPending   = persistence.BookingPending
	BookingConfirmed = persistence.BookingConfirmed
	BookingCancelled = persistence.BookingCancelled
)

// SignupInput captures the registration form.
type SignupInput struct {
	Role            Role
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	Password        string
	ConfirmPassword string
}

// PetInput captures the add-pet form.
type PetInput struct {
	Name    string
	Species string
	Breed   string
	Age     int
	Weight  float64
	Avatar  string
}

// BookingInput captures the booking request form. Dates use 2006-01-02 and
// times 15:04; empty times and service type take the form defaults.
type BookingInput struct {
	SitterID       string
	PetIDs         []int
	StartDate      string
	EndDate        string
	StartTime      string
	EndTime        string
	ServiceType    string
	SpecialNeeds   string
	AdditionalInfo string
}

// SitterFilter narrows a sitter search. Non-positive limits take the search
// screen defaults.
type SitterFilter struct {
	Query       string
	MaxDistance float64
	MaxPrice    float64
	PetType     string
}
