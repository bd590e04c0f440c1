package persistence

import "time"

// Role identifies which dashboard a session belongs to.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleSitter Role = "sitter"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleOwner || r == RoleSitter
}

// AuthState is the persisted session flag pair.
type AuthState struct {
	Authenticated bool `json:"isAuthenticated"`
	Role          Role `json:"userType"`
}

// DefaultAuthState is the anonymous owner session.
func DefaultAuthState() AuthState {
	return AuthState{Authenticated: false, Role: RoleOwner}
}

// Pet belongs to exactly one User and only changes with it.
type Pet struct {
	ID      int     `json:"id"`
	Name    string  `json:"name"`
	Species string  `json:"type"`
	Breed   string  `json:"breed"`
	Age     int     `json:"age"`
	Weight  float64 `json:"weight,omitempty"`
	Avatar  string  `json:"avatar"`
}

// User is a registered account. Password is stored as entered.
type User struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Password  string    `json:"password"`
	Avatar    string    `json:"avatar"`
	Role      Role      `json:"type"`
	Pets      []Pet     `json:"pets"`
	CreatedAt time.Time `json:"createdAt"`
}

// Clone returns a deep copy of the user.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	out := *u
	if u.Pets != nil {
		out.Pets = make([]Pet, len(u.Pets))
		copy(out.Pets, u.Pets)
	}
	return &out
}

// BookingStatus tracks where a booking request stands.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// Booking is a request from an owner to a sitter. Dates use the 2006-01-02
// layout and times 15:04.
type Booking struct {
	ID             string        `json:"id"`
	SitterID       string        `json:"sitterId"`
	SitterName     string        `json:"sitterName"`
	UserID         string        `json:"userId"`
	UserName       string        `json:"userName"`
	Pets           []Pet         `json:"pets"`
	StartDate      string        `json:"startDate"`
	EndDate        string        `json:"endDate"`
	StartTime      string        `json:"startTime"`
	EndTime        string        `json:"endTime"`
	ServiceType    string        `json:"serviceType"`
	SpecialNeeds   string        `json:"specialNeeds,omitempty"`
	AdditionalInfo string        `json:"additionalInfo,omitempty"`
	TotalPrice     float64       `json:"totalPrice"`
	Status         BookingStatus `json:"status"`
	CreatedAt      time.Time     `json:"createdAt"`
}

// SitterService is one priced offering of a sitter.
type SitterService struct {
	ID    string  `json:"id" yaml:"id"`
	Name  string  `json:"name" yaml:"name"`
	Price float64 `json:"price" yaml:"price"`
	Unit  string  `json:"unit" yaml:"unit"`
}

// Sitter is a marketplace listing.
type Sitter struct {
	ID           string          `json:"id" yaml:"id"`
	Name         string          `json:"name" yaml:"name"`
	Avatar       string          `json:"avatar" yaml:"avatar"`
	Rating       float64         `json:"rating" yaml:"rating"`
	Reviews      int             `json:"reviews" yaml:"reviews"`
	Distance     float64         `json:"distance" yaml:"distance"`
	Price        float64         `json:"price" yaml:"price"`
	Availability []string        `json:"availability" yaml:"availability"`
	PetTypes     []string        `json:"petTypes" yaml:"pet_types"`
	Services     []SitterService `json:"services" yaml:"services"`
	Description  string          `json:"description" yaml:"description"`
	Verified     bool            `json:"verified" yaml:"verified"`
}

// Record is an opaque JSON object. Messages, notifications, and the profile
// are passed through without structure.
type Record = map[string]any
