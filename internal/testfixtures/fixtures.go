package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/petpal/internal/persistence"
)

var userCounter uint64

// DefaultPassword is the plaintext password every fixture user gets.
const DefaultPassword = "secret1"

// UserOption configures a generated user.
type UserOption func(*persistence.User)

// NewUser returns a deterministic owner with a single pet. Each call yields a
// fresh id and email.
func NewUser(opts ...UserOption) persistence.User {
	idx := atomic.AddUint64(&userCounter, 1)
	id := fmt.Sprintf("user-%03d", idx)
	user := persistence.User{
		ID:        id,
		FirstName: "Camille",
		LastName:  fmt.Sprintf("Test%03d", idx),
		Email:     id + "@example.com",
		Phone:     "0600000000",
		Password:  DefaultPassword,
		Avatar:    "👤",
		Role:      persistence.RoleOwner,
		Pets:      []persistence.Pet{NewPet(1, "Max")},
		CreatedAt: referenceTime.Add(time.Duration(idx) * time.Minute),
	}
	user.Name = user.FirstName + " " + user.LastName
	for _, opt := range opts {
		opt(&user)
	}
	return user
}

// WithUserID overrides the generated id.
func WithUserID(id string) UserOption {
	return func(u *persistence.User) { u.ID = id }
}

// WithEmail overrides the generated email.
func WithEmail(email string) UserOption {
	return func(u *persistence.User) { u.Email = email }
}

// WithPassword overrides DefaultPassword.
func WithPassword(password string) UserOption {
	return func(u *persistence.User) { u.Password = password }
}

// WithRole overrides the owner role.
func WithRole(role persistence.Role) UserOption {
	return func(u *persistence.User) { u.Role = role }
}

// WithPets replaces the generated pets.
func WithPets(pets ...persistence.Pet) UserOption {
	return func(u *persistence.User) { u.Pets = append([]persistence.Pet{}, pets...) }
}

// NewPet returns a dog with the given id and name.
func NewPet(id int, name string) persistence.Pet {
	return persistence.Pet{ID: id, Name: name, Species: "Chien", Breed: "Labrador", Age: 3, Weight: 20, Avatar: "🐕"}
}

// SitterOption configures a generated sitter.
type SitterOption func(*persistence.Sitter)

// NewSitter returns a verified sitter offering overnight stays at 25 and walks
// at 12, one kilometre away.
func NewSitter(id, name string, opts ...SitterOption) persistence.Sitter {
	sitter := persistence.Sitter{
		ID:           id,
		Name:         name,
		Avatar:       "🧑",
		Rating:       4.5,
		Reviews:      10,
		Distance:     1,
		Price:        25,
		Availability: []string{"Lun", "Mar"},
		PetTypes:     []string{"Chiens"},
		Services: []persistence.SitterService{
			{ID: "overnight", Name: "Garde chez le sitter", Price: 25, Unit: "nuit"},
			{ID: "walk", Name: "Promenade", Price: 12, Unit: "promenade"},
		},
		Description: "Sitter de test",
		Verified:    true,
	}
	for _, opt := range opts {
		opt(&sitter)
	}
	return sitter
}

// WithDistance overrides the distance in kilometres.
func WithDistance(km float64) SitterOption {
	return func(s *persistence.Sitter) { s.Distance = km }
}

// WithPrice overrides the headline price.
func WithPrice(price float64) SitterOption {
	return func(s *persistence.Sitter) { s.Price = price }
}

// WithPetTypes replaces the accepted pet types.
func WithPetTypes(types ...string) SitterOption {
	return func(s *persistence.Sitter) { s.PetTypes = append([]string{}, types...) }
}

// WithDescription overrides the description.
func WithDescription(description string) SitterOption {
	return func(s *persistence.Sitter) { s.Description = description }
}

// Sitters returns a small fixed catalog: "s1" Alice (cats and dogs, close and
// cheap), "s2" Bruno (dogs, far) and "s3" Chloé (birds, expensive).
func Sitters() []persistence.Sitter {
	return []persistence.Sitter{
		NewSitter("s1", "Alice Bernard", WithPetTypes("Chiens", "Chats"), WithDistance(1.5), WithPrice(20), WithDescription("Grand jardin clôturé")),
		NewSitter("s2", "Bruno Morel", WithDistance(12), WithPrice(30)),
		NewSitter("s3", "Chloé Garnier", WithPetTypes("Oiseaux"), WithDistance(4), WithPrice(60), WithDescription("Spécialiste des oiseaux")),
	}
}
