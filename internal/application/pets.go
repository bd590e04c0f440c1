package application

import (
	"context"
	"strings"
)

const defaultPetAvatar = "🐾"

// AddPet appends a pet to the current user with the next free id and saves the
// user through UpdateUser.
func (c *Controller) AddPet(ctx context.Context, in PetInput) (pet Pet, err error) {
	logger := c.loggerWith(ctx, "AddPet")
	defer func() {
		if err != nil {
			logger.WarnContext(ctx, "add pet failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "pet added", "pet_id", pet.ID)
	}()

	user := c.store.User()
	if user == nil {
		err = ErrNotAuthenticated
		return
	}

	vErr := &ValidationError{}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		vErr.add("name", "is required")
	}
	if in.Age < 0 {
		vErr.add("age", "must not be negative")
	}
	if in.Weight < 0 {
		vErr.add("weight", "must not be negative")
	}
	if vErr.HasErrors() {
		err = c.validationFailed("AddPet", vErr)
		return
	}

	avatar := strings.TrimSpace(in.Avatar)
	if avatar == "" {
		avatar = defaultPetAvatar
	}
	pet = Pet{
		ID:      nextPetID(user.Pets),
		Name:    in.Name,
		Species: strings.TrimSpace(in.Species),
		Breed:   strings.TrimSpace(in.Breed),
		Age:     in.Age,
		Weight:  in.Weight,
		Avatar:  avatar,
	}
	user.Pets = append(user.Pets, pet)
	c.store.UpdateUser(ctx, *user)
	return
}

func nextPetID(pets []Pet) int {
	next := 1
	for _, p := range pets {
		if p.ID >= next {
			next = p.ID + 1
		}
	}
	return next
}
