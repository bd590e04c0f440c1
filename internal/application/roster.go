package application

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"
)

const minPasswordLength = 6

var signupAvatars = map[Role]string{
	RoleOwner:  "👤",
	RoleSitter: "🐾",
}

// starterPet is given to every new owner so the dashboard has something to show.
func starterPet() Pet {
	return Pet{ID: 1, Name: "Mon animal", Species: "Chien", Breed: "Mélangé", Age: 3, Weight: 15, Avatar: "🐶"}
}

// Authenticate matches email and password against the registered users, then
// logs the user in and opens their dashboard.
func (c *Controller) Authenticate(ctx context.Context, email, password string) (user *User, err error) {
	email = strings.TrimSpace(email)

	logger := c.loggerWith(ctx, "Authenticate", "email", strings.ToLower(email))
	defer func() {
		if err != nil {
			logger.WarnContext(ctx, "authentication failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "authentication succeeded", "user_id", user.ID)
	}()

	if email == "" || password == "" {
		err = ErrInvalidCredentials
		return
	}

	match, found := findByEmail(c.store.bridge.LoadRoster(ctx), email)
	if !found || match.Password != password {
		err = ErrInvalidCredentials
		return
	}

	role := match.Role
	if !role.Valid() {
		role = RoleOwner
	}
	c.Login(ctx, &match, role)
	c.Navigate(ctx, Go{View: string(role)})
	user = c.store.User()
	return
}

// Signup registers a new user, logs them in and opens their dashboard.
// Validation failures leave every slice untouched.
func (c *Controller) Signup(ctx context.Context, in SignupInput) (user *User, err error) {
	logger := c.loggerWith(ctx, "Signup", "role", string(in.Role))
	defer func() {
		if err != nil {
			logger.WarnContext(ctx, "signup failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "signup succeeded", "user_id", user.ID)
	}()

	in = normalizeSignup(in)
	roster := c.store.bridge.LoadRoster(ctx)
	if vErr := validateSignup(in, roster); vErr.HasErrors() {
		err = c.validationFailed("Signup", vErr)
		return
	}

	id, idErr := c.newID()
	if idErr != nil {
		err = idErr
		return
	}

	created := User{
		ID:        id,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Name:      in.FirstName + " " + in.LastName,
		Email:     in.Email,
		Phone:     in.Phone,
		Password:  in.Password,
		Avatar:    signupAvatars[in.Role],
		Role:      in.Role,
		Pets:      []Pet{},
		CreatedAt: c.now().UTC(),
	}
	if in.Role == RoleOwner {
		created.Pets = []Pet{starterPet()}
	}

	c.store.bridge.SaveRoster(ctx, append(roster, created))
	c.Login(ctx, &created, created.Role)
	c.Navigate(ctx, Go{View: string(created.Role)})
	user = c.store.User()
	return
}

func normalizeSignup(in SignupInput) SignupInput {
	if in.Role == "" {
		in.Role = RoleOwner
	}
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	return in
}

func validateSignup(in SignupInput, roster []User) *ValidationError {
	vErr := &ValidationError{}
	if !in.Role.Valid() {
		vErr.add("role", fmt.Sprintf("must be %q or %q", RoleOwner, RoleSitter))
	}
	required := []struct{ field, value string }{
		{"firstName", in.FirstName},
		{"lastName", in.LastName},
		{"email", in.Email},
		{"phone", in.Phone},
		{"password", in.Password},
	}
	for _, r := range required {
		if r.value == "" {
			vErr.add(r.field, "is required")
		}
	}
	if in.Password != in.ConfirmPassword {
		vErr.add("confirmPassword", "does not match the password")
	}
	if in.Password != "" && utf8.RuneCountInString(in.Password) < minPasswordLength {
		vErr.add("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}
	if in.Email != "" {
		if _, taken := findByEmail(roster, in.Email); taken {
			vErr.add("email", "is already registered")
		}
	}
	return vErr
}

func findByEmail(roster []User, email string) (User, bool) {
	for _, u := range roster {
		if strings.EqualFold(strings.TrimSpace(u.Email), email) {
			return u, true
		}
	}
	return User{}, false
}
