package application_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/example/petpal/internal/application"
	"github.com/example/petpal/internal/persistence"
	"github.com/example/petpal/internal/testfixtures"
)

func requireFieldErrors(t *testing.T, err error, fields ...string) {
	t.Helper()

	var vErr *application.ValidationError
	require.ErrorAs(t, err, &vErr)
	for _, field := range fields {
		require.Contains(t, vErr.FieldErrors, field)
	}
	require.Len(t, vErr.FieldErrors, len(fields), "field errors: %v", vErr.FieldErrors)
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	sitter := testfixtures.NewUser(testfixtures.WithEmail("Lea@Example.com"), testfixtures.WithRole(application.RoleSitter))

	t.Run("success opens the role dashboard", func(t *testing.T) {
		h := testfixtures.NewHarness(t, testfixtures.WithRoster(sitter))

		user, err := h.Controller.Authenticate(ctx, "  lea@example.COM ", testfixtures.DefaultPassword)
		require.NoError(t, err)
		require.Equal(t, sitter.ID, user.ID)
		require.Equal(t, application.ScreenSitterDashboard, h.Controller.Screen().ID)
		require.Equal(t, application.AuthState{Authenticated: true, Role: application.RoleSitter}, h.Bridge.LoadAuth(ctx))
		require.Equal(t, &sitter, h.Bridge.LoadUser(ctx))
		require.Equal(t, 1, h.Metrics.Count(testfixtures.MetricSession, "login"))
	})

	for name, creds := range map[string][2]string{
		"wrong password": {"lea@example.com", "nope123"},
		"unknown email":  {"nobody@example.com", testfixtures.DefaultPassword},
		"empty":          {"", ""},
	} {
		t.Run(name, func(t *testing.T) {
			h := testfixtures.NewHarness(t, testfixtures.WithRoster(sitter))

			user, err := h.Controller.Authenticate(ctx, creds[0], creds[1])
			require.ErrorIs(t, err, application.ErrInvalidCredentials)
			require.Nil(t, user)
			require.False(t, h.Controller.Auth().Authenticated)
			require.False(t, h.Backend.Has(persistence.KeyAuth))
			require.Equal(t, application.InitialView(), h.Controller.View())
		})
	}
}

func validSignup() application.SignupInput {
	return application.SignupInput{
		Role:            application.RoleOwner,
		FirstName:       "Jeanne",
		LastName:        "Martin",
		Email:           "jeanne@example.com",
		Phone:           "0612345678",
		Password:        "azerty1",
		ConfirmPassword: "azerty1",
	}
}

func TestSignup_OwnerGetsStarterPet(t *testing.T) {
	ctx := context.Background()
	h := testfixtures.NewHarness(t)

	user, err := h.Controller.Signup(ctx, validSignup())
	require.NoError(t, err)

	require.Equal(t, "id-1", user.ID)
	require.Equal(t, "Jeanne Martin", user.Name)
	require.Equal(t, "👤", user.Avatar)
	require.Equal(t, application.RoleOwner, user.Role)
	require.True(t, user.CreatedAt.Equal(testfixtures.ReferenceTime()))
	require.Equal(t, []application.Pet{{ID: 1, Name: "Mon animal", Species: "Chien", Breed: "Mélangé", Age: 3, Weight: 15, Avatar: "🐶"}}, user.Pets)

	require.Equal(t, application.ScreenOwnerDashboard, h.Controller.Screen().ID)
	require.Equal(t, user, h.Bridge.LoadUser(ctx))
	roster := h.Bridge.LoadRoster(ctx)
	require.Len(t, roster, 1)
	require.Equal(t, *user, roster[0])

	// The new account can log in after a reload.
	h.Restart()
	h.Controller.Logout(ctx)
	_, err = h.Controller.Authenticate(ctx, "jeanne@example.com", "azerty1")
	require.NoError(t, err)
}

func TestSignup_SitterHasNoPets(t *testing.T) {
	h := testfixtures.NewHarness(t)
	in := validSignup()
	in.Role = application.RoleSitter

	user, err := h.Controller.Signup(context.Background(), in)
	require.NoError(t, err)
	require.Empty(t, user.Pets)
	require.Equal(t, "🐾", user.Avatar)
	require.Equal(t, application.ScreenSitterDashboard, h.Controller.Screen().ID)
}

func TestSignup_ValidationLeavesStateUntouched(t *testing.T) {
	existing := testfixtures.NewUser(testfixtures.WithEmail("taken@example.com"))

	tests := []struct {
		name   string
		mutate func(*application.SignupInput)
		fields []string
	}{
		{"missing fields", func(in *application.SignupInput) { in.FirstName = " "; in.Phone = "" }, []string{"firstName", "phone"}},
		{"password mismatch", func(in *application.SignupInput) { in.ConfirmPassword = "azerty2" }, []string{"confirmPassword"}},
		{"short password", func(in *application.SignupInput) { in.Password, in.ConfirmPassword = "abc", "abc" }, []string{"password"}},
		{"email taken", func(in *application.SignupInput) { in.Email = "TAKEN@example.com" }, []string{"email"}},
		{"unknown role", func(in *application.SignupInput) { in.Role = "admin" }, []string{"role"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			h := testfixtures.NewHarness(t, testfixtures.WithRoster(existing))
			in := validSignup()
			tt.mutate(&in)

			user, err := h.Controller.Signup(ctx, in)
			require.Nil(t, user)
			requireFieldErrors(t, err, tt.fields...)

			require.Len(t, h.Bridge.LoadRoster(ctx), 1)
			require.False(t, h.Backend.Has(persistence.KeyAuth))
			require.False(t, h.Backend.Has(persistence.KeyUser))
			require.Equal(t, application.InitialView(), h.Controller.View())
			require.Zero(t, h.IDs.Issued())
			require.Equal(t, 1, h.Metrics.Count(testfixtures.MetricValidation, "Signup"))
		})
	}
}

func TestSignup_IDFailureAborts(t *testing.T) {
	h := testfixtures.NewHarness(t)
	boom := errors.New("no entropy")
	h.IDs.FailWith(boom)

	_, err := h.Controller.Signup(context.Background(), validSignup())
	require.ErrorIs(t, err, boom)
	require.Empty(t, h.Bridge.LoadRoster(context.Background()))
}

func TestAddPet(t *testing.T) {
	ctx := context.Background()

	h := testfixtures.NewHarness(t)
	_, err := h.Controller.AddPet(ctx, application.PetInput{Name: "Luna"})
	require.ErrorIs(t, err, application.ErrNotAuthenticated)

	user := testfixtures.NewUser(testfixtures.WithPets(testfixtures.NewPet(1, "Max"), testfixtures.NewPet(5, "Rex")))
	h = testfixtures.NewHarness(t, testfixtures.WithSession(user), testfixtures.WithRoster(user))

	_, err = h.Controller.AddPet(ctx, application.PetInput{Name: "  ", Age: -1})
	requireFieldErrors(t, err, "name", "age")

	pet, err := h.Controller.AddPet(ctx, application.PetInput{Name: " Luna ", Species: "Chat", Breed: "Siamois", Age: 2})
	require.NoError(t, err)
	require.Equal(t, application.Pet{ID: 6, Name: "Luna", Species: "Chat", Breed: "Siamois", Age: 2, Avatar: "🐾"}, pet)

	require.Len(t, h.Controller.CurrentUser().Pets, 3)
	require.Len(t, h.Bridge.LoadUser(ctx).Pets, 3)
	require.Len(t, h.Bridge.LoadRoster(ctx)[0].Pets, 3)
}

func bookingInput() application.BookingInput {
	return application.BookingInput{
		SitterID:  "s1",
		PetIDs:    []int{1},
		StartDate: "2025-07-01",
		EndDate:   "2025-07-03",
	}
}

func TestSubmitBooking_RecordsPendingRequest(t *testing.T) {
	ctx := context.Background()
	user := testfixtures.NewUser()
	h := testfixtures.NewHarness(t, testfixtures.WithSession(user))
	h.Controller.NavigateTo(ctx, "booking/s1")

	booking, err := h.Controller.SubmitBooking(ctx, bookingInput())
	require.NoError(t, err)

	require.Equal(t, "id-1", booking.ID)
	require.Equal(t, "s1", booking.SitterID)
	require.Equal(t, "Alice Bernard", booking.SitterName)
	require.Equal(t, user.ID, booking.UserID)
	require.Equal(t, user.Name, booking.UserName)
	require.Equal(t, user.Pets, booking.Pets)
	require.Equal(t, "09:00", booking.StartTime)
	require.Equal(t, "18:00", booking.EndTime)
	require.Equal(t, "overnight", booking.ServiceType)
	require.InDelta(t, 50.0, booking.TotalPrice, 0.001)
	require.Equal(t, application.BookingPending, booking.Status)
	require.True(t, booking.CreatedAt.Equal(testfixtures.ReferenceTime()))

	require.Equal(t, application.ScreenOwnerDashboard, h.Controller.Screen().ID)
	require.Equal(t, []application.Booking{booking}, h.Controller.Store().Bookings())
	require.Equal(t, []application.Booking{booking}, h.Bridge.LoadBookings(ctx))
}

func TestSubmitBooking_SameDayCountsOneDay(t *testing.T) {
	h := testfixtures.NewHarness(t, testfixtures.WithSession(testfixtures.NewUser()))
	in := bookingInput()
	in.EndDate = in.StartDate
	in.ServiceType = "walk"

	booking, err := h.Controller.SubmitBooking(context.Background(), in)
	require.NoError(t, err)
	require.InDelta(t, 12.0, booking.TotalPrice, 0.001)
}

func TestSubmitBooking_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*application.BookingInput)
		fields []string
	}{
		{"missing dates", func(in *application.BookingInput) { in.StartDate, in.EndDate = "", "" }, []string{"startDate", "endDate"}},
		{"end before start", func(in *application.BookingInput) { in.EndDate = "2025-06-30" }, []string{"endDate"}},
		{"bad date", func(in *application.BookingInput) { in.StartDate = "01/07/2025" }, []string{"startDate"}},
		{"bad time", func(in *application.BookingInput) { in.StartTime = "9h" }, []string{"startTime"}},
		{"no pets", func(in *application.BookingInput) { in.PetIDs = nil }, []string{"pets"}},
		{"foreign pet", func(in *application.BookingInput) { in.PetIDs = []int{1, 99} }, []string{"pets"}},
		{"unknown service", func(in *application.BookingInput) { in.ServiceType = "care" }, []string{"serviceType"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			h := testfixtures.NewHarness(t, testfixtures.WithSession(testfixtures.NewUser()))
			h.Controller.NavigateTo(ctx, "booking/s1")
			in := bookingInput()
			tt.mutate(&in)

			_, err := h.Controller.SubmitBooking(ctx, in)
			requireFieldErrors(t, err, tt.fields...)

			require.Empty(t, h.Controller.Store().Bookings())
			require.Empty(t, h.Bridge.LoadBookings(ctx))
			require.Equal(t, application.BookingView{SitterID: "s1"}, h.Controller.View())
			require.Equal(t, 1, h.Metrics.Count(testfixtures.MetricValidation, "SubmitBooking"))
		})
	}
}

func TestSubmitBooking_Preconditions(t *testing.T) {
	ctx := context.Background()

	h := testfixtures.NewHarness(t)
	_, err := h.Controller.SubmitBooking(ctx, bookingInput())
	require.ErrorIs(t, err, application.ErrNotAuthenticated)

	h = testfixtures.NewHarness(t, testfixtures.WithSession(testfixtures.NewUser()))
	in := bookingInput()
	in.SitterID = "missing"
	_, err = h.Controller.SubmitBooking(ctx, in)
	require.ErrorIs(t, err, application.ErrNotFound)
	require.Empty(t, h.Bridge.LoadBookings(ctx))
}

func TestSubmitBooking_RejectedLeavesSittersUnstored(t *testing.T) {
	ctx := context.Background()
	h := testfixtures.NewHarness(t, testfixtures.WithSession(testfixtures.NewUser()))

	in := bookingInput()
	in.PetIDs = nil
	_, err := h.Controller.SubmitBooking(ctx, in)
	requireFieldErrors(t, err, "pets")

	in.SitterID = "missing"
	_, err = h.Controller.SubmitBooking(ctx, in)
	require.ErrorIs(t, err, application.ErrNotFound)

	_, err = h.Controller.Sitter(ctx, "s2")
	require.NoError(t, err)

	require.False(t, h.Backend.Has(persistence.KeySitters))
	require.Empty(t, h.Controller.Store().Sitters())
}

func TestSearchSitters_SeedsAndFilters(t *testing.T) {
	ctx := context.Background()
	h := testfixtures.NewHarness(t)
	require.False(t, h.Backend.Has(persistence.KeySitters))

	ids := func(sitters []application.Sitter) []string {
		out := make([]string, 0, len(sitters))
		for _, s := range sitters {
			out = append(out, s.ID)
		}
		return out
	}

	results, err := h.Controller.SearchSitters(ctx, application.SitterFilter{})
	require.NoError(t, err)
	require.Equal(t, []string{"s1"}, ids(results))
	require.Len(t, h.Bridge.LoadSitters(ctx), 3, "catalog seeded into storage")

	results, err = h.Controller.SearchSitters(ctx, application.SitterFilter{Query: "OISEAUX", MaxPrice: 100})
	require.NoError(t, err)
	require.Equal(t, []string{"s3"}, ids(results))

	results, err = h.Controller.SearchSitters(ctx, application.SitterFilter{MaxDistance: 20, MaxPrice: 100, PetType: "Chiens"})
	require.NoError(t, err)
	require.Equal(t, []string{"s1", "s2"}, ids(results))

	results, err = h.Controller.SearchSitters(ctx, application.SitterFilter{MaxDistance: 20, MaxPrice: 100, PetType: "Lapins"})
	require.NoError(t, err)
	require.Empty(t, results)

	results, err = h.Controller.SearchSitters(ctx, application.SitterFilter{MaxDistance: math.NaN(), MaxPrice: math.NaN()})
	require.NoError(t, err)
	require.Equal(t, []string{"s1"}, ids(results), "NaN limits fall back to the defaults")
}

func TestSearchSitters_CachesUntilSittersChange(t *testing.T) {
	ctx := context.Background()
	h := testfixtures.NewHarness(t)

	_, err := h.Controller.SearchSitters(ctx, application.SitterFilter{})
	require.NoError(t, err)
	_, err = h.Controller.SearchSitters(ctx, application.SitterFilter{PetType: "any"})
	require.NoError(t, err)
	require.Equal(t, 1, h.Metrics.Count(testfixtures.MetricSearchCache, "miss"))
	require.Equal(t, 1, h.Metrics.Count(testfixtures.MetricSearchCache, "hit"))

	sitters := h.Controller.Store().Sitters()
	sitters = append(sitters, testfixtures.NewSitter("s4", "Damien Roux"))
	h.Controller.Store().SetSitters(ctx, sitters)

	results, err := h.Controller.SearchSitters(ctx, application.SitterFilter{})
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, 2, h.Metrics.Count(testfixtures.MetricSearchCache, "miss"))
}

func TestSearchSitters_UsesStoredSitters(t *testing.T) {
	ctx := context.Background()
	stored := testfixtures.NewSitter("mine", "Stored Sitter")
	h := testfixtures.NewHarness(t, testfixtures.WithStored(func(ctx context.Context, bridge *persistence.Bridge) {
		bridge.SaveSitters(ctx, []persistence.Sitter{stored})
	}))

	results, err := h.Controller.SearchSitters(ctx, application.SitterFilter{})
	require.NoError(t, err)
	require.Equal(t, []application.Sitter{stored}, results)
}

func TestSearchSitters_CatalogFailure(t *testing.T) {
	boom := errors.New("catalog offline")
	h := testfixtures.NewHarness(t, testfixtures.WithCatalogError(boom))

	_, err := h.Controller.SearchSitters(context.Background(), application.SitterFilter{})
	require.ErrorIs(t, err, boom)

	_, err = h.Controller.Sitter(context.Background(), "s1")
	require.ErrorIs(t, err, boom)
}

func TestSitter_Lookup(t *testing.T) {
	h := testfixtures.NewHarness(t)

	sitter, err := h.Controller.Sitter(context.Background(), " s3 ")
	require.NoError(t, err)
	require.Equal(t, "Chloé Garnier", sitter.Name)

	_, err = h.Controller.Sitter(context.Background(), "nope")
	require.ErrorIs(t, err, application.ErrNotFound)
}
