package application

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"

	defaultStartTime   = "09:00"
	defaultEndTime     = "18:00"
	defaultServiceType = "overnight"
)

// SubmitBooking records a pending booking request for the current user and
// opens their dashboard. The price is the service price times the number of
// days, counting a same-day booking as one.
func (c *Controller) SubmitBooking(ctx context.Context, in BookingInput) (booking Booking, err error) {
	logger := c.loggerWith(ctx, "SubmitBooking", "sitter_id", in.SitterID)
	defer func() {
		if err != nil {
			logger.WarnContext(ctx, "booking request failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "booking requested", "booking_id", booking.ID, "total_price", booking.TotalPrice)
	}()

	user := c.store.User()
	if user == nil {
		err = ErrNotAuthenticated
		return
	}

	var sitter Sitter
	if sitter, err = c.Sitter(ctx, in.SitterID); err != nil {
		return
	}

	in = normalizeBooking(in)
	start, end, pets, service, vErr := validateBooking(in, user, sitter)
	if vErr.HasErrors() {
		err = c.validationFailed("SubmitBooking", vErr)
		return
	}

	id, idErr := c.newID()
	if idErr != nil {
		err = idErr
		return
	}

	booking = Booking{
		ID:             id,
		SitterID:       sitter.ID,
		SitterName:     sitter.Name,
		UserID:         user.ID,
		UserName:       user.Name,
		Pets:           pets,
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,
		StartTime:      in.StartTime,
		EndTime:        in.EndTime,
		ServiceType:    service.ID,
		SpecialNeeds:   in.SpecialNeeds,
		AdditionalInfo: in.AdditionalInfo,
		TotalPrice:     service.Price * float64(bookedDays(start, end)),
		Status:         BookingPending,
		CreatedAt:      c.now().UTC(),
	}

	c.store.SetBookings(ctx, append(c.store.Bookings(), booking))
	c.Navigate(ctx, c.dashboard())
	return
}

func normalizeBooking(in BookingInput) BookingInput {
	in.SitterID = strings.TrimSpace(in.SitterID)
	in.StartDate = strings.TrimSpace(in.StartDate)
	in.EndDate = strings.TrimSpace(in.EndDate)
	in.StartTime = strings.TrimSpace(in.StartTime)
	in.EndTime = strings.TrimSpace(in.EndTime)
	in.ServiceType = strings.TrimSpace(in.ServiceType)
	if in.StartTime == "" {
		in.StartTime = defaultStartTime
	}
	if in.EndTime == "" {
		in.EndTime = defaultEndTime
	}
	if in.ServiceType == "" {
		in.ServiceType = defaultServiceType
	}
	return in
}

func validateBooking(in BookingInput, user *User, sitter Sitter) (start, end time.Time, pets []Pet, service SitterService, vErr *ValidationError) {
	vErr = &ValidationError{}

	start, startErr := parseDate(in.StartDate)
	if startErr != "" {
		vErr.add("startDate", startErr)
	}
	end, endErr := parseDate(in.EndDate)
	if endErr != "" {
		vErr.add("endDate", endErr)
	}
	if startErr == "" && endErr == "" && end.Before(start) {
		vErr.add("endDate", "must not be before the start date")
	}

	if _, err := time.Parse(timeLayout, in.StartTime); err != nil {
		vErr.add("startTime", "must be a time in HH:MM form")
	}
	if _, err := time.Parse(timeLayout, in.EndTime); err != nil {
		vErr.add("endTime", "must be a time in HH:MM form")
	}

	if len(in.PetIDs) == 0 {
		vErr.add("pets", "select at least one pet")
	}
	owned := make(map[int]Pet, len(user.Pets))
	for _, p := range user.Pets {
		owned[p.ID] = p
	}
	seen := make(map[int]struct{}, len(in.PetIDs))
	for _, id := range in.PetIDs {
		p, ok := owned[id]
		if !ok {
			vErr.add("pets", fmt.Sprintf("pet %d does not belong to you", id))
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		pets = append(pets, p)
	}

	found := false
	for _, s := range sitter.Services {
		if s.ID == in.ServiceType {
			service, found = s, true
			break
		}
	}
	if !found {
		vErr.add("serviceType", fmt.Sprintf("%s does not offer %q", sitter.Name, in.ServiceType))
	}
	return
}

func parseDate(value string) (time.Time, string) {
	if value == "" {
		return time.Time{}, "is required"
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, "must be a date in YYYY-MM-DD form"
	}
	return t, ""
}

func bookedDays(start, end time.Time) int {
	days := int(math.Ceil(end.Sub(start).Hours() / 24))
	if days < 1 {
		return 1
	}
	return days
}
