package persistence

// Key names one logical resource in the key-value store.
type Key string

const (
	KeyUser          Key = "petpal_user"
	KeyAuth          Key = "petpal_auth"
	KeyBookings      Key = "petpal_bookings"
	KeyMessages      Key = "petpal_messages"
	KeyNotifications Key = "petpal_notifications"
	KeySitters       Key = "petpal_sitters"
	KeyProfile       Key = "petpal_profile"

	// KeyRoster holds every registered user. It is not one of the session
	// slices and is only written through roster operations.
	KeyRoster Key = "petpal_users"
)

// SliceKeys lists the keys of the seven session slices.
func SliceKeys() []Key {
	return []Key{KeyAuth, KeyUser, KeyBookings, KeyMessages, KeyNotifications, KeySitters, KeyProfile}
}

// SessionKeys lists the keys dropped on logout. Everything else survives.
func SessionKeys() []Key {
	return []Key{KeyUser, KeyAuth}
}

func (k Key) String() string { return string(k) }
