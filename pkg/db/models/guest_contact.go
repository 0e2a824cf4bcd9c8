package models

// GuestContact is the embedded contact block carried by guest-placed orders
// and bookings. Exactly one of user_id / guest contact is set per row.
type GuestContact struct {
	Name  *string `gorm:"column:guest_name"`
	Email *string `gorm:"column:guest_email"`
	Phone *string `gorm:"column:guest_phone"`
}

// IsSet reports whether any guest contact field is populated.
func (g GuestContact) IsSet() bool {
	return g.Name != nil || g.Email != nil || g.Phone != nil
}
