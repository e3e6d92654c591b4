package ordering

// UserProfile is the read-only slice of the user record that checkout needs.
type UserProfile struct {
	UserID          string
	DeliveryAddress string
}
