package domain

import "time"

// User is a customer account keyed by the identity provider's clerk id.
type User struct {
	ClerkID   string
	Email     string
	Name      string
	Balance   float64
	CreatedAt time.Time
}

// Profile holds the customer's personal details.
type Profile struct {
	ClerkID   string
	Name      string
	Email     string
	Mobile    string
	NextOfKin string
	Gender    string
	NIN       string
	ImageName string
	UpdatedAt time.Time
}

// Admin is a dashboard operator.
type Admin struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

// DashboardStats are the headline numbers shown on the admin dashboard.
type DashboardStats struct {
	TotalUsers      int64
	TotalBookings   int64
	TotalRevenue    float64
	PendingBookings int64
}
