package domain

import "time"

type Company struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IsVisible   bool      `json:"is_visible"`
	OwnerID     uint      `json:"owner_id"`
	Employees   []User    `json:"employees,omitempty"`
	Admins      []User    `json:"admins,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Invite is a company-initiated offer of employment.
type Invite struct {
	ID         uint `json:"id"`
	UserID     uint `json:"user_id"`
	CompanyID  uint `json:"company_id"`
	IsAccepted bool `json:"is_accepted"`
}

// Request is a user-initiated ask to join a company.
type Request struct {
	ID         uint `json:"id"`
	UserID     uint `json:"user_id"`
	CompanyID  uint `json:"company_id"`
	IsAccepted bool `json:"is_accepted"`
}

type CompanyUpdate struct {
	Title       *string
	Description *string
}
