package domain

import "time"

type User struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Surname   string    `json:"surname"`
	Age       int       `json:"age"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserUpdate carries a partial update: nil fields keep their stored value.
// Email is immutable and intentionally absent.
type UserUpdate struct {
	Name     *string
	Surname  *string
	Age      *int
	Password *string
}
