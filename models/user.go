package models

import "time"

type User struct {
	ID             int       `json:"id"`
	FullName       string    `json:"full_name"`
	Email          string    `json:"email"`
	Password       string    `json:"-"`
	Address        string    `json:"address,omitempty"`
	City           string    `json:"city,omitempty"`
	PostalCode     string    `json:"postal_code,omitempty"`
	ProfilePicture string    `json:"profile_picture,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
