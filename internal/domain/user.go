package domain

import "time"

type User struct {
	ID             string     `json:"id"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	Birthday       *time.Time `json:"birthday,omitempty"`
	PasswordHash   string     `json:"-"`
	FavoriteMovies []string   `json:"favorite_movies"`
	CreatedAt      time.Time  `json:"created_at"`
}
