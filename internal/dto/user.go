package dto

import "github.com/collabridge/collabridge-api/internal/models"

// UserDTO is the public projection of a user. Password hash and username
// history never leave the server.
type UserDTO struct {
	ID       uint64          `json:"id"`
	Name     string          `json:"name"`
	Username string          `json:"username"`
	Email    string          `json:"email"`
	Avatar   string          `json:"avatar"`
	Role     models.UserRole `json:"role"`
}

// AuthDTO is returned by register and login.
type AuthDTO struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

// UsernameDTO is returned after a username change.
type UsernameDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Name:     user.Name,
		Username: user.Username,
		Email:    user.Email,
		Avatar:   user.Avatar,
		Role:     user.Role,
	}
}

// ToUserDTOs converts a slice of users
func ToUserDTOs(users []models.User) []UserDTO {
	out := make([]UserDTO, len(users))
	for i, u := range users {
		out[i] = ToUserDTO(u)
	}
	return out
}
