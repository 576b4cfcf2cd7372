package dto

import "github.com/yukikurage/stride-league-api/internal/models"

// UserDTO represents a user in API responses
type UserDTO struct {
	ID    uint64 `json:"user_id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// SignupResponse is returned by user_signup
type SignupResponse struct {
	Message  string `json:"message"`
	ID       uint64 `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// LoginResponse is returned by user_login
type LoginResponse struct {
	Message string `json:"message"`
	ID      uint64 `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
}

// ToUserDTO converts a user to DTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}
}

// ToMemberDTO converts a user to the short form used inside team and room listings
func ToMemberDTO(user models.User) UserDTO {
	return UserDTO{
		ID:   user.ID,
		Name: user.Name,
	}
}
