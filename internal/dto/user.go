package dto

type AdminResetPasswordRequest struct {
	Password string `json:"password"`
}

type SelfResetPasswordRequest struct {
	JWT             string `json:"jwt,omitempty"`
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"is_admin"`
}

type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"is_admin"`
}

type UsersResponse struct {
	Users []UserResponse `json:"users"`
}
