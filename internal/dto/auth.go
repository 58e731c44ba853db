package dto

type SignupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// LoginRequest.Username may hold either the username or the email.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type VerifyOTPRequest struct {
	Username string `json:"username"`
	OTP      string `json:"otp"`
}

type TokenResponse struct {
	JWT string `json:"jwt"`
}

type MFARequiredResponse struct {
	Message     string `json:"message"`
	MFARequired bool   `json:"mfaRequired"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
