package dto

type MFASetupRequest struct {
	Method     string `json:"method"`
	Value      string `json:"value,omitempty"`
	SetPrimary bool   `json:"set_primary,omitempty"`
}

type MFAMethodRequest struct {
	Method string `json:"method"`
}

// MFASetupResponse.Secret, URI and BackupCodes are only set for totp, and only once.
type MFASetupResponse struct {
	Message     string   `json:"message"`
	Secret      string   `json:"secret,omitempty"`
	URI         string   `json:"otpauth_uri,omitempty"`
	BackupCodes []string `json:"backup_codes,omitempty"`
}

type MFAMethodResponse struct {
	Method    string `json:"mfa_method"`
	Value     string `json:"mfa_value"`
	IsPrimary bool   `json:"is_primary"`
}

type MFAMethodsResponse struct {
	Methods []MFAMethodResponse `json:"methods"`
}

type SendTestEmailRequest struct {
	Email string `json:"email"`
}

type VerifyTestOTPRequest struct {
	OTPCode string `json:"otp_code"`
}
