package http

import (
	"net/http"

	"mater/internal/domain"
	"mater/internal/dto"
	"mater/internal/netutil"
)

func (h *handlers) clientIP(r *http.Request) string {
	return netutil.ClientIP(r, h.cfg.TrustProxy)
}

func (h *handlers) signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.svc.Auth.Signup(r.Context(), req, h.clientIP(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.setTokenCookie(w, res.JWT)
	writeJSON(w, http.StatusOK, res)
}

func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.svc.Auth.Login(r.Context(), req, h.clientIP(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if res.MFARequired {
		writeJSON(w, http.StatusAccepted, dto.MFARequiredResponse{Message: "MFA required", MFARequired: true})
		return
	}
	h.setTokenCookie(w, res.Token)
	writeJSON(w, http.StatusOK, dto.TokenResponse{JWT: res.Token})
}

func (h *handlers) verifyOTP(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyOTPRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.svc.Auth.VerifyOTP(r.Context(), req, h.clientIP(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.setTokenCookie(w, res.JWT)
	writeJSON(w, http.StatusOK, res)
}

// logout always succeeds; a valid token only adds the user to the log line.
func (h *handlers) logout(w http.ResponseWriter, r *http.Request) {
	var uid *domain.UserID
	if tok := h.tokenFromRequest(r); tok != "" {
		if u, err := h.svc.Guard.Authenticate(r.Context(), tok); err == nil {
			uid = &u.ID
		}
	}
	h.svc.Auth.Logout(r.Context(), uid)
	h.clearTokenCookie(w)
	message(w, http.StatusOK, "Logged out")
}
