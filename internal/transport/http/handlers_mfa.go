package http

import (
	"context"
	"net/http"

	"mater/internal/domain"
	"mater/internal/dto"
	"mater/internal/service"
)

func (h *handlers) listMFAMethods(w http.ResponseWriter, r *http.Request) {
	u := userFrom(r.Context())
	methods, err := h.svc.MFA.ListEnabled(r.Context(), u.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp := dto.MFAMethodsResponse{Methods: make([]dto.MFAMethodResponse, 0, len(methods))}
	for _, m := range methods {
		resp.Methods = append(resp.Methods, dto.MFAMethodResponse{
			Method:    string(m.Kind),
			Value:     m.DeliveryValue,
			IsPrimary: m.IsPrimary,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handlers) setupMFA(w http.ResponseWriter, r *http.Request) {
	var req dto.MFASetupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	kind, err := domain.ParseMethodKind(req.Method)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.svc.MFA.Setup(r.Context(), userFrom(r.Context()), service.MFASetupInput{
		Kind:       kind,
		Value:      req.Value,
		SetPrimary: req.SetPrimary,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.MFASetupResponse{
		Message:     "MFA method set up successfully",
		Secret:      res.Secret,
		URI:         res.URI,
		BackupCodes: res.BackupCodes,
	})
}

// methodAction decodes {"method": ...} and applies op to the caller's method.
func methodAction(op func(context.Context, domain.UserID, domain.MethodKind) error, done string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.MFAMethodRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		kind, err := domain.ParseMethodKind(req.Method)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if err := op(r.Context(), userFrom(r.Context()).ID, kind); err != nil {
			writeError(w, r, err)
			return
		}
		message(w, http.StatusOK, done)
	}
}

func (h *handlers) sendTestEmail(w http.ResponseWriter, r *http.Request) {
	var req dto.SendTestEmailRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.MFA.SendTestCode(r.Context(), userFrom(r.Context()), domain.MethodEmail, req.Email); err != nil {
		writeError(w, r, err)
		return
	}
	message(w, http.StatusOK, "Test email sent")
}

func (h *handlers) verifyTestOTP(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyTestOTPRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if !h.svc.OTP.Verify(r.Context(), userFrom(r.Context()).ID, req.OTPCode) {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: domain.ErrInvalidOTP.Msg})
		return
	}
	message(w, http.StatusOK, "OTP verified")
}
