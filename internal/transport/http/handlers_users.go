package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"mater/internal/domain"
	"mater/internal/dto"
)

func userIDParam(r *http.Request) (domain.UserID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		return domain.UserID{}, domain.ErrUserNotFound
	}
	return domain.UserID(id), nil
}

func toUserResponse(u *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:       u.ID.String(),
		Username: u.Username,
		Email:    u.Email,
		IsAdmin:  u.IsAdmin,
	}
}

func (h *handlers) resetPassword(w http.ResponseWriter, r *http.Request) {
	target, err := userIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req dto.AdminResetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Auth.ResetPassword(r.Context(), target, req.Password); err != nil {
		writeError(w, r, err)
		return
	}
	message(w, http.StatusOK, "Password reset successfully")
}

func (h *handlers) resetOwnPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.SelfResetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	u := userFrom(r.Context())
	if err := h.svc.Auth.ResetOwnPassword(r.Context(), u.ID, req.CurrentPassword, req.NewPassword); err != nil {
		writeError(w, r, err)
		return
	}
	message(w, http.StatusOK, "Password updated successfully")
}

func (h *handlers) deleteUser(w http.ResponseWriter, r *http.Request) {
	target, err := userIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	actor := userFrom(r.Context())
	if err := h.svc.Auth.DeleteUser(r.Context(), actor.ID, target); err != nil {
		writeError(w, r, err)
		return
	}
	message(w, http.StatusOK, "User deleted successfully")
}

func (h *handlers) createUser(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	u, err := h.svc.Auth.CreateUser(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserResponse(u))
}

func (h *handlers) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.Auth.ListUsers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp := dto.UsersResponse{Users: make([]dto.UserResponse, 0, len(users))}
	for i := range users {
		resp.Users = append(resp.Users, toUserResponse(&users[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}
