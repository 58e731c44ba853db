package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"mater/internal/domain"
	"mater/internal/dto"
)

func toSettingResponse(s *domain.AppSetting) dto.AppSettingResponse {
	resp := dto.AppSettingResponse{
		ID:     s.ID,
		Name:   s.Name,
		Value:  s.Value,
		Global: s.Global,
	}
	if s.UserID != nil {
		id := s.UserID.String()
		resp.UserID = &id
	}
	return resp
}

func (h *handlers) listSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.svc.Settings.ListVisible(r.Context(), userFrom(r.Context()).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp := dto.AppSettingsResponse{Settings: make([]dto.AppSettingResponse, 0, len(settings))}
	for i := range settings {
		resp.Settings = append(resp.Settings, toSettingResponse(&settings[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handlers) addSetting(w http.ResponseWriter, r *http.Request) {
	var req dto.AppSettingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	s, err := h.svc.Settings.Add(r.Context(), userFrom(r.Context()), domain.AppSetting{
		Name:   req.Name,
		Value:  req.Value,
		Global: req.Global,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSettingResponse(s))
}

func (h *handlers) updateSetting(w http.ResponseWriter, r *http.Request) {
	var req dto.AppSettingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.ID == 0 {
		writeError(w, r, domain.ErrMissingFields)
		return
	}
	if err := h.svc.Settings.Update(r.Context(), userFrom(r.Context()), req.ID, req.Value); err != nil {
		writeError(w, r, err)
		return
	}
	message(w, http.StatusOK, "Setting updated")
}

func (h *handlers) deleteSetting(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, r, domain.ErrSettingNotFound)
		return
	}
	if err := h.svc.Settings.Delete(r.Context(), uint(id)); err != nil {
		writeError(w, r, err)
		return
	}
	message(w, http.StatusOK, "Setting deleted")
}
