package server

import (
	"encoding/json"
	"errors"
	"net/http"

	stderrors "property-concierge/internal/common/errors"
	"property-concierge/internal/wizard"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	var stdErr *stderrors.StandardError
	if !errors.As(err, &stdErr) {
		s.logger.Error("unhandled error", map[string]interface{}{"error": err.Error()})
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "unexpected error",
		})
		return
	}

	status := http.StatusBadRequest
	switch stdErr.Code {
	case stderrors.ErrCodePropertyNotFound, stderrors.ErrCodeFormNotFound:
		status = http.StatusNotFound
	case stderrors.ErrCodeFormAlreadySubmitted:
		status = http.StatusConflict
	}
	writeJSON(w, status, errorResponse{
		Code:    string(stdErr.Code),
		Message: stdErr.Message,
		Details: stdErr.Details,
	})
}

func (s *Server) handleListProperties(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"properties": s.controller.Names(),
	})
}

func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"turns": s.controller.Transcript().All(),
	})
}

func (s *Server) handleSelectProperty(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "BAD_REQUEST", Message: "invalid JSON body"})
		return
	}

	turn, err := s.controller.SelectProperty(body.Name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, turn)
}

func (s *Server) handleOpenForm(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Kind     string `json:"kind"`
		Property string `json:"property"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "BAD_REQUEST", Message: "invalid JSON body"})
		return
	}

	formID, err := s.controller.OpenForm(wizard.Kind(body.Kind), body.Property)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"formId": formID})
}

func (s *Server) handleUpdateField(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Field string `json:"field"`
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "BAD_REQUEST", Message: "invalid JSON body"})
		return
	}

	if err := s.controller.UpdateField(r.PathValue("formId"), body.Field, body.Value); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	result, err := s.controller.Advance(r.Context(), r.PathValue("formId"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	if result.Blocked {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"blocked":     true,
			"fieldErrors": result.FieldErrors,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"blocked":   false,
		"submitted": result.Submitted,
	})
}

func (s *Server) handleRetreat(w http.ResponseWriter, r *http.Request) {
	if err := s.controller.Retreat(r.PathValue("formId")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
