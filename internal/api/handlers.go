package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	apperrors "footfit/internal/common/errors"
	"footfit/internal/common/metrics"
	"footfit/internal/export"
	"footfit/internal/models"
	"footfit/internal/wizard"

	"github.com/go-chi/chi/v5"
)

// ========================
// Operational
// ========================

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready reports whether the session store is reachable.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Ping(r.Context()); err != nil {
		h.log.Warn("readiness check failed", map[string]interface{}{"error": err.Error()})
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// ========================
// Wizard
// ========================

func (h *Handler) Options(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"steps": optionsView()})
}

func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	state, err := h.sessions.Start(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/v1/sessions/"+state.SessionID)
	writeJSON(w, http.StatusCreated, newStateView(state))
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	state, err := h.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newStateView(state))
}

func (h *Handler) EndSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.End(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type setFieldRequest struct {
	Step  int    `json:"step"`
	Value string `json:"value"`
}

func (h *Handler) SetField(w http.ResponseWriter, r *http.Request) {
	var req setFieldRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	state, err := h.sessions.SetField(r.Context(), chi.URLParam(r, "id"), req.Step, chi.URLParam(r, "field"), req.Value)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newStateView(state))
}

func (h *Handler) Advance(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.sessions.Advance)
}

func (h *Handler) Retreat(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.sessions.Retreat)
}

func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.sessions.Reset)
}

type transitionFunc func(ctx context.Context, id string) (*models.WizardState, wizard.Outcome, error)

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, fn transitionFunc) {
	state, out, err := fn(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, transitionView{State: newStateView(state), Outcome: newOutcomeView(out)})
}

func (h *Handler) Recommendation(w http.ResponseWriter, r *http.Request) {
	rec, _, err := h.sessions.Recommendation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// ========================
// Export
// ========================

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, state, err := h.sessions.Recommendation(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	metrics.ExportsSent.WithLabelValues("download", "sent").Inc()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(id)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(export.Text(state.Profile, *rec)))
}

type emailRequest struct {
	To string `json:"to"`
}

func (h *Handler) EmailExport(w http.ResponseWriter, r *http.Request) {
	if !h.mailer.Enabled() {
		h.writeError(w, r, apperrors.NewMailerDisabledError().WithCause(export.ErrMailerDisabled))
		return
	}
	var req emailRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	id := chi.URLParam(r, "id")
	rec, state, err := h.sessions.Recommendation(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.mailer.Send(r.Context(), req.To, state.Profile, *rec); err != nil {
		switch {
		case errors.Is(err, export.ErrMailerDisabled):
			h.writeError(w, r, apperrors.NewMailerDisabledError().WithCause(err))
		case errors.Is(err, export.ErrInvalidRecipient):
			h.writeError(w, r, apperrors.NewParseError(err).WithCause(err))
		default:
			h.writeError(w, r, apperrors.NewExportSendFailedError(err).WithCause(err))
		}
		return
	}
	h.log.Info("export e-mailed", map[string]interface{}{"sessionId": id})
	writeJSON(w, http.StatusAccepted, map[string]bool{"sent": true})
}

type smsRequest struct {
	Phone string `json:"phone"`
}

func (h *Handler) SMSExport(w http.ResponseWriter, r *http.Request) {
	if !h.texter.Enabled() {
		h.writeError(w, r, apperrors.NewSMSDisabledError().WithCause(export.ErrSMSDisabled))
		return
	}
	var req smsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	id := chi.URLParam(r, "id")
	rec, state, err := h.sessions.Recommendation(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.texter.Send(r.Context(), req.Phone, state.Profile, *rec); err != nil {
		switch {
		case errors.Is(err, export.ErrSMSDisabled):
			h.writeError(w, r, apperrors.NewSMSDisabledError().WithCause(err))
		case errors.Is(err, export.ErrInvalidPhone):
			h.writeError(w, r, apperrors.NewParseError(err).WithCause(err))
		default:
			h.writeError(w, r, apperrors.NewExportSendFailedError(err).WithCause(err))
		}
		return
	}
	h.log.Info("export sent by sms", map[string]interface{}{"sessionId": id})
	writeJSON(w, http.StatusAccepted, map[string]bool{"sent": true})
}
