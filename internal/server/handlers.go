package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/thenoetrevino/funil/internal/api"
	"github.com/thenoetrevino/funil/internal/database"
	"github.com/thenoetrevino/funil/internal/models"
	"github.com/thenoetrevino/funil/internal/types"
)

// BirthdayWindowDays is how far ahead the birthdays endpoint looks
const BirthdayWindowDays = 30

// maxBody caps request bodies
const maxBody = 1 << 20

var validate = validator.New()

// response is the envelope every endpoint answers with
type response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	ID      int64  `json:"id,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("failed to write response", "error", err)
	}
}

func (s *Server) ok(w http.ResponseWriter, data any) {
	s.writeJSON(w, http.StatusOK, response{Success: true, Data: data})
}

func (s *Server) fail(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, response{Success: false, Message: message})
}

// storeError maps store errors to HTTP statuses
func (s *Server) storeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, database.ErrOpportunityNotFound),
		errors.Is(err, database.ErrStageNotFound),
		errors.Is(err, database.ErrClientNotFound),
		errors.Is(err, database.ErrSellerNotFound):
		s.fail(w, http.StatusNotFound, err.Error())
	default:
		s.logger.Error("store failure", "error", err)
		s.fail(w, http.StatusInternalServerError, "internal error")
	}
}

// decode reads and validates a JSON body
func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	if err := dec.Decode(dst); err != nil {
		return err
	}
	return validate.Struct(dst)
}

// getPipeline handles GET /crm/pipeline?ven_codigo=
func (s *Server) getPipeline(w http.ResponseWriter, r *http.Request) {
	var seller types.SellerID
	if raw := r.URL.Query().Get("ven_codigo"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.fail(w, http.StatusBadRequest, "invalid ven_codigo")
			return
		}
		seller = types.SellerID(n)
	}

	stages, err := s.store.Pipeline(r.Context(), seller)
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.ok(w, stages)
}

// moveOpportunity handles PUT /crm/oportunidades/{id}/move
func (s *Server) moveOpportunity(w http.ResponseWriter, r *http.Request) {
	id, err := types.ParseOpportunityID(chi.URLParam(r, "id"))
	if err != nil {
		movesTotal.WithLabelValues("invalid").Inc()
		s.fail(w, http.StatusBadRequest, err.Error())
		return
	}

	var req api.MoveRequest
	if err := decode(w, r, &req); err != nil {
		movesTotal.WithLabelValues("invalid").Inc()
		s.fail(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}

	if s.failMoves.Load() {
		movesTotal.WithLabelValues("refused").Inc()
		s.logger.Info("refusing move", "opportunity", id, "stage", req.StageID)
		s.refuse(w, "moves are disabled on this server")
		return
	}

	if err := s.store.MoveOpportunity(r.Context(), id, req.StageID); err != nil {
		movesTotal.WithLabelValues("error").Inc()
		s.storeError(w, err)
		return
	}
	movesTotal.WithLabelValues("ok").Inc()
	s.logger.Debug("opportunity moved", "opportunity", id, "stage", req.StageID)
	s.writeJSON(w, http.StatusOK, response{Success: true})
}

// refuse answers success=false with a 200, the way the CRM reports business refusals
func (s *Server) refuse(w http.ResponseWriter, message string) {
	s.writeJSON(w, http.StatusOK, response{Success: false, Message: message})
}

// recordInteraction handles POST /crm/interacoes
func (s *Server) recordInteraction(w http.ResponseWriter, r *http.Request) {
	var in models.Interaction
	if err := decode(w, r, &in); err != nil {
		s.fail(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}

	id, err := s.store.RecordInteraction(r.Context(), in)
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, response{Success: true, ID: id})
}

func (s *Server) teamStats(w http.ResponseWriter, r *http.Request) {
	rows, err := s.store.TeamStats(r.Context())
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.ok(w, rows)
}

func (s *Server) industryStats(w http.ResponseWriter, r *http.Request) {
	rows, err := s.store.IndustryStats(r.Context())
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.ok(w, rows)
}

func (s *Server) birthdays(w http.ResponseWriter, r *http.Request) {
	rows, err := s.store.Birthdays(r.Context(), s.now(), BirthdayWindowDays)
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.ok(w, rows)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.ok(w, map[string]any{
		"uptime_seconds": int(s.now().Sub(s.started).Seconds()),
		"fail_moves":     s.failMoves.Load(),
	})
}
