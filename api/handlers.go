package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"picktrack/models"
	"picktrack/oddsmath"
	"picktrack/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

const defaultListLimit = 100

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.db != nil && !s.db.Healthy(r.Context()) {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreatePick(w http.ResponseWriter, r *http.Request) {
	var req createPickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, service.NewValidationError("invalid request body: %v", err))
		return
	}

	pick, err := s.picks.CreatePick(r.Context(), &models.Pick{
		Sport:     req.Sport,
		League:    req.League,
		EventID:   req.EventID,
		HomeTeam:  req.HomeTeam,
		AwayTeam:  req.AwayTeam,
		StartTime: req.StartTime,
		Market:    req.Market,
		Selection: req.Selection,
		Line:      req.Line,
		Odds:      req.Odds,
		Stake:     decimal.NewFromFloat(req.Stake),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, pick)
}

func (s *Server) handleListPicks(w http.ResponseWriter, r *http.Request) {
	var status *models.PickStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		st := models.PickStatus(raw)
		status = &st
	}

	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, service.NewValidationError("limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	picks, err := s.picks.ListPicks(r.Context(), status, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "count": len(picks), "data": picks})
}

func (s *Server) handleGrade(w http.ResponseWriter, r *http.Request) {
	var req gradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, service.NewValidationError("invalid request body: %v", err))
		return
	}

	homeScore, err := intScore(req.HomeScore, "homeScore")
	if err != nil {
		writeError(w, err)
		return
	}
	awayScore, err := intScore(req.AwayScore, "awayScore")
	if err != nil {
		writeError(w, err)
		return
	}

	var result *models.SettlementResult
	if req.PickID != nil {
		var stakeOverride *decimal.Decimal
		if req.StakeUnits != nil {
			d := decimal.NewFromFloat(*req.StakeUnits)
			stakeOverride = &d
		}
		result, err = s.settlements.GradePick(r.Context(), *req.PickID, homeScore, awayScore, stakeOverride)
	} else {
		result, err = s.settlements.GradeMatchup(r.Context(), req.HomeTeam, req.AwayTeam, req.StartTime, homeScore, awayScore)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGradeBulk(w http.ResponseWriter, r *http.Request) {
	var req bulkGradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, service.NewValidationError("invalid request body: %v", err))
		return
	}
	if len(req.Items) == 0 {
		writeError(w, service.NewValidationError("items is required"))
		return
	}

	// Score validation happens per item so one malformed entry cannot block
	// the rest of the batch. Invalid items become failed results in place.
	items := make([]models.BulkGradeItem, len(req.Items))
	invalid := make(map[int]string)
	for i, item := range req.Items {
		homeScore, err := intScore(item.HomeScore, "homeScore")
		if err != nil {
			invalid[i] = err.Error()
			items[i] = models.BulkGradeItem{PickID: item.PickID}
			continue
		}
		awayScore, err := intScore(item.AwayScore, "awayScore")
		if err != nil {
			invalid[i] = err.Error()
			items[i] = models.BulkGradeItem{PickID: item.PickID}
			continue
		}
		items[i] = models.BulkGradeItem{PickID: item.PickID, HomeScore: homeScore, AwayScore: awayScore}
	}

	// Grade only the valid items, then stitch results back in input order.
	valid := make([]models.BulkGradeItem, 0, len(items))
	for i, item := range items {
		if _, bad := invalid[i]; !bad {
			valid = append(valid, item)
		}
	}

	graded, err := s.settlements.GradeBulk(r.Context(), valid)
	if err != nil {
		writeError(w, err)
		return
	}

	result := &models.BulkGradeResult{
		OK:      true,
		Graded:  graded.Graded,
		Total:   len(req.Items),
		Results: make([]models.BulkGradeItemResult, 0, len(req.Items)),
	}
	next := 0
	for i, item := range req.Items {
		if msg, bad := invalid[i]; bad {
			result.Results = append(result.Results, models.BulkGradeItemResult{
				PickID: item.PickID,
				Error:  msg,
			})
			continue
		}
		result.Results = append(result.Results, graded.Results[next])
		next++
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, service.NewValidationError("invalid pick id"))
		return
	}

	pick, err := s.settlements.Undo(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "data": pick})
}

func (s *Server) handleBankroll(w http.ResponseWriter, r *http.Request) {
	summary, err := s.bankroll.Summary(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleLedger(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, service.NewValidationError("limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	txns, err := s.bankroll.Ledger(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "count": len(txns), "data": txns})
}

func (s *Server) handleSuggestStake(w http.ResponseWriter, r *http.Request) {
	prob, err := strconv.ParseFloat(r.URL.Query().Get("prob"), 64)
	if err != nil || prob <= 0 || prob >= 1 {
		writeError(w, service.NewValidationError("prob must be a number in (0,1)"))
		return
	}
	odds, err := strconv.Atoi(r.URL.Query().Get("odds"))
	if err != nil || odds == 0 {
		writeError(w, service.NewValidationError("odds must be a nonzero American price"))
		return
	}

	summary, err := s.bankroll.Summary(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	stake := oddsmath.SuggestedStake(
		summary.CurrentBankroll,
		prob,
		odds,
		s.cfg.KellyMultiplier,
		s.cfg.MaxStakePct,
		s.cfg.StakeRoundingUnit,
	)

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":              true,
		"bankroll":        summary.CurrentBankroll,
		"suggestedStake":  stake,
		"kellyMultiplier": s.cfg.KellyMultiplier,
		"maxStakePct":     s.cfg.MaxStakePct,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.WithError(err).Error("Failed to encode response")
	}
}

// writeError maps the service error taxonomy onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	var validation *service.ValidationError
	var notFound *service.NotFoundError
	var settled *service.AlreadySettledError
	switch {
	case errors.As(err, &validation):
		status = http.StatusBadRequest
	case errors.As(err, &notFound):
		status = http.StatusNotFound
	case errors.As(err, &settled):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		log.WithError(err).Error("Request failed")
	}

	writeJSON(w, status, errorResponse{OK: false, Error: err.Error()})
}
