package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tournio/swiss-system/services"
)

type TournamentHandler struct {
	tournaments services.TournamentService
	stats       services.StatsService
}

func NewTournamentHandler(tournaments services.TournamentService, stats services.StatsService) *TournamentHandler {
	return &TournamentHandler{
		tournaments: tournaments,
		stats:       stats,
	}
}

type createTournamentRequest struct {
	Name            string `json:"name"`
	ScheduledRounds int    `json:"scheduled_rounds"`
}

func (h *TournamentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTournamentRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournaments.Create(r.Context(), req.Name, req.ScheduledRounds)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, jsonResponse{"tournament": tournament}, nil)
}

func (h *TournamentHandler) List(w http.ResponseWriter, r *http.Request) {
	tournaments, err := h.tournaments.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"tournaments": tournaments}, nil)
}

func (h *TournamentHandler) Get(w http.ResponseWriter, r *http.Request) {
	tournament, err := h.tournaments.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil)
}

type addParticipantRequest struct {
	Key string `json:"key"`
}

func (h *TournamentHandler) AddParticipant(w http.ResponseWriter, r *http.Request) {
	var req addParticipantRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.tournaments.AddParticipant(r.Context(), chi.URLParam(r, "id"), req.Key); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, jsonResponse{"key": req.Key}, nil)
}

func (h *TournamentHandler) StartNextRound(w http.ResponseWriter, r *http.Request) {
	round, err := h.tournaments.StartNextRound(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, jsonResponse{"round": round}, nil)
}

type recordResultRequest struct {
	ScoreA float64 `json:"score_a"`
	ScoreB float64 `json:"score_b"`
}

func (h *TournamentHandler) RecordResult(w http.ResponseWriter, r *http.Request) {
	roundOrdinal, err := strconv.Atoi(chi.URLParam(r, "round"))
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	matchIndex, err := strconv.Atoi(chi.URLParam(r, "match"))
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var req recordResultRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	err = h.tournaments.RecordResult(r.Context(), chi.URLParam(r, "id"), roundOrdinal, matchIndex, req.ScoreA, req.ScoreB)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"recorded": true}, nil)
}

func (h *TournamentHandler) CloseRound(w http.ResponseWriter, r *http.Request) {
	closed, err := h.tournaments.CloseRoundIfComplete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"closed": closed}, nil)
}

func (h *TournamentHandler) Finish(w http.ResponseWriter, r *http.Request) {
	if err := h.tournaments.Finish(r.Context(), chi.URLParam(r, "id")); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"finished": true}, nil)
}

func (h *TournamentHandler) Rankings(w http.ResponseWriter, r *http.Request) {
	rankings, err := h.tournaments.Rankings(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"rankings": rankings}, nil)
}

func (h *TournamentHandler) TieBreakStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.tournaments.TieBreakStatus(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"tie_break": status}, nil)
}

func (h *TournamentHandler) RunTieBreakRound(w http.ResponseWriter, r *http.Request) {
	round, err := h.tournaments.RunTieBreakRound(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, jsonResponse{"round": round}, nil)
}

func (h *TournamentHandler) Validate(w http.ResponseWriter, r *http.Request) {
	findings, err := h.tournaments.ValidateConsistency(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{
		"consistent": len(findings) == 0,
		"findings":   findings,
	}, nil)
}

func (h *TournamentHandler) RecomputeScores(w http.ResponseWriter, r *http.Request) {
	if err := h.tournaments.RecomputeScores(r.Context(), chi.URLParam(r, "id")); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"recomputed": true}, nil)
}

func (h *TournamentHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.TournamentStatistics(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"statistics": stats}, nil)
}
