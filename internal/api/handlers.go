package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tasarini/trip-planner/internal/activity"
	"github.com/tasarini/trip-planner/internal/itinerary"
)

// Handlers holds the dependencies for all HTTP handlers.
type Handlers struct {
	repo   PlannerRepo
	cache  ItineraryCache
	scorer ActivityScorer
	log    *slog.Logger
}

// NewHandlers constructs Handlers with all required dependencies.
func NewHandlers(repo PlannerRepo, cache ItineraryCache, scorer ActivityScorer, log *slog.Logger) *Handlers {
	return &Handlers{
		repo:   repo,
		cache:  cache,
		scorer: scorer,
		log:    log,
	}
}

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// ---- activity scoring ----

type scoreRequest struct {
	POI         activity.POI         `json:"poi"`
	Preferences activity.Preferences `json:"preferences"`
}

// ScoreActivity handles POST /api/v1/activities/score.
// Scores one POI against one preference set; never fails once decoded.
func (h *Handlers) ScoreActivity(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	writeJSON(w, http.StatusOK, h.scorer.Score(r.Context(), req.POI, req.Preferences))
}

type suggestRequest struct {
	Latitude    float64              `json:"latitude"`
	Longitude   float64              `json:"longitude"`
	RadiusKm    float64              `json:"radius_km"`
	Preferences activity.Preferences `json:"preferences"`
}

// SuggestActivities handles POST /api/v1/activities/suggestions.
// Loads activity POIs around the center and returns them ranked by
// compatibility, best first, zero scores dropped.
func (h *Handlers) SuggestActivities(w http.ResponseWriter, r *http.Request) {
	var req suggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.RadiusKm <= 0 {
		req.RadiusKm = 10
	}

	pois, err := h.repo.GetActivityPOIsInRadius(r.Context(), req.Latitude, req.Longitude, req.RadiusKm)
	if err != nil {
		h.log.Error("poi radius query failed", "lat", req.Latitude, "lon", req.Longitude, "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	ranked := h.scorer.Rank(r.Context(), pois, req.Preferences)
	writeJSON(w, http.StatusOK, map[string]any{"suggestions": ranked})
}

// ---- itineraries ----

type savedResponse struct {
	ID        string              `json:"id"`
	Title     string              `json:"title"`
	Data      itinerary.Itinerary `json:"data"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

func toResponse(s *itinerary.Saved) savedResponse {
	return savedResponse{
		ID:        s.ID,
		Title:     s.Title,
		Data:      s.Data,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// GetItinerary handles GET /api/v1/itineraries/{id}.
// Cache hit → return. DB hit → cache + return. Neither → 404.
func (h *Handlers) GetItinerary(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	cached, err := h.cache.Get(r.Context(), id)
	if err != nil {
		h.log.Error("cache get failed", "id", id, "err", err)
	}
	if cached != nil {
		writeJSON(w, http.StatusOK, toResponse(cached))
		return
	}

	saved, err := h.repo.GetItinerary(r.Context(), id)
	if err != nil {
		h.log.Error("db get failed", "id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if saved == nil {
		writeError(w, http.StatusNotFound, "itinerary not found")
		return
	}

	if err := h.cache.Set(r.Context(), saved); err != nil {
		h.log.Warn("cache set failed after db hit", "id", id, "err", err)
	}

	writeJSON(w, http.StatusOK, toResponse(saved))
}

type itineraryRequest struct {
	Title string              `json:"title"`
	Data  itinerary.Itinerary `json:"data"`
}

// CreateItinerary handles POST /api/v1/itineraries.
// Assigns the itinerary and every activity a generated ID.
func (h *Handlers) CreateItinerary(w http.ResponseWriter, r *http.Request) {
	var req itineraryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Data.Days) == 0 {
		writeError(w, http.StatusBadRequest, "itinerary must have at least one day")
		return
	}

	assignActivityIDs(&req.Data)

	saved := &itinerary.Saved{
		ID:    uuid.NewString(),
		Title: req.Title,
		Data:  req.Data,
	}

	if err := h.repo.CreateItinerary(r.Context(), saved); err != nil {
		h.log.Error("create failed", "id", saved.ID, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to store itinerary")
		return
	}

	if err := h.cache.Set(r.Context(), saved); err != nil {
		h.log.Warn("cache set failed after create", "id", saved.ID, "err", err)
	}

	writeJSON(w, http.StatusCreated, toResponse(saved))
}

// UpdateItinerary handles PUT /api/v1/itineraries/{id}.
func (h *Handlers) UpdateItinerary(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req itineraryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Data.Days) == 0 {
		writeError(w, http.StatusBadRequest, "itinerary must have at least one day")
		return
	}

	assignActivityIDs(&req.Data)

	if !h.persist(r.Context(), w, id, req.Title, req.Data) {
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// DeleteItinerary handles DELETE /api/v1/itineraries/{id}.
func (h *Handlers) DeleteItinerary(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	deleted, err := h.repo.DeleteItinerary(r.Context(), id)
	if err != nil {
		h.log.Error("delete failed", "id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "itinerary not found")
		return
	}

	if err := h.cache.Delete(r.Context(), id); err != nil {
		h.log.Warn("cache delete failed", "id", id, "err", err)
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type reorderRequest struct {
	SourceKey string `json:"source_key"`
	TargetKey string `json:"target_key"`
}

type reorderResponse struct {
	Outcome  string              `json:"outcome"`
	CrossDay bool                `json:"cross_day"`
	Message  string              `json:"message"`
	Data     itinerary.Itinerary `json:"data"`
}

// ReorderItinerary handles POST /api/v1/itineraries/{id}/reorder.
// Applies a drag-and-drop move and persists the result when it changed
// anything. No-op outcomes are reported, not hidden.
func (h *Handlers) ReorderItinerary(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req reorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	saved, ok := h.load(r.Context(), w, id)
	if !ok {
		return
	}

	res := itinerary.Reorder(saved.Data, req.SourceKey, req.TargetKey)

	if res.Outcome == itinerary.Moved {
		if !h.persist(r.Context(), w, id, saved.Title, res.Itinerary) {
			return
		}
	}

	writeJSON(w, http.StatusOK, reorderResponse{
		Outcome:  res.Outcome.String(),
		CrossDay: res.CrossDay,
		Message:  reorderMessage(res),
		Data:     res.Itinerary,
	})
}

func reorderMessage(res itinerary.MoveResult) string {
	switch res.Outcome {
	case itinerary.Moved:
		if res.CrossDay {
			return "activity moved to another day"
		}
		return "activity order updated"
	case itinerary.NoOpUnchanged:
		return "nothing to move"
	default:
		return "activity not found"
	}
}

type addDayRequest struct {
	Date string `json:"date"`
}

// AddDay handles POST /api/v1/itineraries/{id}/days.
func (h *Handlers) AddDay(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req addDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	saved, ok := h.load(r.Context(), w, id)
	if !ok {
		return
	}

	updated := itinerary.AddDay(saved.Data, req.Date)
	if !h.persist(r.Context(), w, id, saved.Title, updated) {
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"days": len(updated.Days)})
}

// AddActivity handles POST /api/v1/itineraries/{id}/days/{index}/activities.
// The new activity gets a generated ID unless the request supplies one.
func (h *Handlers) AddActivity(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid day index")
		return
	}

	var act itinerary.Activity
	if err := json.NewDecoder(r.Body).Decode(&act); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if act.Title == "" {
		writeError(w, http.StatusBadRequest, "activity title is required")
		return
	}
	if act.ID == "" {
		act.ID = uuid.NewString()
	}

	saved, ok := h.load(r.Context(), w, id)
	if !ok {
		return
	}

	updated, err := itinerary.AddActivity(saved.Data, index, act)
	if err != nil {
		writeError(w, http.StatusNotFound, "day not found")
		return
	}

	if !h.persist(r.Context(), w, id, saved.Title, updated) {
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"activity": act})
}

// DeleteDay handles DELETE /api/v1/itineraries/{id}/days/{index}.
// An itinerary keeps at least one day; deleting the last one is a conflict.
func (h *Handlers) DeleteDay(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid day index")
		return
	}

	saved, ok := h.load(r.Context(), w, id)
	if !ok {
		return
	}

	updated, err := itinerary.DeleteDay(saved.Data, index)
	if err != nil {
		switch {
		case errors.Is(err, itinerary.ErrLastDay):
			writeError(w, http.StatusConflict, "an itinerary must keep at least one day")
		case errors.Is(err, itinerary.ErrDayNotFound):
			writeError(w, http.StatusNotFound, "day not found")
		default:
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	if !h.persist(r.Context(), w, id, saved.Title, updated) {
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"days": len(updated.Days)})
}

// load fetches an itinerary via cache then DB, writing the error response
// itself when the fetch fails or misses.
func (h *Handlers) load(ctx context.Context, w http.ResponseWriter, id string) (*itinerary.Saved, bool) {
	cached, err := h.cache.Get(ctx, id)
	if err != nil {
		h.log.Error("cache get failed", "id", id, "err", err)
	}
	if cached != nil {
		return cached, true
	}

	saved, err := h.repo.GetItinerary(ctx, id)
	if err != nil {
		h.log.Error("db get failed", "id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return nil, false
	}
	if saved == nil {
		writeError(w, http.StatusNotFound, "itinerary not found")
		return nil, false
	}
	return saved, true
}

// persist updates the stored itinerary and refreshes the cache with the
// record the database returned, so cached reads carry the real timestamps.
// Writes the error response itself on failure.
func (h *Handlers) persist(ctx context.Context, w http.ResponseWriter, id, title string, data itinerary.Itinerary) bool {
	saved, err := h.repo.UpdateItinerary(ctx, id, title, data)
	if err != nil {
		h.log.Error("update failed", "id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to store itinerary")
		return false
	}
	if saved == nil {
		writeError(w, http.StatusNotFound, "itinerary not found")
		return false
	}

	if err := h.cache.Set(ctx, saved); err != nil {
		h.log.Warn("cache set failed after update", "id", id, "err", err)
	}

	return true
}

// assignActivityIDs gives every activity without an ID a generated one, so
// drag-and-drop operations have a stable identity even when titles collide.
func assignActivityIDs(itin *itinerary.Itinerary) {
	for d := range itin.Days {
		for a := range itin.Days[d].Activities {
			if itin.Days[d].Activities[a].ID == "" {
				itin.Days[d].Activities[a].ID = uuid.NewString()
			}
		}
	}
}

// ---- health ----

type dbPinger interface {
	Ping(ctx context.Context) error
}

type redisPinger interface {
	Ping(ctx context.Context) error
}

// HealthHandlerFunc returns an http.HandlerFunc that checks db and redis
// connectivity. Returns 200 when both respond, 503 otherwise.
func HealthHandlerFunc(db dbPinger, redis redisPinger, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		status := http.StatusOK
		dbStatus := "ok"
		redisStatus := "ok"

		if err := db.Ping(ctx); err != nil {
			log.Error("health check: db ping failed", "err", err)
			dbStatus = "error"
			status = http.StatusServiceUnavailable
		}

		if err := redis.Ping(ctx); err != nil {
			log.Error("health check: redis ping failed", "err", err)
			redisStatus = "error"
			status = http.StatusServiceUnavailable
		}

		overall := "ok"
		if status != http.StatusOK {
			overall = "degraded"
		}

		writeJSON(w, status, map[string]string{
			"status": overall,
			"db":     dbStatus,
			"redis":  redisStatus,
		})
	}
}
