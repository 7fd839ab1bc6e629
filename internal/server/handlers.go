package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/mesh-intelligence/larder/internal/catalog"
	"github.com/mesh-intelligence/larder/pkg/types"
)

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) listFoods(w http.ResponseWriter, r *http.Request) {
	filter := types.Filter{}
	if name := r.URL.Query().Get("name"); name != "" {
		filter[types.FilterName] = name
	}
	foods, err := s.foods.Fetch(filter)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.opts.Estimator.Annotate(foods))
}

func (s *Server) getFood(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	f, err := s.foods.Get(id)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody{Error: fmt.Sprintf("food %q not found", id)})
			return
		}
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, types.Estimated{Food: f, Energy: s.opts.Estimator.Estimate(f)})
}

func (s *Server) estimate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var grams [4]float64
	for i, key := range []string{"carbs", "protein", "fat", "sugar"} {
		raw := q.Get(key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: fmt.Sprintf("%s must be a finite number, got %q", key, raw)})
			return
		}
		grams[i] = v
	}
	energy := s.opts.Estimator.Calories(grams[0], grams[1], grams[2], grams[3])
	writeJSON(w, http.StatusOK, map[string]any{
		"energy":       energy,
		"sugar_policy": policyName(s.opts.Estimator.Policy),
	})
}

func (s *Server) audit(w http.ResponseWriter, r *http.Request) {
	foods, err := s.foods.Fetch(nil)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	issues := catalog.AuditFoods(foods)
	if issues == nil {
		issues = []catalog.Issue{}
	}
	writeJSON(w, http.StatusOK, issues)
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	hlog.FromRequest(r).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func policyName(p types.SugarPolicy) string {
	if p == "" {
		return string(types.SugarAdditive)
	}
	return string(p)
}
