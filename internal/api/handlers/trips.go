package handlers

import (
	"context"
	"encoding/json"
	"fuel-stop-planner/internal/api/dto"
	"fuel-stop-planner/internal/domain"
	"fuel-stop-planner/internal/platform/obs"
	"fuel-stop-planner/internal/report"
	"io"
	"net/http"

	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 16

// TripPlanner is the planning surface the handlers depend on.
type TripPlanner interface {
	PlanTrip(ctx context.Context, params domain.TripParameters) (*domain.TripPlan, error)
	Current() *domain.TripPlan
}

type TripHandler struct {
	Planner TripPlanner
}

// Plan runs one planning run for the posted trip and returns the result.
func (h *TripHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.TripRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	plan, err := h.Planner.PlanTrip(r.Context(), req.Params())
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			zap.L().Error("plan trip failed",
				zap.String("req_id", obs.RequestID(r.Context())),
				zap.Error(err),
			)
		}
		writeError(w, r, status, domain.UserMessage(err))
		return
	}

	writeJSON(w, r, http.StatusOK, tripResponse(plan))
}

// Current returns the result of the most recent successful run.
func (h *TripHandler) Current(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	plan := h.Planner.Current()
	if plan == nil {
		writeError(w, r, http.StatusNotFound, "no trip has been planned")
		return
	}

	writeJSON(w, r, http.StatusOK, tripResponse(plan))
}

func tripResponse(plan *domain.TripPlan) dto.TripResponse {
	res := dto.TripResponse{
		ID:                 plan.ID.String(),
		PlannedAt:          plan.PlannedAt,
		Origin:             plan.Params.Origin,
		Destination:        plan.Params.Destination,
		RangeMiles:         plan.Params.RangeMiles,
		ReserveMiles:       plan.Params.ReserveMiles,
		UsableRangeMiles:   plan.UsableRangeMiles,
		TotalDistanceMiles: plan.TotalDistanceMiles,
		NoStopsNeeded:      plan.NoStopsNeeded(),
		Summary:            report.Summary(plan),
		Stops:              make([]dto.StopResponse, 0, len(plan.Stops)),
	}
	for _, s := range plan.Stops {
		res.Stops = append(res.Stops, dto.StopResponse{
			Index:                  s.Index,
			DistanceFromStartMiles: s.DistanceFromStartMiles,
			Lat:                    s.Position.Lat,
			Lng:                    s.Position.Lng,
			Name:                   s.Name,
			Address:                s.Address,
			Rating:                 s.Rating,
			UserRatingsTotal:       s.UserRatingsTotal,
			StationFound:           s.StationFound,
		})
	}
	return res
}
