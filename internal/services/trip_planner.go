package services

import (
	"context"
	"errors"
	"fmt"
	"fuel-stop-planner/internal/domain"
	"fuel-stop-planner/internal/platform/obs"
	"fuel-stop-planner/internal/ports"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// State is the lifecycle position of the planner's current run.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateFetchingRoute
	StatePlanning
	StateResolvingStations
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateFetchingRoute:
		return "fetching_route"
	case StatePlanning:
		return "planning"
	case StateResolvingStations:
		return "resolving_stations"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// TripPlanner runs one planning run at a time and owns that run's state.
//
// It is safe for concurrent use; a submission while a run is active is
// rejected with domain.ErrPlanningInProgress.
type TripPlanner struct {
	routes   ports.RouteProvider
	stations *StationResolver
	metrics  *obs.Metrics
	logger   *zap.Logger
	clock    clockwork.Clock

	mu      sync.Mutex
	state   State
	current *domain.TripPlan
}

type TripPlannerOption func(*TripPlanner)

func WithMetrics(m *obs.Metrics) TripPlannerOption {
	return func(p *TripPlanner) { p.metrics = m }
}

func WithLogger(l *zap.Logger) TripPlannerOption {
	return func(p *TripPlanner) { p.logger = l }
}

func WithClock(c clockwork.Clock) TripPlannerOption {
	return func(p *TripPlanner) { p.clock = c }
}

// WithSearchRadius overrides the station search radius in meters.
func WithSearchRadius(meters int) TripPlannerOption {
	return func(p *TripPlanner) { p.stations.RadiusMeters = meters }
}

func NewTripPlanner(routes ports.RouteProvider, places ports.PlacesProvider, opts ...TripPlannerOption) *TripPlanner {
	p := &TripPlanner{
		routes: routes,
		stations: &StationResolver{
			Places:       places,
			RadiusMeters: domain.DefaultSearchRadiusMeters,
		},
		logger: zap.L(),
		clock:  clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.stations.Metrics = p.metrics
	p.stations.Logger = p.logger
	return p
}

// State reports the lifecycle position of the active run.
func (p *TripPlanner) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Current returns the plan produced by the most recent successful run,
// or nil when no run has completed since the last one started.
func (p *TripPlanner) Current() *domain.TripPlan {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// PlanTrip validates params, fetches the route, plans stops and resolves
// stations. Validation failures never reach a provider.
func (p *TripPlanner) PlanTrip(ctx context.Context, params domain.TripParameters) (_ *domain.TripPlan, err error) {
	defer obs.Time(ctx, "trip.PlanTrip")(&err)

	if err := p.begin(); err != nil {
		p.countOutcome(err)
		return nil, err
	}
	defer func() { p.finish(err) }()

	runID := uuid.New()
	log := p.logger.With(
		zap.String("run_id", runID.String()),
		zap.String("req_id", obs.RequestID(ctx)),
	)

	if err := params.Validate(); err != nil {
		log.Info("trip rejected", zap.Error(err))
		return nil, fmt.Errorf("plan trip: %w", err)
	}

	usable := params.UsableRangeMiles()

	p.setState(StateFetchingRoute)
	start := p.clock.Now()
	directions, err := p.routes.GetDirections(ctx, params.Origin, params.Destination)
	if p.metrics != nil {
		p.metrics.RouteFetchDuration.Observe(p.clock.Since(start).Seconds())
	}
	if err != nil {
		log.Warn("route fetch failed", zap.Error(err))
		return nil, fmt.Errorf("plan trip: fetch route: %w", classifyRouteError(err))
	}

	route, err := RouteFromDirections(directions)
	if err != nil {
		return nil, fmt.Errorf("plan trip: %w", err)
	}

	p.setState(StatePlanning)
	total := TotalDistance(route)
	seq, err := PlanStops(route, usable)
	if err != nil {
		return nil, fmt.Errorf("plan trip: %w: %w", domain.ErrRouteUnavailable, err)
	}
	planned := slices.Collect(seq)

	plan := &domain.TripPlan{
		ID:                 runID,
		PlannedAt:          p.clock.Now(),
		Params:             params,
		UsableRangeMiles:   usable,
		TotalDistanceMiles: total,
		Stops:              []domain.StopRecord{},
	}

	if len(planned) > 0 {
		p.setState(StateResolvingStations)
		records, err := p.stations.Resolve(ctx, planned)
		if err != nil {
			log.Error("station resolution failed", zap.Error(err))
			return nil, fmt.Errorf("plan trip: %w", err)
		}
		plan.Stops = records
	}

	log.Info("trip planned",
		zap.Float64("total_miles", total),
		zap.Float64("usable_range_miles", usable),
		zap.Int("stops", len(plan.Stops)),
	)

	p.mu.Lock()
	p.current = plan
	p.mu.Unlock()

	if p.metrics != nil {
		p.metrics.PlannedStops.Observe(float64(len(plan.Stops)))
	}

	return plan, nil
}

// begin claims the planner for a new run and releases the previous result.
func (p *TripPlanner) begin() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StateIdle {
		return fmt.Errorf("plan trip: state=%s: %w", p.state, domain.ErrPlanningInProgress)
	}
	p.state = StateValidating
	p.current = nil

	if p.metrics != nil {
		p.metrics.PlanningInProgress.Set(1)
	}
	return nil
}

// finish records the terminal state and returns the planner to idle.
// It runs on every path out of PlanTrip after begin succeeded.
func (p *TripPlanner) finish(err error) {
	p.mu.Lock()
	if err != nil {
		p.state = StateFailed
	} else {
		p.state = StateDone
	}
	p.logger.Debug("planning run finished", zap.Stringer("state", p.state))
	p.state = StateIdle
	p.mu.Unlock()

	if p.metrics != nil {
		p.metrics.PlanningInProgress.Set(0)
	}
	p.countOutcome(err)
}

func (p *TripPlanner) setState(s State) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}

func (p *TripPlanner) countOutcome(err error) {
	if p.metrics == nil {
		return
	}
	p.metrics.TripsPlanned.WithLabelValues(outcome(err)).Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, domain.ErrPlanningInProgress):
		return "busy"
	case errors.Is(err, domain.ErrRouteUnavailable):
		return "route_unavailable"
	default:
		return "provider_failure"
	}
}

// classifyRouteError makes sure every route failure carries one of the
// route sentinels; unknown errors count as infrastructure failures.
func classifyRouteError(err error) error {
	if errors.Is(err, domain.ErrRouteUnavailable) || errors.Is(err, domain.ErrProviderFailure) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrProviderFailure, err)
}
