package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"vehicle-fit/internal/algorithm"
	"vehicle-fit/internal/catalog"
	"vehicle-fit/internal/domain"
	"vehicle-fit/internal/metrics"
	"vehicle-fit/internal/session"
)

var ErrNotComputed = errors.New("no evaluation yet: run a compute first")

type FeasibilityService struct {
	engine   algorithm.Evaluator
	catalog  *catalog.Catalog
	sessions session.Store
}

func NewFeasibilityService(cat *catalog.Catalog, sessions session.Store) *FeasibilityService {
	return &FeasibilityService{
		engine:   algorithm.NewFeasibilityEngine(),
		catalog:  cat,
		sessions: sessions,
	}
}

func NewFeasibilityServiceWithEngine(engine algorithm.Evaluator, cat *catalog.Catalog, sessions session.Store) *FeasibilityService {
	return &FeasibilityService{
		engine:   engine,
		catalog:  cat,
		sessions: sessions,
	}
}

func (s *FeasibilityService) Catalog() *catalog.Catalog {
	return s.catalog
}

// Evaluate runs a one-off computation on loads sent with the request.
func (s *FeasibilityService) Evaluate(request domain.ComputeRequest) (*domain.Evaluation, error) {
	if err := request.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	loads, err := request.ToDomain()
	if err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	for i, item := range loads {
		if err := s.admit(item); err != nil {
			return nil, fmt.Errorf("loads[%d]: %w", i, err)
		}
	}

	eval, err := s.compute(loads, request.Vehicles)
	recordOutcome(eval, err)
	return eval, err
}

func (s *FeasibilityService) CreateSession(ctx context.Context) (*session.Session, error) {
	sess, err := s.sessions.Create(ctx)
	if err != nil {
		return nil, err
	}
	log.Printf("session=%s created", sess.ID)
	return sess, nil
}

func (s *FeasibilityService) Session(ctx context.Context, id string) (*session.Session, error) {
	return s.sessions.Get(ctx, id)
}

func (s *FeasibilityService) DeleteSession(ctx context.Context, id string) error {
	return s.sessions.Delete(ctx, id)
}

// AddLoad parses the typed fields, checks the load against the largest
// vehicle, and only then appends it. A failure leaves the session as it was.
func (s *FeasibilityService) AddLoad(ctx context.Context, id string, input domain.LoadInput) (*session.Session, error) {
	item, err := input.ToDomain()
	if err != nil {
		for _, field := range domain.InvalidFields(err) {
			metrics.LoadsRejected.WithLabelValues("invalid_" + field).Inc()
		}
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := s.admit(item); err != nil {
		return nil, err
	}

	sess, err := s.sessions.Update(ctx, id, func(sess *session.Session) error {
		sess.Loads.Add(item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("session=%s load added (%.3f x %.3f x %.3f m, %.2f kg x %d), %d loads",
		id, item.LengthM, item.WidthM, item.HeightM, item.UnitWeightKg, item.Quantity, sess.Loads.Len())
	return sess, nil
}

// ImportLoads adds every item or none of them.
func (s *FeasibilityService) ImportLoads(ctx context.Context, id string, items []domain.LoadItem) (*session.Session, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("validation failed: no loads to import")
	}
	for i, item := range items {
		if err := item.Validate(); err != nil {
			return nil, fmt.Errorf("validation failed: load %d: %w", i+1, err)
		}
		if err := s.admit(item); err != nil {
			return nil, fmt.Errorf("load %d: %w", i+1, err)
		}
	}

	sess, err := s.sessions.Update(ctx, id, func(sess *session.Session) error {
		sess.Loads.Add(items...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("session=%s imported %d loads, %d loads", id, len(items), sess.Loads.Len())
	return sess, nil
}

func (s *FeasibilityService) RemoveLoad(ctx context.Context, id string, index int) (*session.Session, error) {
	return s.sessions.Update(ctx, id, func(sess *session.Session) error {
		if err := sess.Loads.Remove(index); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		return nil
	})
}

func (s *FeasibilityService) ClearLoads(ctx context.Context, id string) (*session.Session, error) {
	return s.sessions.Update(ctx, id, func(sess *session.Session) error {
		sess.Loads.Clear()
		return nil
	})
}

// Compute evaluates the session's current loads. On success the evaluation
// replaces the previous one; on failure the session is left untouched.
func (s *FeasibilityService) Compute(ctx context.Context, id string, vehicles []string) (*domain.Evaluation, error) {
	// Update may run fn more than once under contention; only the last
	// attempt is counted.
	var (
		evaluation *domain.Evaluation
		computeErr error
		ran        bool
	)
	_, err := s.sessions.Update(ctx, id, func(sess *session.Session) error {
		ran = true
		evaluation, computeErr = s.compute(sess.Loads.Snapshot(), vehicles)
		if computeErr != nil {
			return computeErr
		}
		sess.Last = evaluation
		return nil
	})
	if ran {
		recordOutcome(evaluation, computeErr)
	}
	if err != nil {
		return nil, err
	}
	return evaluation, nil
}

func (s *FeasibilityService) LastEvaluation(ctx context.Context, id string) (*domain.Evaluation, error) {
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Last == nil {
		return nil, ErrNotComputed
	}
	return sess.Last, nil
}

func (s *FeasibilityService) compute(loads []domain.LoadItem, vehicles []string) (*domain.Evaluation, error) {
	log.Printf("Evaluating %d loads against %d vehicles (filter=%v)...", len(loads), s.catalog.Len(), vehicles)

	eval, err := s.engine.Compute(loads, s.catalog.Vehicles(), vehicles)
	if err != nil {
		log.Printf("Evaluation failed: %v", err)
		return nil, err
	}

	best, _ := eval.Recommended()
	log.Printf("Found %d feasible vehicles, best %q at %.2f in %dms",
		len(eval.Results), best.Vehicle, best.Viability, eval.ComputeTimeMs)
	return eval, nil
}

func (s *FeasibilityService) admit(item domain.LoadItem) error {
	err := s.catalog.Admit(item)
	var exceeded *domain.CatalogExceededError
	if errors.As(err, &exceeded) {
		for _, l := range exceeded.Exceeded {
			metrics.LoadsRejected.WithLabelValues(string(l.Constraint)).Inc()
		}
	}
	return err
}

func recordOutcome(eval *domain.Evaluation, err error) {
	var noVehicle *domain.NoFeasibleVehicleError
	var unknown *domain.UnknownVehicleError
	switch {
	case err == nil:
		metrics.Computations.WithLabelValues(metrics.OutcomeOK).Inc()
		metrics.FeasibleVehicles.Observe(float64(len(eval.Results)))
	case errors.Is(err, domain.ErrNoLoads):
		metrics.Computations.WithLabelValues(metrics.OutcomeNoLoads).Inc()
	case errors.As(err, &noVehicle):
		metrics.Computations.WithLabelValues(metrics.OutcomeNoVehicle).Inc()
	case errors.As(err, &unknown):
		metrics.Computations.WithLabelValues(metrics.OutcomeBadFilter).Inc()
	default:
		metrics.Computations.WithLabelValues(metrics.OutcomeOtherError).Inc()
	}
}

func (s *FeasibilityService) HealthCheck() map[string]interface{} {
	return map[string]interface{}{
		"status":   "healthy",
		"service":  "feasibility",
		"vehicles": s.catalog.Len(),
	}
}
