package algorithm

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"vehicle-fit/internal/domain"

	"github.com/shopspring/decimal"
)

type Evaluator interface {
	Compute(loads []domain.LoadItem, catalog []domain.VehicleSpec, nameFilter []string) (*domain.Evaluation, error)
}

// Policy holds the scoring constants. One policy applies to every
// computation: volume is gated on derated capacity, weight on the summed
// load weight.
type Policy struct {
	FillFactor   float64
	VolumeWeight float64
	WeightWeight float64
	MaxScore     float64
}

func DefaultPolicy() Policy {
	return Policy{
		FillFactor:   domain.FillFactor,
		VolumeWeight: 0.6,
		WeightWeight: 0.4,
		MaxScore:     100,
	}
}

func (p Policy) Validate() error {
	if p.FillFactor <= 0 || p.FillFactor > 1 {
		return fmt.Errorf("fill factor must be in (0, 1], got %v", p.FillFactor)
	}
	if p.VolumeWeight < 0 || p.WeightWeight < 0 {
		return fmt.Errorf("score weights must not be negative")
	}
	if math.Abs(p.VolumeWeight+p.WeightWeight-1) > 1e-9 {
		return fmt.Errorf("score weights must add up to 1 (got %v + %v)", p.VolumeWeight, p.WeightWeight)
	}
	if p.MaxScore <= 0 {
		return fmt.Errorf("max score must be positive")
	}
	return nil
}

type FeasibilityEngine struct {
	policy  Policy
	checker domain.ConstraintChecker
}

func NewFeasibilityEngine() *FeasibilityEngine {
	engine, _ := NewFeasibilityEngineWithPolicy(DefaultPolicy())
	return engine
}

func NewFeasibilityEngineWithPolicy(policy Policy) (*FeasibilityEngine, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return &FeasibilityEngine{
		policy:  policy,
		checker: &domain.DefaultConstraintChecker{FillFactor: policy.FillFactor},
	}, nil
}

func (e *FeasibilityEngine) Policy() Policy {
	return e.policy
}

// Compute filters the catalog down to the vehicles that can carry every
// load in a single trip and returns them ranked by viability.
func (e *FeasibilityEngine) Compute(
	loads []domain.LoadItem,
	catalog []domain.VehicleSpec,
	nameFilter []string,
) (*domain.Evaluation, error) {
	startTime := time.Now()

	if len(loads) == 0 {
		return nil, domain.ErrNoLoads
	}
	for i, item := range loads {
		if err := item.Validate(); err != nil {
			return nil, fmt.Errorf("loads[%d]: %w", i, err)
		}
	}

	filter := normalizeFilter(nameFilter)
	vehicles, err := SelectVehicles(catalog, filter)
	if err != nil {
		return nil, err
	}

	totals := domain.ComputeTotals(loads)
	results := make([]domain.FeasibilityResult, 0, len(vehicles))
	rejections := make([]domain.Rejection, 0)

	for _, vehicle := range vehicles {
		if reasons := e.checker.CanCarry(vehicle, loads, totals); len(reasons) > 0 {
			rejections = append(rejections, domain.Rejection{Vehicle: vehicle.Name, Reasons: reasons})
			continue
		}
		results = append(results, e.score(vehicle, totals))
	}

	if len(results) == 0 {
		return nil, &domain.NoFeasibleVehicleError{
			Filtered:   len(filter) > 0,
			Rejections: rejections,
		}
	}

	rank(results)

	snapshot := make([]domain.LoadItem, len(loads))
	copy(snapshot, loads)

	return &domain.Evaluation{
		Loads:         snapshot,
		Totals:        totals,
		Results:       results,
		Rejections:    rejections,
		Filter:        filter,
		ComputedAt:    startTime.UTC(),
		ComputeTimeMs: time.Since(startTime).Milliseconds(),
	}, nil
}

func (e *FeasibilityEngine) score(vehicle domain.VehicleSpec, totals domain.Totals) domain.FeasibilityResult {
	cubic := vehicle.CubicCapacityM3()
	usable := cubic * e.policy.FillFactor

	volumeUtil := totals.VolumeM3 / cubic
	weightUtil := totals.WeightKg / vehicle.MaxWeightKg

	viability := round2((volumeUtil*e.policy.VolumeWeight + weightUtil*e.policy.WeightWeight) * 100)
	viability = math.Max(0, math.Min(e.policy.MaxScore, viability))

	unitsByVolume := math.Floor(usable / totals.PerUnitVolumeM3())
	unitsByWeight := math.Floor(vehicle.MaxWeightKg / totals.PerUnitWeightKg())
	unitsThatFit := int(math.Min(unitsByVolume, unitsByWeight))

	carriesAll := unitsThatFit >= totals.Quantity
	note := domain.NoteCarriesAll
	if !carriesAll {
		note = domain.NoteNeedsMoreTrip
	}

	return domain.FeasibilityResult{
		Vehicle:              vehicle.Name,
		Category:             vehicle.Category,
		LengthM:              vehicle.LengthM,
		WidthM:               vehicle.WidthM,
		HeightM:              vehicle.HeightM,
		CubicCapacityM3:      round2(cubic),
		MaxWeightKg:          vehicle.MaxWeightKg,
		TotalQuantity:        totals.Quantity,
		UnitsThatFit:         unitsThatFit,
		TotalWeightKg:        totals.WeightKg,
		TotalVolumeM3:        totals.VolumeM3,
		VolumeUtilizationPct: round2(volumeUtil * 100),
		WeightUtilizationPct: round2(weightUtil * 100),
		SpareWeightKg:        round2(vehicle.MaxWeightKg - totals.WeightKg),
		SpareVolumeM3:        round2(usable - totals.VolumeM3),
		Viability:            viability,
		CarriesAll:           carriesAll,
		Note:                 note,
	}
}

// SelectVehicles keeps catalog order. Names match case-insensitively; an
// empty filter selects the whole catalog.
func SelectVehicles(catalog []domain.VehicleSpec, names []string) ([]domain.VehicleSpec, error) {
	if len(names) == 0 {
		out := make([]domain.VehicleSpec, len(catalog))
		copy(out, catalog)
		return out, nil
	}

	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[strings.ToLower(name)] = true
	}

	selected := make([]domain.VehicleSpec, 0, len(names))
	matched := make(map[string]bool, len(names))
	for _, v := range catalog {
		key := strings.ToLower(strings.TrimSpace(v.Name))
		if wanted[key] {
			selected = append(selected, v)
			matched[key] = true
		}
	}

	var unknown []string
	for _, name := range names {
		if !matched[strings.ToLower(name)] {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		return nil, &domain.UnknownVehicleError{Names: unknown}
	}
	return selected, nil
}

func normalizeFilter(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		key := strings.ToLower(name)
		if name == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, name)
	}
	return out
}

// rank orders by viability, highest first. Equal scores keep catalog order.
func rank(results []domain.FeasibilityResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Viability > results[j].Viability
	})
	for i := range results {
		results[i].Recommended = i == 0
	}
}

func round2(value float64) float64 {
	return decimal.NewFromFloat(value).Round(2).InexactFloat64()
}
