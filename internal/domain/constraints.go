package domain

type Constraint string

const (
	ConstraintLength Constraint = "length"
	ConstraintWidth  Constraint = "width"
	ConstraintHeight Constraint = "height"
	ConstraintWeight Constraint = "weight"
	ConstraintVolume Constraint = "volume"
)

var AllConstraints = []Constraint{
	ConstraintLength,
	ConstraintWidth,
	ConstraintHeight,
	ConstraintWeight,
	ConstraintVolume,
}

func (c Constraint) order() int {
	for i, other := range AllConstraints {
		if c == other {
			return i
		}
	}
	return len(AllConstraints)
}

// Rejection records why a vehicle was left out of the results.
type Rejection struct {
	Vehicle string       `json:"vehicle"`
	Reasons []Constraint `json:"reasons"`
}

type ConstraintChecker interface {
	Contains(vehicle VehicleSpec, item LoadItem) []Constraint
	CanCarry(vehicle VehicleSpec, items []LoadItem, totals Totals) []Constraint
}

// DefaultConstraintChecker compares each item against the vehicle interior
// axis by axis (no rotation), then the aggregate weight against the payload
// and the aggregate volume against the derated capacity.
type DefaultConstraintChecker struct {
	FillFactor float64
}

func NewConstraintChecker() ConstraintChecker {
	return &DefaultConstraintChecker{FillFactor: FillFactor}
}

func (d *DefaultConstraintChecker) Contains(vehicle VehicleSpec, item LoadItem) []Constraint {
	var failed []Constraint
	if item.LengthM > vehicle.LengthM {
		failed = append(failed, ConstraintLength)
	}
	if item.WidthM > vehicle.WidthM {
		failed = append(failed, ConstraintWidth)
	}
	if item.HeightM > vehicle.HeightM {
		failed = append(failed, ConstraintHeight)
	}
	return failed
}

func (d *DefaultConstraintChecker) CanCarry(vehicle VehicleSpec, items []LoadItem, totals Totals) []Constraint {
	seen := make(map[Constraint]bool)
	var failed []Constraint
	for _, item := range items {
		for _, c := range d.Contains(vehicle, item) {
			if !seen[c] {
				seen[c] = true
				failed = append(failed, c)
			}
		}
	}

	if totals.WeightKg > vehicle.MaxWeightKg {
		failed = append(failed, ConstraintWeight)
	}
	if totals.VolumeM3 > vehicle.CubicCapacityM3()*d.fillFactor() {
		failed = append(failed, ConstraintVolume)
	}

	sortConstraints(failed)
	return failed
}

func (d *DefaultConstraintChecker) fillFactor() float64 {
	if d.FillFactor <= 0 || d.FillFactor > 1 {
		return FillFactor
	}
	return d.FillFactor
}

// Envelope is the per-axis maximum over a whole catalog. A load beyond it
// on any axis can never be carried.
type Envelope struct {
	LengthM     float64 `json:"length_m"`
	WidthM      float64 `json:"width_m"`
	HeightM     float64 `json:"height_m"`
	MaxWeightKg float64 `json:"max_weight_kg"`
}

func EnvelopeOf(vehicles []VehicleSpec) Envelope {
	var env Envelope
	for _, v := range vehicles {
		if v.LengthM > env.LengthM {
			env.LengthM = v.LengthM
		}
		if v.WidthM > env.WidthM {
			env.WidthM = v.WidthM
		}
		if v.HeightM > env.HeightM {
			env.HeightM = v.HeightM
		}
		if v.MaxWeightKg > env.MaxWeightKg {
			env.MaxWeightKg = v.MaxWeightKg
		}
	}
	return env
}

// Admit rejects an item whose dimensions or unit weight go over the
// envelope, listing every limit exceeded.
func (env Envelope) Admit(item LoadItem) error {
	var exceeded []Limit
	if item.LengthM > env.LengthM {
		exceeded = append(exceeded, Limit{Constraint: ConstraintLength, Value: item.LengthM, Max: env.LengthM})
	}
	if item.WidthM > env.WidthM {
		exceeded = append(exceeded, Limit{Constraint: ConstraintWidth, Value: item.WidthM, Max: env.WidthM})
	}
	if item.HeightM > env.HeightM {
		exceeded = append(exceeded, Limit{Constraint: ConstraintHeight, Value: item.HeightM, Max: env.HeightM})
	}
	if item.UnitWeightKg > env.MaxWeightKg {
		exceeded = append(exceeded, Limit{Constraint: ConstraintWeight, Value: item.UnitWeightKg, Max: env.MaxWeightKg})
	}
	if len(exceeded) > 0 {
		return &CatalogExceededError{Exceeded: exceeded}
	}
	return nil
}

func sortConstraints(cs []Constraint) {
	for i := 1; i < len(cs); i++ {
		for j := i; j > 0 && cs[j].order() < cs[j-1].order(); j-- {
			cs[j], cs[j-1] = cs[j-1], cs[j]
		}
	}
}
