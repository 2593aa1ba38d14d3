package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// FillFactor is the share of a vehicle's geometric volume that real cargo
// can occupy.
const FillFactor = 0.90

type LoadItem struct {
	LengthM      float64 `json:"length_m" yaml:"length_m"`
	WidthM       float64 `json:"width_m" yaml:"width_m"`
	HeightM      float64 `json:"height_m" yaml:"height_m"`
	UnitWeightKg float64 `json:"unit_weight_kg" yaml:"unit_weight_kg"`
	Quantity     int     `json:"quantity" yaml:"quantity"`
}

// NewLoadItem builds an item from already parsed values.
func NewLoadItem(length, width, height, unitWeight float64, quantity int) (LoadItem, error) {
	item := LoadItem{
		LengthM:      length,
		WidthM:       width,
		HeightM:      height,
		UnitWeightKg: unitWeight,
		Quantity:     quantity,
	}
	if err := item.Validate(); err != nil {
		return LoadItem{}, err
	}
	return item, nil
}

func (l LoadItem) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{FieldLength, l.LengthM},
		{FieldWidth, l.WidthM},
		{FieldHeight, l.HeightM},
		{FieldWeight, l.UnitWeightKg},
	}
	for _, f := range fields {
		if !positiveFinite(f.value) {
			return &InvalidNumberError{Field: f.name, Value: fmt.Sprint(f.value), Reason: "must be a positive number"}
		}
	}
	if l.Quantity < 1 {
		return &InvalidQuantityError{Value: fmt.Sprint(l.Quantity), Reason: "must be at least 1"}
	}
	return nil
}

func (l LoadItem) UnitVolumeM3() float64 {
	return l.LengthM * l.WidthM * l.HeightM
}

func (l LoadItem) TotalWeightKg() float64 {
	return l.UnitWeightKg * float64(l.Quantity)
}

func (l LoadItem) TotalVolumeM3() float64 {
	return l.UnitVolumeM3() * float64(l.Quantity)
}

// LoadSet is the ordered list of loads a session has entered so far.
type LoadSet struct {
	Items []LoadItem `json:"items"`
}

func (s *LoadSet) Add(items ...LoadItem) {
	s.Items = append(s.Items, items...)
}

func (s *LoadSet) Remove(index int) error {
	if index < 0 || index >= len(s.Items) {
		return fmt.Errorf("load index %d out of range (have %d loads)", index, len(s.Items))
	}
	s.Items = append(s.Items[:index], s.Items[index+1:]...)
	return nil
}

func (s *LoadSet) Clear() {
	s.Items = nil
}

func (s LoadSet) Len() int {
	return len(s.Items)
}

// Snapshot returns a copy the caller may keep while the set keeps changing.
func (s LoadSet) Snapshot() []LoadItem {
	out := make([]LoadItem, len(s.Items))
	copy(out, s.Items)
	return out
}

type Totals struct {
	Quantity   int     `json:"quantity"`
	WeightKg   float64 `json:"weight_kg"`
	VolumeM3   float64 `json:"volume_m3"`
	MaxLengthM float64 `json:"max_length_m"`
	MaxWidthM  float64 `json:"max_width_m"`
	MaxHeightM float64 `json:"max_height_m"`
}

func ComputeTotals(items []LoadItem) Totals {
	var t Totals
	for _, item := range items {
		t.Quantity += item.Quantity
		t.WeightKg += item.TotalWeightKg()
		t.VolumeM3 += item.TotalVolumeM3()
		t.MaxLengthM = math.Max(t.MaxLengthM, item.LengthM)
		t.MaxWidthM = math.Max(t.MaxWidthM, item.WidthM)
		t.MaxHeightM = math.Max(t.MaxHeightM, item.HeightM)
	}
	return t
}

// PerUnitVolumeM3 averages volume over every unit entered. With mixed load
// types this is an approximation, not a packing count.
func (t Totals) PerUnitVolumeM3() float64 {
	if t.Quantity == 0 {
		return 0
	}
	return t.VolumeM3 / float64(t.Quantity)
}

func (t Totals) PerUnitWeightKg() float64 {
	if t.Quantity == 0 {
		return 0
	}
	return t.WeightKg / float64(t.Quantity)
}

type VehicleSpec struct {
	Name        string  `json:"name" yaml:"name"`
	Category    string  `json:"category,omitempty" yaml:"category,omitempty"`
	LengthM     float64 `json:"length_m" yaml:"length_m"`
	WidthM      float64 `json:"width_m" yaml:"width_m"`
	HeightM     float64 `json:"height_m" yaml:"height_m"`
	MaxWeightKg float64 `json:"max_weight_kg" yaml:"max_weight_kg"`
}

func (v VehicleSpec) CubicCapacityM3() float64 {
	return v.LengthM * v.WidthM * v.HeightM
}

func (v VehicleSpec) UsableCapacityM3() float64 {
	return v.CubicCapacityM3() * FillFactor
}

func (v VehicleSpec) Validate() error {
	if strings.TrimSpace(v.Name) == "" {
		return fmt.Errorf("vehicle name is required")
	}
	if !positiveFinite(v.LengthM) || !positiveFinite(v.WidthM) || !positiveFinite(v.HeightM) {
		return fmt.Errorf("vehicle %q: dimensions must be positive", v.Name)
	}
	if !positiveFinite(v.MaxWeightKg) {
		return fmt.Errorf("vehicle %q: max_weight_kg must be positive", v.Name)
	}
	return nil
}

type FeasibilityResult struct {
	Vehicle              string  `json:"vehicle"`
	Category             string  `json:"category,omitempty"`
	LengthM              float64 `json:"length_m"`
	WidthM               float64 `json:"width_m"`
	HeightM              float64 `json:"height_m"`
	CubicCapacityM3      float64 `json:"cubic_capacity_m3"`
	MaxWeightKg          float64 `json:"max_weight_kg"`
	TotalQuantity        int     `json:"total_quantity"`
	UnitsThatFit         int     `json:"units_that_fit"`
	TotalWeightKg        float64 `json:"total_weight_kg"`
	TotalVolumeM3        float64 `json:"total_volume_m3"`
	VolumeUtilizationPct float64 `json:"volume_utilization_percent"`
	WeightUtilizationPct float64 `json:"weight_utilization_percent"`
	SpareWeightKg        float64 `json:"spare_weight_kg"`
	SpareVolumeM3        float64 `json:"spare_volume_m3"`
	Viability            float64 `json:"viability"`
	Recommended          bool    `json:"recommended"`
	CarriesAll           bool    `json:"carries_all"`
	Note                 string  `json:"note"`
}

const (
	NoteCarriesAll    = "carries the whole load"
	NoteNeedsMoreTrip = "needs more trips"
)

type Evaluation struct {
	Loads         []LoadItem          `json:"loads"`
	Totals        Totals              `json:"totals"`
	Results       []FeasibilityResult `json:"results"`
	Rejections    []Rejection         `json:"rejections,omitempty"`
	Filter        []string            `json:"filter,omitempty"`
	ComputedAt    time.Time           `json:"computed_at"`
	ComputeTimeMs int64               `json:"compute_time_ms"`
}

func (e *Evaluation) Recommended() (FeasibilityResult, bool) {
	if e == nil || len(e.Results) == 0 {
		return FeasibilityResult{}, false
	}
	return e.Results[0], true
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
