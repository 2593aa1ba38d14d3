// Package report turns an evaluation into the two tables users download:
// the ranked feasible vehicles and the loads they were computed from.
package report

import (
	"errors"
	"fmt"

	"vehicle-fit/internal/domain"

	"github.com/shopspring/decimal"
)

const (
	SheetVehicles = "Feasible Vehicles"
	SheetLoads    = "Loads"
)

var ErrEmptyEvaluation = errors.New("nothing to export: evaluation has no results")

type RowMark int

const (
	MarkNone RowMark = iota
	MarkRecommended
	// MarkInsufficient wins over MarkRecommended: a row that cannot take
	// the whole load in one trip is always flagged.
	MarkInsufficient
)

type Table struct {
	Name   string
	Header []string
	Rows   [][]any
	Marks  []RowMark
}

func VehicleTable(eval *domain.Evaluation) Table {
	t := Table{
		Name: SheetVehicles,
		Header: []string{
			"Rank", "Vehicle", "Category", "L x W x H (m) | Max (kg)", "Cubic capacity (m³)",
			"Max weight (kg)", "Total quantity", "Units that fit", "Total weight (kg)",
			"Total volume (m³)", "Volume use (%)", "Weight use (%)", "Spare weight (kg)",
			"Spare volume (m³)", "Viability (%)", "Recommended", "Note",
		},
	}
	for i, r := range eval.Results {
		recommended := ""
		mark := MarkNone
		if r.Recommended {
			recommended = "yes"
			mark = MarkRecommended
		}
		if r.UnitsThatFit < r.TotalQuantity {
			mark = MarkInsufficient
		}
		t.Rows = append(t.Rows, []any{
			i + 1,
			r.Vehicle,
			r.Category,
			fmt.Sprintf("%gm x %gm x %gm | %gkg", r.LengthM, r.WidthM, r.HeightM, r.MaxWeightKg),
			r.CubicCapacityM3,
			r.MaxWeightKg,
			r.TotalQuantity,
			r.UnitsThatFit,
			round3(r.TotalWeightKg),
			round3(r.TotalVolumeM3),
			r.VolumeUtilizationPct,
			r.WeightUtilizationPct,
			r.SpareWeightKg,
			r.SpareVolumeM3,
			r.Viability,
			recommended,
			r.Note,
		})
		t.Marks = append(t.Marks, mark)
	}
	return t
}

func LoadTable(loads []domain.LoadItem) Table {
	t := Table{
		Name: SheetLoads,
		Header: []string{
			"#", "Length (m)", "Width (m)", "Height (m)", "Unit weight (kg)",
			"Quantity", "Total weight (kg)", "Total volume (m³)",
		},
	}
	for i, l := range loads {
		t.Rows = append(t.Rows, []any{
			i + 1,
			l.LengthM,
			l.WidthM,
			l.HeightM,
			l.UnitWeightKg,
			l.Quantity,
			round3(l.TotalWeightKg()),
			round3(l.TotalVolumeM3()),
		})
		t.Marks = append(t.Marks, MarkNone)
	}
	return t
}

// Tables returns the vehicles table followed by the loads table.
func Tables(eval *domain.Evaluation) ([]Table, error) {
	if eval == nil || len(eval.Results) == 0 {
		return nil, ErrEmptyEvaluation
	}
	return []Table{VehicleTable(eval), LoadTable(eval.Loads)}, nil
}

func round3(v float64) float64 {
	return decimal.NewFromFloat(v).Round(3).InexactFloat64()
}
