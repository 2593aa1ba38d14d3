package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

const (
	FieldLength   = "length"
	FieldWidth    = "width"
	FieldHeight   = "height"
	FieldWeight   = "weight"
	FieldQuantity = "quantity"
)

var ErrNoLoads = errors.New("no loads to evaluate: add at least one load first")

// InvalidNumberError reports a measurement field that is empty, not a
// number, or not strictly positive.
type InvalidNumberError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidNumberError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

type InvalidQuantityError struct {
	Value  string
	Reason string
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("invalid quantity %q: %s", e.Value, e.Reason)
}

// InvalidFields lists the input fields named by the validation errors
// joined into err.
func InvalidFields(err error) []string {
	var fields []string
	var walk func(error)
	walk = func(err error) {
		if err == nil {
			return
		}
		switch e := err.(type) {
		case *InvalidNumberError:
			fields = append(fields, e.Field)
		case *InvalidQuantityError:
			fields = append(fields, FieldQuantity)
		case interface{ Unwrap() []error }:
			for _, inner := range e.Unwrap() {
				walk(inner)
			}
		default:
			walk(errors.Unwrap(err))
		}
	}
	walk(err)
	return fields
}

// Limit is one catalog-wide maximum a load went over.
type Limit struct {
	Constraint Constraint `json:"constraint"`
	Value      float64    `json:"value"`
	Max        float64    `json:"max"`
}

// CatalogExceededError means no vehicle in the catalog could ever take the
// load, whatever else is loaded with it.
type CatalogExceededError struct {
	Exceeded []Limit
}

func (e *CatalogExceededError) Error() string {
	parts := make([]string, len(e.Exceeded))
	for i, l := range e.Exceeded {
		parts[i] = fmt.Sprintf("%s %.3f exceeds the largest vehicle (%.3f)", l.Constraint, l.Value, l.Max)
	}
	return "load does not fit any vehicle: " + strings.Join(parts, "; ")
}

type UnknownVehicleError struct {
	Names []string
}

func (e *UnknownVehicleError) Error() string {
	return fmt.Sprintf("unknown vehicle(s) in filter: %s", strings.Join(e.Names, ", "))
}

// NoFeasibleVehicleError is returned when a compute ran and every candidate
// vehicle was rejected. Filtered tells whether the candidates were a user
// selection or the whole catalog.
type NoFeasibleVehicleError struct {
	Filtered   bool
	Rejections []Rejection
}

func (e *NoFeasibleVehicleError) Error() string {
	scope := "no vehicle in the catalog"
	if e.Filtered {
		scope = "none of the selected vehicles"
	}
	summary := e.Summary()
	if len(summary) == 0 {
		return scope + " can carry the loads"
	}
	parts := make([]string, 0, len(summary))
	for _, c := range AllConstraints {
		if n, ok := summary[c]; ok {
			parts = append(parts, fmt.Sprintf("%s exceeded on %d vehicle(s)", c, n))
		}
	}
	return fmt.Sprintf("%s can carry the loads: %s", scope, strings.Join(parts, ", "))
}

// Summary counts rejected vehicles per failed constraint.
func (e *NoFeasibleVehicleError) Summary() map[Constraint]int {
	out := make(map[Constraint]int)
	for _, r := range e.Rejections {
		for _, c := range r.Reasons {
			out[c]++
		}
	}
	return out
}

// Constraints lists the distinct failed constraints in a stable order.
func (e *NoFeasibleVehicleError) Constraints() []Constraint {
	summary := e.Summary()
	out := make([]Constraint, 0, len(summary))
	for c := range summary {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].order() < out[j].order() })
	return out
}
