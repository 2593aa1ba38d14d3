package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// FieldText holds a form value exactly as typed. JSON strings and JSON
// numbers are both accepted so clients may send either.
type FieldText string

func (f *FieldText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FieldText(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected a string or a number, got %s", data)
	}
	*f = FieldText(n.String())
	return nil
}

type LoadInput struct {
	Length   FieldText `json:"length"`
	Width    FieldText `json:"width"`
	Height   FieldText `json:"height"`
	Weight   FieldText `json:"weight"`
	Quantity FieldText `json:"quantity"`
}

func (in LoadInput) ToDomain() (LoadItem, error) {
	qty := strings.TrimSpace(string(in.Quantity))
	if qty == "" {
		qty = "1"
	}
	return ParseLoad(string(in.Length), string(in.Width), string(in.Height), string(in.Weight), qty)
}

type ComputeRequest struct {
	Loads    []LoadInput `json:"loads,omitempty"`
	Vehicles []string    `json:"vehicles,omitempty"`
}

func (r *ComputeRequest) Validate() error {
	if len(r.Loads) > 500 {
		return fmt.Errorf("loads list cannot exceed 500 items (got %d)", len(r.Loads))
	}
	if len(r.Vehicles) > 100 {
		return fmt.Errorf("vehicle filter cannot exceed 100 names (got %d)", len(r.Vehicles))
	}
	return nil
}

// ToDomain parses every load, prefixing each failure with its position.
func (r *ComputeRequest) ToDomain() ([]LoadItem, error) {
	items := make([]LoadItem, 0, len(r.Loads))
	for i, in := range r.Loads {
		item, err := in.ToDomain()
		if err != nil {
			return nil, fmt.Errorf("loads[%d]: %w", i, err)
		}
		items = append(items, item)
	}
	return items, nil
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Fields  []string     `json:"fields,omitempty"`
	Reasons []Constraint `json:"reasons,omitempty"`
	Details any          `json:"details,omitempty"`
}
