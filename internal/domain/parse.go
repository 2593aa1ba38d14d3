package domain

import (
	"errors"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Converting a decimal to float64 builds 10^|exponent| as a big.Int, so the
// text length and the exponent are bounded before conversion. Metres and
// kilograms of real cargo sit far inside both limits.
const (
	maxMeasureLength   = 32
	maxMeasureExponent = 30
)

// ParseMeasure reads a user-typed number. Both "1.5" and "1,5" are
// accepted; the result must be strictly positive.
func ParseMeasure(field, text string) (float64, error) {
	raw := strings.TrimSpace(text)
	if raw == "" {
		return 0, &InvalidNumberError{Field: field, Value: text, Reason: "field is empty"}
	}
	if len(raw) > maxMeasureLength {
		return 0, &InvalidNumberError{Field: field, Value: text, Reason: "too many digits"}
	}
	normalized := strings.ReplaceAll(raw, ",", ".")
	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return 0, &InvalidNumberError{Field: field, Value: text, Reason: "not a number"}
	}
	if !d.IsPositive() {
		return 0, &InvalidNumberError{Field: field, Value: text, Reason: "must be greater than zero"}
	}
	if exp := d.Exponent(); exp < -maxMeasureExponent || exp > maxMeasureExponent {
		return 0, &InvalidNumberError{Field: field, Value: text, Reason: "out of range"}
	}
	v := d.InexactFloat64()
	if !positiveFinite(v) {
		return 0, &InvalidNumberError{Field: field, Value: text, Reason: "out of range"}
	}
	return v, nil
}

func ParseQuantity(text string) (int, error) {
	raw := strings.TrimSpace(text)
	if raw == "" {
		return 0, &InvalidQuantityError{Value: text, Reason: "field is empty"}
	}
	qty, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &InvalidQuantityError{Value: text, Reason: "must be a whole number"}
	}
	if qty < 1 {
		return 0, &InvalidQuantityError{Value: text, Reason: "must be at least 1"}
	}
	return qty, nil
}

// ParseLoad validates every field and reports all failures together.
func ParseLoad(length, width, height, weight, quantity string) (LoadItem, error) {
	var errs []error
	measure := func(field, text string) float64 {
		v, err := ParseMeasure(field, text)
		if err != nil {
			errs = append(errs, err)
		}
		return v
	}

	item := LoadItem{
		LengthM:      measure(FieldLength, length),
		WidthM:       measure(FieldWidth, width),
		HeightM:      measure(FieldHeight, height),
		UnitWeightKg: measure(FieldWeight, weight),
	}
	qty, err := ParseQuantity(quantity)
	if err != nil {
		errs = append(errs, err)
	}
	item.Quantity = qty

	if len(errs) > 0 {
		return LoadItem{}, errors.Join(errs...)
	}
	if err := item.Validate(); err != nil {
		return LoadItem{}, err
	}
	return item, nil
}
