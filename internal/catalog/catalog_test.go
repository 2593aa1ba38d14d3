package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"vehicle-fit/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	assert.Equal(t, 22, c.Len())
	assert.Equal(t, domain.Envelope{LengthM: 18.15, WidthM: 2.6, HeightM: 2.9, MaxWeightKg: 74000}, c.Envelope())

	vehicles := c.Vehicles()
	assert.Equal(t, "Fiorino", vehicles[0].Name)
	vehicles[0].Name = "changed"
	assert.Equal(t, "Fiorino", c.Vehicles()[0].Name, "Vehicles returns a copy")

	names := c.Names()
	assert.Len(t, names, 22)
	assert.IsNonDecreasing(t, names)
}

func TestNewRejectsBadEntries(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)

	_, err = New([]domain.VehicleSpec{
		{Name: "Van", LengthM: 2, WidthM: 1, HeightM: 1, MaxWeightKg: 500},
		{Name: " van ", LengthM: 3, WidthM: 1, HeightM: 1, MaxWeightKg: 500},
	})
	assert.ErrorContains(t, err, "duplicate vehicle name")

	_, err = New([]domain.VehicleSpec{{Name: "Broken", LengthM: 2, WidthM: 1, HeightM: 1}})
	assert.ErrorContains(t, err, "vehicles[0]")
}

func TestParseYAML(t *testing.T) {
	data := []byte(`
vehicles:
  - name: Van
    category: Light
    length_m: 2.5
    width_m: 1.5
    height_m: 1.4
    max_weight_kg: 900
  - name: Truck
    length_m: 8
    width_m: 2.4
    height_m: 2.8
    max_weight_kg: 12000
`)

	c, err := Parse(data)
	require.NoError(t, err)
	require.Equal(t, 2, c.Len())
	assert.Equal(t, domain.VehicleSpec{Name: "Van", Category: "Light", LengthM: 2.5, WidthM: 1.5, HeightM: 1.4, MaxWeightKg: 900}, c.Vehicles()[0])

	err = c.Admit(domain.LoadItem{LengthM: 9, WidthM: 1, HeightM: 1, UnitWeightKg: 1, Quantity: 1})
	var exceeded *domain.CatalogExceededError
	assert.ErrorAs(t, err, &exceeded)

	_, err = Parse([]byte("vehicles: [oops"))
	assert.ErrorContains(t, err, "parse catalog")
}

func TestLoadRoundTripsThroughFile(t *testing.T) {
	data, err := Default().Marshal()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default().Vehicles(), c.Vehicles())

	def, err := Load("  ")
	require.NoError(t, err)
	assert.Equal(t, 22, def.Len())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
