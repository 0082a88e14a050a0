package stations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundingBox_Validate(t *testing.T) {
	tests := []struct {
		name        string
		box         BoundingBox
		expectError bool
	}{
		{name: "regular box", box: munich},
		{
			name: "wraps antimeridian",
			box: BoundingBox{
				NorthEast: Coordinate{Latitude: -16, Longitude: -179},
				SouthWest: Coordinate{Latitude: -18, Longitude: 179},
			},
		},
		{
			name:        "zero height",
			box:         BoundingBox{NorthEast: Coordinate{Latitude: 48, Longitude: 11.7}, SouthWest: Coordinate{Latitude: 48, Longitude: 11.5}},
			expectError: true,
		},
		{
			name:        "zero width",
			box:         BoundingBox{NorthEast: Coordinate{Latitude: 48, Longitude: 11.5}, SouthWest: Coordinate{Latitude: 47, Longitude: 11.5}},
			expectError: true,
		},
		{
			name:        "north below south",
			box:         BoundingBox{NorthEast: Coordinate{Latitude: 47, Longitude: 11.7}, SouthWest: Coordinate{Latitude: 48, Longitude: 11.5}},
			expectError: true,
		},
		{
			name:        "latitude out of range",
			box:         BoundingBox{NorthEast: Coordinate{Latitude: 91, Longitude: 11.7}, SouthWest: Coordinate{Latitude: 48, Longitude: 11.5}},
			expectError: true,
		},
		{
			name:        "longitude out of range",
			box:         BoundingBox{NorthEast: Coordinate{Latitude: 49, Longitude: 181}, SouthWest: Coordinate{Latitude: 48, Longitude: 11.5}},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.box.Validate()
			if tt.expectError {
				assert.ErrorIs(t, err, ErrInvalidBounds)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBoundingBox_Split(t *testing.T) {
	assert.Equal(t, []BoundingBox{munich}, munich.Split())

	wrapping := BoundingBox{
		NorthEast: Coordinate{Latitude: -16, Longitude: -179},
		SouthWest: Coordinate{Latitude: -18, Longitude: 179},
	}
	require.True(t, wrapping.CrossesAntimeridian())
	parts := wrapping.Split()
	require.Len(t, parts, 2)
	assert.Equal(t, Coordinate{Latitude: -16, Longitude: 180}, parts[0].NorthEast)
	assert.Equal(t, Coordinate{Latitude: -18, Longitude: 179}, parts[0].SouthWest)
	assert.Equal(t, Coordinate{Latitude: -16, Longitude: -179}, parts[1].NorthEast)
	assert.Equal(t, Coordinate{Latitude: -18, Longitude: -180}, parts[1].SouthWest)
	for _, p := range parts {
		assert.NoError(t, p.Validate())
		assert.False(t, p.CrossesAntimeridian())
	}
}

func TestBoundingBox_Contains(t *testing.T) {
	assert.True(t, munich.Contains(Coordinate{Latitude: 47.95, Longitude: 11.6}))
	assert.False(t, munich.Contains(Coordinate{Latitude: 47.0, Longitude: 11.0}))

	wrapping := BoundingBox{
		NorthEast: Coordinate{Latitude: -16, Longitude: -179},
		SouthWest: Coordinate{Latitude: -18, Longitude: 179},
	}
	assert.True(t, wrapping.Contains(Coordinate{Latitude: -17, Longitude: 179.5}))
	assert.True(t, wrapping.Contains(Coordinate{Latitude: -17, Longitude: -179.5}))
	assert.False(t, wrapping.Contains(Coordinate{Latitude: -17, Longitude: 0}))
}

func TestParseAdapter(t *testing.T) {
	a, err := ParseAdapter("going_electric")
	require.NoError(t, err)
	assert.Equal(t, AdapterPrimary, a)

	a, err = ParseAdapter("chargeprice")
	require.NoError(t, err)
	assert.Equal(t, AdapterCommunity, a)

	_, err = ParseAdapter("open_charge_map")
	assert.ErrorIs(t, err, ErrUnknownAdapter)
}

func TestChargePointDescriptor_Matches(t *testing.T) {
	d := ChargePointDescriptor{Power: 50, Plug: "CCS"}
	assert.True(t, d.Matches(50, "CCS"))
	assert.False(t, d.Matches(50, "ccs"))
	assert.False(t, d.Matches(49.9, "CCS"))
	assert.Equal(t, d, ChargePoint{ID: "x", Power: 50, Plug: "CCS", Energy: 3}.Descriptor())
}

func TestNewLiteStation(t *testing.T) {
	s := NewLiteStation("123", AdapterPrimary)
	assert.True(t, s.Lite)
	assert.Equal(t, "123", s.ID)
	assert.Equal(t, AdapterPrimary, s.Adapter)
	assert.NotNil(t, s.ChargePoints)
	assert.Empty(t, s.ChargePoints)
}

func TestParseCoordinate(t *testing.T) {
	c, err := ParseCoordinate("48.137, 11.575")
	require.NoError(t, err)
	assert.Equal(t, Coordinate{Latitude: 48.137, Longitude: 11.575}, c)

	for _, in := range []string{"", "48.1", "north,11", "48,east", "95,11"} {
		_, err := ParseCoordinate(in)
		assert.ErrorIs(t, err, ErrInvalidBounds, in)
	}
}
