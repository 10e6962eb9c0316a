package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCoordinates_Valid(t *testing.T) {
	tests := []struct {
		name    string
		lat     any
		lon     any
		wantLat float64
		wantLon float64
	}{
		{"numbers", 40.7128, -74.0060, 40.7128, -74.0060},
		{"strings", "40.7128", "-74.0060", 40.7128, -74.0060},
		{"padded strings", " 51.5 ", " -0.12 ", 51.5, -0.12},
		{"lat bounds", "90", "-180", 90, -180},
		{"lon bounds", "-90", "180", -90, 180},
		{"string zero is present", "0", "0", 0, 0},
		{"integer", 10, 20, 10, 20},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ValidateCoordinates(tc.lat, tc.lon)
			require.NoError(t, err)
			assert.Equal(t, tc.wantLat, got.Latitude)
			assert.Equal(t, tc.wantLon, got.Longitude)
		})
	}
}

func TestValidateCoordinates_Required(t *testing.T) {
	tests := []struct {
		name string
		lat  any
		lon  any
	}{
		{"both nil", nil, nil},
		{"lat missing", "", "10"},
		{"lon missing", "10", ""},
		{"whitespace", "  ", "10"},
		{"false", false, "10"},
		// Numeric zero counts as missing; query strings never hit this.
		{"numeric zero pair", 0, 0},
		{"float zero lat", 0.0, 12.5},
		{"float zero lon", 12.5, 0.0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ValidateCoordinates(tc.lat, tc.lon)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrRequired), "error = %v, want ErrRequired", err)

			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, KindRequired, vErr.Kind)
		})
	}
}

func TestValidateCoordinates_Format(t *testing.T) {
	tests := []struct {
		name string
		lat  any
		lon  any
	}{
		{"letters", "abc", 0.5},
		{"letters with string zero", "abc", "0"},
		{"trailing garbage", "12abc", "1"},
		{"NaN", "NaN", "1"},
		{"infinity", "1", "Inf"},
		{"overflow", "1e400", "1"},
		{"unsupported type", []int{1}, "1"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ValidateCoordinates(tc.lat, tc.lon)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrFormat), "error = %v, want ErrFormat", err)
			assert.Equal(t, "Invalid coordinates format", err.Error())
		})
	}
}

func TestValidateCoordinates_Range(t *testing.T) {
	tests := []struct {
		name    string
		lat     any
		lon     any
		wantErr error
	}{
		{"lat too high", 91, 0.5, ErrLatitude},
		{"lat too low", "-90.0001", "0", ErrLatitude},
		{"lon too high", "0", "180.5", ErrLongitude},
		{"lon too low", 45, -181, ErrLongitude},
		{"lat checked first", 100, 200, ErrLatitude},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ValidateCoordinates(tc.lat, tc.lon)
			require.Error(t, err)
			assert.Same(t, tc.wantErr, err)

			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, KindRange, vErr.Kind)
		})
	}
}

// TestValidateCoordinates_DocumentedExamples pins the documented examples, including numeric (0, 0).
func TestValidateCoordinates_DocumentedExamples(t *testing.T) {
	_, err := ValidateCoordinates(40.7128, -74.0060)
	assert.NoError(t, err)

	// Query values arrive as strings, where "0" is present.
	_, err = ValidateCoordinates("91", "0")
	assert.ErrorIs(t, err, ErrLatitude)

	// A numeric zero is treated as missing, so presence fails before range.
	_, err = ValidateCoordinates(91, 0)
	assert.ErrorIs(t, err, ErrRequired)

	_, err = ValidateCoordinates("abc", "0")
	assert.ErrorIs(t, err, ErrFormat)

	_, err = ValidateCoordinates(0, 0)
	assert.ErrorIs(t, err, ErrRequired)
}

func TestValidationError_IsMatchesKind(t *testing.T) {
	err := &ValidationError{Kind: KindRange, Message: "custom"}
	assert.True(t, errors.Is(err, ErrLatitude))
	assert.True(t, errors.Is(err, ErrLongitude))
	assert.False(t, errors.Is(err, ErrFormat))
}
