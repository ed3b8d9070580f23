package collab

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estimaro/estimator/internal/model"
)

func TestMockLabor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		request  string
		hours    string
		category string
	}{
		{"Replace front brake pads, grinding noise", "1.5", "Brakes"},
		{"OIL CHANGE and tire rotation", "0.5", "Maintenance"},
		{"Timing belt due at 100k", "4.5", "Engine"},
		{"Check engine light on", "1", "General"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.request, func(t *testing.T) {
			t.Parallel()
			lt, err := MockLabor{}.GetLaborTime(context.Background(), testVIN, tt.request)
			require.NoError(t, err)
			assert.Equal(t, tt.hours, lt.Hours.String())
			assert.Equal(t, tt.category, lt.Category)
			assert.Equal(t, "mock", lt.Source)
		})
	}
}

func TestMockParts_CollectsEveryMatch(t *testing.T) {
	t.Parallel()

	parts, err := MockParts{}.SearchParts(context.Background(), testVIN, "Oil filter and brake pad service")
	require.NoError(t, err)

	var numbers []string
	for _, p := range parts {
		numbers = append(numbers, p.PartNumber)
	}
	assert.Equal(t, []string{"BRK-PAD-001", "BRK-PAD-002", "OIL-001", "OIL-FLT-001"}, numbers)
}

func TestMockParts_Generic(t *testing.T) {
	t.Parallel()

	parts, err := MockParts{}.SearchParts(context.Background(), testVIN, "Squeak from dashboard")
	require.NoError(t, err)
	require.Len(t, parts, 1)
	assert.Equal(t, "GEN-001", parts[0].PartNumber)
	assert.Equal(t, "Generic Part for: Squeak from dashboard", parts[0].Description)
	assert.Equal(t, "50.00", parts[0].Price.StringFixed(2))
}

func TestMockVendors(t *testing.T) {
	t.Parallel()

	offers, err := MockVendors{}.GetVendorOffers(context.Background(), []string{"BRK-PAD-001", "NOT-IN-CATALOG"})
	require.NoError(t, err)
	require.Len(t, offers, 2)

	assert.Equal(t, "Worldpac", offers[0].VendorName)
	assert.Equal(t, "OEM", offers[0].Brand)
	assert.Equal(t, "76.50", offers[0].Price.StringFixed(2))
	assert.Equal(t, "SSF", offers[1].VendorName)
	assert.Equal(t, "Bosch", offers[1].Brand)
	assert.Equal(t, "68.00", offers[1].Price.StringFixed(2))
	for _, o := range offers {
		assert.Equal(t, "BRK-PAD-001", o.PartNumber)
	}
}

func TestMockDecoder(t *testing.T) {
	t.Parallel()

	v, err := MockDecoder{}.DecodeVIN(context.Background(), "1hgcm82633a004352")
	require.NoError(t, err)
	assert.Equal(t, "1HGCM82633A004352", v.VIN)
	assert.Equal(t, "HONDA", v.Make)
	assert.Equal(t, 2003, v.Year)

	v, err = MockDecoder{}.DecodeVIN(context.Background(), "ZZZCM826XPA004352")
	require.NoError(t, err)
	assert.Equal(t, "UNKNOWN", v.Make)
	assert.Equal(t, 2023, v.Year)

	_, err = MockDecoder{}.DecodeVIN(context.Background(), "123")
	assert.ErrorIs(t, err, model.ErrInvalidVIN)
}

func TestMockRecalls(t *testing.T) {
	t.Parallel()

	recalls, err := MockRecalls{}.FetchRecallsByVIN(context.Background(), testVIN)
	require.NoError(t, err)
	assert.NotNil(t, recalls)
	assert.Empty(t, recalls)
}
