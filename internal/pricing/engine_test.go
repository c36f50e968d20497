package pricing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testFees = FeeStructure{
	ShippingFlatUSD:        20,
	ShippingPercent:        0.035,
	ServiceFeeFixedUSD:     30,
	ServiceFeePercentLarge: 0.045,
	ThresholdUSD:           750,
	KESPerUSD:              135,
}

func newTestEngine(t *testing.T, fees FeeStructure) *Engine {
	t.Helper()
	e, err := NewEngine(fees)
	require.NoError(t, err)
	return e
}

func TestQuote_SmallOrderUsesFixedServiceFee(t *testing.T) {
	e := newTestEngine(t, testFees)

	// $500 item: shipping 20 + 17.50, fixed service fee 30,
	// total $567.50 -> ceil(567.5 * 135) = 76613 KES.
	q := e.Quote(500)

	assert.True(t, q.Available)
	assert.InDelta(t, 37.5, q.ShippingUSD, 1e-9)
	assert.InDelta(t, 30, q.ServiceFeeUSD, 1e-9)
	assert.InDelta(t, 567.5, q.TotalUSD, 1e-9)
	assert.Equal(t, int64(76613), q.TotalKES)
}

func TestQuote_LargeOrderUsesPercentServiceFee(t *testing.T) {
	e := newTestEngine(t, testFees)

	// $800 item: shipping 20 + 28, service 800*0.045 = 36,
	// total $884 -> ceil(884 * 135) = 119340 KES.
	q := e.Quote(800)

	assert.InDelta(t, 48, q.ShippingUSD, 1e-9)
	assert.InDelta(t, 36, q.ServiceFeeUSD, 1e-9)
	assert.InDelta(t, 884, q.TotalUSD, 1e-9)
	assert.Equal(t, int64(119340), q.TotalKES)
}

func TestQuote_ThresholdBoundaryIsInclusive(t *testing.T) {
	e := newTestEngine(t, testFees)

	q := e.Quote(testFees.ThresholdUSD)
	assert.InDelta(t, testFees.ServiceFeeFixedUSD, q.ServiceFeeUSD, 1e-9,
		"price exactly at the threshold must pay the fixed fee")

	above := e.Quote(testFees.ThresholdUSD + 0.01)
	assert.Greater(t, above.ServiceFeeUSD, testFees.ServiceFeeFixedUSD)
}

func TestQuote_NoPriceYieldsZeroSentinel(t *testing.T) {
	e := newTestEngine(t, testFees)

	for _, p := range []float64{0, -1, -999.99, math.NaN(), math.Inf(1), math.Inf(-1)} {
		q := e.Quote(p)
		assert.False(t, q.Available, "price %v", p)
		assert.Equal(t, int64(0), q.TotalKES, "price %v", p)
		assert.Equal(t, int64(0), e.ComputeLandedCost(p), "price %v", p)
	}
}

func TestComputeLandedCost_Monotonic(t *testing.T) {
	e := newTestEngine(t, testFees)

	prices := []float64{0.01, 1, 50, 499.99, 500, 749.99, 750, 750.01, 800, 5000, 1e6}
	prev := int64(0)
	for _, p := range prices {
		got := e.ComputeLandedCost(p)
		assert.GreaterOrEqual(t, got, prev, "price %v", p)
		prev = got
	}
}

func TestComputeLandedCost_AlwaysWholeShillings(t *testing.T) {
	e := newTestEngine(t, testFees)

	// Awkward fractions that produce non-integral USD totals.
	for _, p := range []float64{0.07, 1.113, 33.333, 749.995, 750.005, 12345.678} {
		kes := e.ComputeLandedCost(p)
		usd := e.Quote(p).TotalUSD
		assert.GreaterOrEqual(t, float64(kes), usd*testFees.KESPerUSD, "price %v rounds up", p)
		assert.Less(t, float64(kes)-usd*testFees.KESPerUSD, 1.0, "price %v rounds by less than one shilling", p)
	}
}

func TestQuote_HandlingFeeVariant(t *testing.T) {
	fees := testFees
	fees.HandlingFeeUSD = 10
	e := newTestEngine(t, fees)

	with := e.Quote(500)
	without := newTestEngine(t, testFees).Quote(500)

	assert.InDelta(t, 10, with.HandlingFeeUSD, 1e-9)
	assert.InDelta(t, without.TotalUSD+10, with.TotalUSD, 1e-9)
	// Handling fee is flat: added once, undiscounted, regardless of tier.
	assert.InDelta(t, without.ServiceFeeUSD, with.ServiceFeeUSD, 1e-9)
}

func TestNewEngine_RejectsMalformedFees(t *testing.T) {
	cases := map[string]func(*FeeStructure){
		"zero rate":          func(f *FeeStructure) { f.KESPerUSD = 0 },
		"negative rate":      func(f *FeeStructure) { f.KESPerUSD = -1 },
		"zero threshold":     func(f *FeeStructure) { f.ThresholdUSD = 0 },
		"negative flat fee":  func(f *FeeStructure) { f.ShippingFlatUSD = -5 },
		"negative percent":   func(f *FeeStructure) { f.ServiceFeePercentLarge = -0.01 },
		"negative handling":  func(f *FeeStructure) { f.HandlingFeeUSD = -1 },
		"negative fixed fee": func(f *FeeStructure) { f.ServiceFeeFixedUSD = -1 },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			fees := testFees
			mutate(&fees)
			_, err := NewEngine(fees)
			require.ErrorIs(t, err, ErrInvalidFeeStructure)
		})
	}
}

func TestDefaultFees_Valid(t *testing.T) {
	require.NoError(t, DefaultFees.Validate())
}
