package maintenance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemainingKilometers(t *testing.T) {
	testCases := []struct {
		name     string
		current  float64
		interval float64
		expected float64
	}{
		{name: "mid interval", current: 1000, interval: 6000, expected: 5000},
		{name: "approaching boundary", current: 5900, interval: 6000, expected: 100},
		{name: "exactly on boundary", current: 6000, interval: 6000, expected: 0},
		{name: "past first boundary", current: 6100, interval: 6000, expected: 5900},
		{name: "engine interval", current: 2950, interval: 3000, expected: 50},
		{name: "zero interval guarded", current: 500, interval: 0, expected: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.expected, RemainingKilometers(tc.current, tc.interval), 0.0001)
		})
	}
}

func TestUrgencyTiers(t *testing.T) {
	testCases := []struct {
		name      string
		remaining float64
		expected  Urgency
	}{
		{name: "plenty left", remaining: 5000, expected: UrgencyOK},
		{name: "just above window", remaining: 201, expected: UrgencyOK},
		{name: "at window", remaining: 200, expected: UrgencyWarning},
		{name: "inside window", remaining: 100, expected: UrgencyWarning},
		{name: "due now", remaining: 0, expected: UrgencyCritical},
		{name: "overdue", remaining: -50, expected: UrgencyCritical},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, UrgencyForRemaining(tc.remaining))
		})
	}
}

func TestUrgencyForCycleInterval(t *testing.T) {
	// 5900 of 6000 leaves 100, inside the 200 km window.
	assert.Equal(t, UrgencyWarning, UrgencyFor(5900, CycleServiceIntervalKm))
	// Exactly 6000 means service due now.
	assert.Equal(t, UrgencyCritical, UrgencyFor(6000, CycleServiceIntervalKm))
}

func TestUrgencyForIsPure(t *testing.T) {
	first := UrgencyFor(5900, CycleServiceIntervalKm)
	for range 100 {
		assert.Equal(t, first, UrgencyFor(5900, CycleServiceIntervalKm))
	}
}

func TestCombinedUrgency(t *testing.T) {
	assert.Equal(t, UrgencyCritical, CombinedUrgency(UrgencyOK, UrgencyCritical))
	assert.Equal(t, UrgencyWarning, CombinedUrgency(UrgencyWarning, UrgencyOK))
	assert.Equal(t, UrgencyOK, CombinedUrgency(UrgencyOK, UrgencyOK))
}

func TestUrgencyString(t *testing.T) {
	assert.Equal(t, "ok", UrgencyOK.String())
	assert.Equal(t, "warning", UrgencyWarning.String())
	assert.Equal(t, "critical", UrgencyCritical.String())
}
