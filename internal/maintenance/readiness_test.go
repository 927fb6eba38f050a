package maintenance

import (
	"testing"

	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func availableCycle(km float64) *models.Cycle {
	return &models.Cycle{
		SerialNumber:    "CY-100",
		Model:           "450 SX",
		TotalKilometers: km,
		Status:          models.StatusAvailable,
	}
}

func availableEngine(km float64) *models.Engine {
	return &models.Engine{
		SerialNumber:    "EN-100",
		EngineType:      "single",
		TotalKilometers: km,
		Status:          models.StatusAvailable,
	}
}

func TestEvaluateNilCycle(t *testing.T) {
	_, err := Evaluate(nil, nil)
	assert.ErrorIs(t, err, ErrNilCycle)
}

func TestEvaluateCycleStatusWins(t *testing.T) {
	cycle := availableCycle(100)
	cycle.Status = models.StatusInMaintenance

	// Cycle status is checked before engine presence.
	result, err := Evaluate(cycle, nil)
	require.NoError(t, err)
	assert.False(t, result.Ready)
	assert.Equal(t, "cycle is in_maintenance", result.Reason)
}

func TestEvaluateNoEngine(t *testing.T) {
	result, err := Evaluate(availableCycle(100), nil)
	require.NoError(t, err)
	assert.False(t, result.Ready)
	assert.Equal(t, "no engine mounted", result.Reason)
}

func TestEvaluateEngineStatus(t *testing.T) {
	engine := availableEngine(100)
	engine.Status = models.StatusNeedsVerification

	result, err := Evaluate(availableCycle(100), engine)
	require.NoError(t, err)
	assert.False(t, result.Ready)
	assert.Equal(t, "engine is needs_verification", result.Reason)
}

func TestEvaluateCriticalUrgencyBlocks(t *testing.T) {
	// Engine exactly at its 3000 km interval is critical, even though the
	// cycle itself is fine.
	result, err := Evaluate(availableCycle(100), availableEngine(3000))
	require.NoError(t, err)
	assert.False(t, result.Ready)
	assert.Equal(t, "urgent maintenance required", result.Reason)
	assert.Equal(t, UrgencyCritical, result.Urgency)
}

func TestEvaluateWarningIsAdvisoryOnly(t *testing.T) {
	result, err := Evaluate(availableCycle(5900), availableEngine(100))
	require.NoError(t, err)
	assert.True(t, result.Ready)
	assert.Equal(t, UrgencyWarning, result.Urgency)
	assert.NotEmpty(t, result.Advisory)
}

func TestEvaluateReady(t *testing.T) {
	result, err := Evaluate(availableCycle(1000), availableEngine(500))
	require.NoError(t, err)
	assert.True(t, result.Ready)
	assert.Empty(t, result.Reason)
	assert.Empty(t, result.Advisory)
	assert.Equal(t, UrgencyOK, result.Urgency)
}
