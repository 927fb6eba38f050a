package maintenance

import (
	"errors"
	"fmt"

	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/models"
)

var ErrNilCycle = errors.New("cycle is required")

// Readiness is the dispatch decision for a cycle and its mounted engine.
// A not-ready result carries the first failing reason; a ready result may
// still carry a non-blocking advisory when maintenance is approaching.
type Readiness struct {
	Ready    bool    `json:"ready"`
	Reason   string  `json:"reason,omitempty"`
	Advisory string  `json:"advisory,omitempty"`
	Urgency  Urgency `json:"urgency"`
}

// Evaluate decides whether a cycle+engine pair can be dispatched right now.
// Checks short-circuit in order: cycle status, engine presence, engine
// status, combined maintenance urgency.
func Evaluate(cycle *models.Cycle, engine *models.Engine) (Readiness, error) {
	if cycle == nil {
		return Readiness{}, ErrNilCycle
	}

	if cycle.Status != models.StatusAvailable {
		return Readiness{
			Ready:  false,
			Reason: fmt.Sprintf("cycle is %s", cycle.Status),
		}, nil
	}

	if engine == nil {
		return Readiness{
			Ready:  false,
			Reason: "no engine mounted",
		}, nil
	}

	if engine.Status != models.StatusAvailable {
		return Readiness{
			Ready:  false,
			Reason: fmt.Sprintf("engine is %s", engine.Status),
		}, nil
	}

	combined := CombinedUrgency(
		UrgencyFor(cycle.TotalKilometers, CycleServiceIntervalKm),
		UrgencyFor(engine.TotalKilometers, EngineServiceIntervalKm),
	)

	if combined >= UrgencyCritical {
		return Readiness{
			Ready:   false,
			Reason:  "urgent maintenance required",
			Urgency: combined,
		}, nil
	}

	result := Readiness{Ready: true, Urgency: combined}
	if combined == UrgencyWarning {
		result.Advisory = "maintenance approaching"
	}

	return result, nil
}
