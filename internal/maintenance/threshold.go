// Package maintenance holds the pure derivations behind maintenance-due and
// readiness decisions. Nothing here touches storage; every function depends
// only on its inputs.
package maintenance

import "math"

// Service intervals and the alert window, in kilometers.
const (
	CycleServiceIntervalKm  = 6000.0
	EngineServiceIntervalKm = 3000.0
	AlertWindowKm           = 200.0
)

// Urgency classifies how close an entity is to its next service.
type Urgency int

const (
	UrgencyOK Urgency = iota
	UrgencyWarning
	UrgencyCritical
)

func (u Urgency) String() string {
	switch u {
	case UrgencyCritical:
		return "critical"
	case UrgencyWarning:
		return "warning"
	default:
		return "ok"
	}
}

// RemainingKilometers returns the distance left before the next service
// boundary: the next multiple of interval at or above current, minus current.
// Landing exactly on a boundary yields 0 (service due now).
func RemainingKilometers(currentKm, intervalKm float64) float64 {
	if intervalKm <= 0 {
		return 0
	}
	return math.Ceil(currentKm/intervalKm)*intervalKm - currentKm
}

// UrgencyForRemaining maps a remaining distance to an urgency tier.
func UrgencyForRemaining(remainingKm float64) Urgency {
	switch {
	case remainingKm <= 0:
		return UrgencyCritical
	case remainingKm <= AlertWindowKm:
		return UrgencyWarning
	default:
		return UrgencyOK
	}
}

// UrgencyFor combines the two derivations for one entity.
func UrgencyFor(currentKm, intervalKm float64) Urgency {
	return UrgencyForRemaining(RemainingKilometers(currentKm, intervalKm))
}

// CombinedUrgency returns the worse of the two tiers.
func CombinedUrgency(a, b Urgency) Urgency {
	if a > b {
		return a
	}
	return b
}
