package models

// EntityStatus is the shared availability state for cycles and engines.
type EntityStatus string

const (
	StatusAvailable         EntityStatus = "available"
	StatusInMaintenance     EntityStatus = "in_maintenance"
	StatusOutOfService      EntityStatus = "out_of_service"
	StatusNeedsVerification EntityStatus = "needs_verification"
	StatusUnavailable       EntityStatus = "unavailable"
)

func (s EntityStatus) IsValid() bool {
	switch s {
	case StatusAvailable,
		StatusInMaintenance,
		StatusOutOfService,
		StatusNeedsVerification,
		StatusUnavailable:
		return true
	}
	return false
}
