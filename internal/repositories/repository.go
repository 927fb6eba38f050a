package repositories

import (
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/database"
)

type Repository struct {
	Cycle       CycleRepository
	Engine      EngineRepository
	Mount       MountRepository
	Session     SessionRepository
	Maintenance MaintenanceRepository
	Part        PartRepository
	Inspection  InspectionRepository
	Alert       AlertRepository
}

func New(db database.DB) Repository {
	return Repository{
		Cycle:       NewCycleRepository(db.Cache.Fleet), // fleet snapshot cache lives here
		Engine:      NewEngineRepository(db.Cache.Fleet),
		Mount:       NewMountRepository(),
		Session:     NewSessionRepository(),
		Maintenance: NewMaintenanceRepository(),
		Part:        NewPartRepository(),
		Inspection:  NewInspectionRepository(),
		Alert:       NewAlertRepository(),
	}
}

// Pagination bounds list queries. Zero values fall back to the defaults.
type Pagination struct {
	Page     int
	PageSize int
}

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

func (p Pagination) limitOffset() (int, int) {
	size := p.PageSize
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	page := p.Page
	if page < 1 {
		page = 1
	}

	return size, (page - 1) * size
}
