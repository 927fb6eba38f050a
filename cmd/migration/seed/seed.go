package seed

import (
	"time"

	"github.com/casalho111/gestion-motos-piste-karting-sub001/config"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/logger"
	. "github.com/casalho111/gestion-motos-piste-karting-sub001/internal/models"

	"gorm.io/gorm"
)

func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("seed")
	log.Info("Seeding development data")

	engines := []Engine{
		{
			SerialNumber:    "ENG-2024-001",
			EngineType:      "125cc two-stroke",
			DisplacementCC:  125,
			AcquisitionDate: time.Now().AddDate(-1, 0, 0),
			TotalKilometers: 1450,
			Status:          StatusAvailable,
		},
		{
			SerialNumber:    "ENG-2024-002",
			EngineType:      "125cc two-stroke",
			DisplacementCC:  125,
			AcquisitionDate: time.Now().AddDate(-1, 0, 0),
			TotalKilometers: 2780,
			Status:          StatusAvailable,
		},
		{
			SerialNumber:    "ENG-2024-003",
			EngineType:      "250cc four-stroke",
			DisplacementCC:  250,
			AcquisitionDate: time.Now().AddDate(0, -6, 0),
			TotalKilometers: 620,
			Status:          StatusAvailable,
		},
		{
			SerialNumber:    "ENG-2025-004",
			EngineType:      "250cc four-stroke",
			DisplacementCC:  250,
			AcquisitionDate: time.Now().AddDate(0, -2, 0),
			TotalKilometers: 0,
			Status:          StatusAvailable,
		},
	}

	for i := range engines {
		var existing Engine
		if err := db.First(&existing, "serial_number = ?", engines[i].SerialNumber).Error; err == nil {
			log.Info("Engine already exists", "serialNumber", engines[i].SerialNumber)
			engines[i] = existing
			continue
		}
		log.Info("Seeding engine", "serialNumber", engines[i].SerialNumber)
		if err := db.Create(&engines[i]).Error; err != nil {
			return log.Err("failed to create engine", err, "serialNumber", engines[i].SerialNumber)
		}
	}

	cycles := []Cycle{
		{
			SerialNumber:    "CYC-2024-001",
			Model:           "GP Mono 125",
			AcquisitionDate: time.Now().AddDate(-1, 0, 0),
			TotalKilometers: 3240,
			Status:          StatusAvailable,
		},
		{
			SerialNumber:    "CYC-2024-002",
			Model:           "GP Mono 125",
			AcquisitionDate: time.Now().AddDate(-1, 0, 0),
			TotalKilometers: 5120,
			Status:          StatusAvailable,
		},
		{
			SerialNumber:    "CYC-2025-003",
			Model:           "GP Twin 250",
			AcquisitionDate: time.Now().AddDate(0, -4, 0),
			TotalKilometers: 860,
			Status:          StatusAvailable,
		},
	}

	for i := range cycles {
		var existing Cycle
		if err := db.First(&existing, "serial_number = ?", cycles[i].SerialNumber).Error; err == nil {
			log.Info("Cycle already exists", "serialNumber", cycles[i].SerialNumber)
			cycles[i] = existing
			continue
		}
		log.Info("Seeding cycle", "serialNumber", cycles[i].SerialNumber)
		if err := db.Create(&cycles[i]).Error; err != nil {
			return log.Err("failed to create cycle", err, "serialNumber", cycles[i].SerialNumber)
		}
	}

	// Mount the first two engines on the first two cycles
	for i := range 2 {
		var existing MountRecord
		err := db.First(
			&existing,
			"cycle_id = ? AND unmounted_at IS NULL",
			cycles[i].ID,
		).Error
		if err == nil {
			log.Info("Cycle already has a mounted engine", "serialNumber", cycles[i].SerialNumber)
			continue
		}

		mount := MountRecord{
			CycleID:         cycles[i].ID,
			EngineID:        engines[i].ID,
			MountedAt:       time.Now().AddDate(0, -1, 0),
			CycleKmAtMount:  cycles[i].TotalKilometers,
			EngineKmAtMount: engines[i].TotalKilometers,
			Technician:      "Marc Dubois",
		}
		log.Info("Seeding mount record", "cycle", cycles[i].SerialNumber, "engine", engines[i].SerialNumber)
		if err := db.Create(&mount).Error; err != nil {
			return log.Err("failed to create mount record", err)
		}
		if err := db.Model(&Cycle{}).
			Where("id = ?", cycles[i].ID).
			Update("current_engine_id", engines[i].ID).Error; err != nil {
			return log.Err("failed to set current engine", err)
		}
	}

	sessions := []UsageSession{
		{
			CycleID:         cycles[0].ID,
			SessionDate:     time.Now().AddDate(0, 0, -2),
			Operator:        "Julien Petit",
			LapCount:        25,
			MetersPerLap:    800,
			TotalKilometers: 20,
			SessionType:     SessionTypeTraining,
		},
		{
			CycleID:         cycles[1].ID,
			SessionDate:     time.Now().AddDate(0, 0, -1),
			Operator:        "Sophie Laurent",
			LapCount:        40,
			MetersPerLap:    800,
			TotalKilometers: 32,
			SessionType:     SessionTypeRace,
		},
	}

	var sessionCount int64
	db.Model(&UsageSession{}).Count(&sessionCount)
	if sessionCount == 0 {
		for _, session := range sessions {
			log.Info("Seeding usage session", "operator", session.Operator)
			if err := db.Create(&session).Error; err != nil {
				return log.Err("failed to create usage session", err)
			}
		}
	}

	inspections := []DailyInspection{
		{
			CycleID:        cycles[0].ID,
			InspectionDate: time.Now().Add(-2 * time.Hour),
			Inspector:      "Marc Dubois",
			IsConform:      true,
			FrontBrakesOK:  true,
			RearBrakesOK:   true,
			TiresOK:        true,
			SuspensionOK:   true,
			TransmissionOK: true,
			FluidLevelsOK:  true,
			LightingOK:     true,
		},
		{
			CycleID:        cycles[1].ID,
			InspectionDate: time.Now().Add(-3 * time.Hour),
			Inspector:      "Marc Dubois",
			IsConform:      true,
			FrontBrakesOK:  true,
			RearBrakesOK:   true,
			TiresOK:        true,
			SuspensionOK:   true,
			TransmissionOK: true,
			FluidLevelsOK:  true,
			LightingOK:     true,
		},
	}

	var inspectionCount int64
	db.Model(&DailyInspection{}).Count(&inspectionCount)
	if inspectionCount == 0 {
		for _, inspection := range inspections {
			log.Info("Seeding daily inspection", "inspector", inspection.Inspector)
			if err := db.Create(&inspection).Error; err != nil {
				return log.Err("failed to create daily inspection", err)
			}
		}
	}

	log.Info("Development data seeded")
	return nil
}
