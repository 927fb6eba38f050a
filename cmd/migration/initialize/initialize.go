package initialize

import (
	"github.com/casalho111/gestion-motos-piste-karting-sub001/config"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/logger"
	. "github.com/casalho111/gestion-motos-piste-karting-sub001/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func InitializeTables(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("InitializeTables")
	log.Info("Initializing essential production data")

	if err := initializeParts(db, log); err != nil {
		return log.Err("failed to initialize parts", err)
	}

	log.Info("Table initialization complete")
	return nil
}

func initializeParts(db *gorm.DB, log logger.Logger) error {
	log.Info("Initializing parts catalog")

	parts := getPartsData()

	for _, part := range parts {
		var existingPart Part
		if err := db.First(&existingPart, "reference = ?", part.Reference).Error; err == nil {
			log.Debug("Part already exists", "reference", part.Reference)
			continue
		}
		log.Info("Initializing part", "reference", part.Reference, "name", part.Name)
		if err := db.Create(&part).Error; err != nil {
			return log.Err(
				"failed to create part",
				err,
				"reference",
				part.Reference,
				"name",
				part.Name,
			)
		}
	}

	log.Info("Parts catalog initialized", "count", len(parts))
	return nil
}

func stringPtr(s string) *string {
	return &s
}

func getPartsData() []Part {
	return []Part{
		{
			Reference: "BRK-PAD-STD",
			Name:      "Brake pads, standard compound",
			Type:      PartTypeBraking,
			Supplier:  stringPtr("Brembo"),
			UnitPrice: decimal.NewFromFloat(24.90),
			Stock:     40,
			MinStock:  10,
			Location:  stringPtr("A1"),
		},
		{
			Reference: "BRK-DISC-220",
			Name:      "Brake disc 220mm",
			Type:      PartTypeBraking,
			Supplier:  stringPtr("Brembo"),
			UnitPrice: decimal.NewFromFloat(58.00),
			Stock:     12,
			MinStock:  4,
			Location:  stringPtr("A2"),
		},
		{
			Reference: "TIRE-SLK-F",
			Name:      "Front slick tire",
			Type:      PartTypeTire,
			Supplier:  stringPtr("Dunlop"),
			UnitPrice: decimal.NewFromFloat(89.50),
			Stock:     24,
			MinStock:  8,
			Location:  stringPtr("B1"),
		},
		{
			Reference: "TIRE-SLK-R",
			Name:      "Rear slick tire",
			Type:      PartTypeTire,
			Supplier:  stringPtr("Dunlop"),
			UnitPrice: decimal.NewFromFloat(104.00),
			Stock:     24,
			MinStock:  8,
			Location:  stringPtr("B2"),
		},
		{
			Reference: "OIL-2T-1L",
			Name:      "Two-stroke oil, 1L",
			Type:      PartTypeFluid,
			Supplier:  stringPtr("Motul"),
			UnitPrice: decimal.NewFromFloat(15.75),
			Stock:     60,
			MinStock:  20,
			Location:  stringPtr("C1"),
		},
		{
			Reference: "SPARK-PLUG-BR9",
			Name:      "Spark plug BR9ES",
			Type:      PartTypeEngine,
			Supplier:  stringPtr("NGK"),
			UnitPrice: decimal.NewFromFloat(4.20),
			Stock:     100,
			MinStock:  25,
			Location:  stringPtr("C2"),
		},
		{
			Reference: "PISTON-KIT-125",
			Name:      "Piston kit 125cc",
			Type:      PartTypeEngine,
			Supplier:  stringPtr("Vertex"),
			UnitPrice: decimal.NewFromFloat(145.00),
			Stock:     8,
			MinStock:  2,
			Location:  stringPtr("C3"),
		},
		{
			Reference: "CHAIN-428-STD",
			Name:      "Drive chain 428",
			Type:      PartTypeTransmission,
			Supplier:  stringPtr("DID"),
			UnitPrice: decimal.NewFromFloat(36.40),
			Stock:     15,
			MinStock:  5,
			Location:  stringPtr("D1"),
		},
		{
			Reference: "SPROCKET-R-42",
			Name:      "Rear sprocket 42T",
			Type:      PartTypeTransmission,
			Supplier:  stringPtr("DID"),
			UnitPrice: decimal.NewFromFloat(28.00),
			Stock:     10,
			MinStock:  4,
			Location:  stringPtr("D2"),
		},
	}
}
