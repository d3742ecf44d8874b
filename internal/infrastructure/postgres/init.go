package postgres

import (
	"log"

	"github.com/tradeguard/settlement-service/internal/config"
	"github.com/tradeguard/settlement-service/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func MustInitDB(cfg *config.SettlementConfig) *gorm.DB {
	dsn := cfg.SettlementDB.Dsn
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	db.AutoMigrate(
		&models.UserModel{},
		&models.OrderModel{},
		&models.EscrowEntryModel{},
		&models.DisputeModel{},
		&models.VoteModel{},
		&models.SettlementAuditModel{},
	)

	return db
}
