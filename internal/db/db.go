package db

import (
	"log"
	"time"

	"github.com/LabVitalis/consult-scheduler/internal/config"
	"github.com/LabVitalis/consult-scheduler/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.Consultation{},
		&models.Room{},
		&models.RoomParticipant{},
		&models.AuditLog{},
	); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	// trava de unicidade do slot no banco: último recurso contra corrida
	// entre dois bookings simultâneos para o mesmo (caregiver, horário).
	// Sem o índice a checagem sob lock não segura slot livre, então
	// falha aqui derruba o processo.
	if err := db.Exec(`
        CREATE UNIQUE INDEX IF NOT EXISTS uq_consultations_caregiver_slot
        ON consultations (caregiver_id, scheduled_time)
        WHERE status IN ('pending', 'approved')
    `).Error; err != nil {
		log.Fatalf("failed to create slot uniqueness index: %v", err)
	}

	return db
}
