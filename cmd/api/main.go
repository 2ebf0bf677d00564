package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/LabVitalis/consult-scheduler/internal/accessgrant"
	"github.com/LabVitalis/consult-scheduler/internal/config"
	dbpkg "github.com/LabVitalis/consult-scheduler/internal/db"
	consdomain "github.com/LabVitalis/consult-scheduler/internal/domain/consultation"
	"github.com/LabVitalis/consult-scheduler/internal/middleware"
	"github.com/LabVitalis/consult-scheduler/internal/routes"
)

func main() {

	_ = godotenv.Load()

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	// credencial do provedor de mídia é condição de partida,
	// não de requisição
	issuer, err := accessgrant.NewIssuer(cfg.RTCSecret)
	if err != nil {
		log.Fatalf("rtc credentials misconfigured: set RTC_SHARED_SECRET")
	}

	catalog, err := consdomain.NewSlotCatalog(
		cfg.SlotTimes,
		cfg.SlotDurationMinutes,
		cfg.ClinicTimezone,
	)
	if err != nil {
		log.Fatalf("invalid slot catalog: %v", err)
	}

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	sweeper := routes.RegisterRoutes(r, db, cfg, issuer, catalog)

	go sweeper.Run(
		context.Background(),
		time.Duration(cfg.SweepIntervalSeconds)*time.Second,
	)

	log.Printf("Server running on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
