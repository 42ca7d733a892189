package main

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/juanlopolicaarpio/cocopan-monitor-3.0/alerts"
	"github.com/juanlopolicaarpio/cocopan-monitor-3.0/config"
	"github.com/juanlopolicaarpio/cocopan-monitor-3.0/database"
	"github.com/juanlopolicaarpio/cocopan-monitor-3.0/handlers"
	"github.com/juanlopolicaarpio/cocopan-monitor-3.0/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic(fmt.Sprintf("logger: %v", err))
	}
	defer log.Sync()

	if err := database.InitDB(cfg); err != nil {
		log.Fatal("database init failed", "err", err)
	}
	log.Info("database ready", "sqlite", cfg.UseSQLite, "timezone", cfg.Timezone)

	handlers.Init(cfg, log, alerts.NewLogNotifier(log))

	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	r.GET("/healthz", handlers.Health)

	api := r.Group("/api")
	{
		// probe sink + store registry (written by external collaborators)
		api.POST("/probes", handlers.CreateProbe)
		api.POST("/stores/import", handlers.ImportStores)

		// dashboard reads
		api.GET("/status", handlers.GetLatestStatus)
		api.GET("/hourly", handlers.GetHourlySnapshots)
		api.GET("/summary/hourly", handlers.GetHourlySummaries)
		api.GET("/attention", handlers.GetAttention)

		// statistics
		api.GET("/stats/platforms", handlers.GetPlatformStats)
		api.GET("/stores/:id/uptime", handlers.GetStoreUptime)
		api.POST("/reports/daily", handlers.CreateDailyReport)

		// scheduled + admin operations
		api.POST("/aggregate", handlers.RunAggregation)
		api.GET("/validate", handlers.Validate)
		api.POST("/admin/cleanup", handlers.RunCleanup)
		api.POST("/admin/stores/:id/name", handlers.SetStoreName)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Info("starting store status monitor", "addr", addr)
	if err := r.Run(addr); err != nil {
		log.Fatal("server stopped", "err", err)
	}
}
