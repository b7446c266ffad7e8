package main

import (
	"os"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"routemap/internal/config"
	"routemap/internal/server"
	"routemap/internal/solver"
	"routemap/internal/store"
)

func main() {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Fatal(err)
	}
	cfg, err := config.LoadServer()
	if err != nil {
		log.Fatal(err)
	}
	log.SetLevel(cfg.LogLevel)
	if cfg.LogLevel < log.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	st, err := store.Open(cfg.DBDir)
	if err != nil {
		log.Fatal(err)
	}
	defer st.Close()

	srv := server.New(cfg.AddressesPath, solver.Options{
		Vehicles:       cfg.Vehicles,
		Depot:          cfg.Depot,
		MaxRouteMeters: cfg.MaxRouteMeters,
	}, st, log.StandardLogger())

	log.WithFields(log.Fields{
		"addr":      cfg.Addr,
		"addresses": cfg.AddressesPath,
		"db":        cfg.DBDir,
	}).Info("route server listening")
	if err := srv.Router().Run(cfg.Addr); err != nil {
		log.WithError(err).Error("server stopped")
	}
}
