// Package server serves addresses and computed routes to the map client.
package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"routemap/internal/geom"
	"routemap/internal/solver"
	"routemap/internal/store"
)

type Server struct {
	addressesPath string
	solverOpts    solver.Options
	store         *store.RouteStore
	log           *log.Entry
	now           func() time.Time
}

func New(addressesPath string, opts solver.Options, st *store.RouteStore, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Server{
		addressesPath: addressesPath,
		solverOpts:    opts,
		store:         st,
		log:           logger.WithField("component", "server"),
		now:           time.Now,
	}
}

// Router builds the gin engine with all endpoints.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/", s.index)
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "ok"})
	})
	r.GET("/get_addresses", s.getAddresses)
	r.GET("/get_routes", s.getRoutes)
	return r
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.WithFields(log.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"elapsed": time.Since(start).String(),
		}).Info("request")
	}
}

func (s *Server) index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "routemap",
		"endpoints": []string{
			"GET /get_addresses",
			"GET /get_routes",
			"GET /ping",
		},
	})
}

// getAddresses re-reads the address file on every request.
func (s *Server) getAddresses(c *gin.Context) {
	addrs, err := geom.LoadAddresses(s.addressesPath)
	if err != nil {
		s.log.WithError(err).Error("failed to load addresses")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if addrs == nil {
		addrs = []geom.Address{}
	}
	c.JSON(http.StatusOK, geom.AddressBook{Addresses: addrs})
}

// getRoutes solves the current addresses. When no solution exists the previous plan is
// served again, if there is one.
func (s *Server) getRoutes(c *gin.Context) {
	addrs, err := geom.LoadAddresses(s.addressesPath)
	if err != nil {
		s.log.WithError(err).Error("failed to load addresses")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	res, err := solver.Solve(addrs, s.solverOpts)
	if err != nil {
		if !errors.Is(err, solver.ErrNoSolution) {
			s.log.WithError(err).Error("solver failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		s.log.WithError(err).Warn("No solution found !")
		s.serveLatest(c)
		return
	}

	s.log.WithFields(log.Fields{
		"objective":    res.Objective,
		"max_distance": res.MaxDistance(),
		"addresses":    len(addrs),
	}).Info("routes solved")

	snap := store.Snapshot{
		Routes:    res.Routes,
		Addresses: len(addrs),
		Objective: res.Objective,
		CreatedAt: s.now(),
	}
	if err := s.store.PutLatest(snap); err != nil {
		s.log.WithError(err).Warn("failed to store routes snapshot")
	}
	c.JSON(http.StatusOK, res.Routes)
}

func (s *Server) serveLatest(c *gin.Context) {
	snap, ok, err := s.store.Latest()
	if err != nil {
		s.log.WithError(err).Error("failed to read routes snapshot")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": solver.ErrNoSolution.Error()})
		return
	}
	s.log.WithField("created_at", snap.CreatedAt).Info("serving previous routes")
	c.JSON(http.StatusOK, snap.Routes)
}
