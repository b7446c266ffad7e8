package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Client holds the settings of the terminal map client.
type Client struct {
	ServerURL string
	LogFile   string
	LogLevel  log.Level
}

// Server holds the settings of the route server.
type Server struct {
	Addr           string
	AddressesPath  string
	DBDir          string
	Vehicles       int
	Depot          int
	MaxRouteMeters int
	LogLevel       log.Level
}

func logLevel() (log.Level, error) {
	name, err := Get("ROUTEMAP_LOG_LEVEL", "info")
	if err != nil {
		return log.InfoLevel, err
	}
	lvl, err := log.ParseLevel(name)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("ROUTEMAP_LOG_LEVEL: %w", err)
	}
	return lvl, nil
}

// LoadClient reads the client settings from the environment.
func LoadClient() (Client, error) {
	var errs []error
	c := Client{}

	var err error
	c.ServerURL, err = Get("ROUTEMAP_SERVER_URL", "http://127.0.0.1:5000")
	errs = append(errs, err)
	if u, perr := url.Parse(c.ServerURL); perr != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("ROUTEMAP_SERVER_URL: invalid url %q", c.ServerURL))
	}
	c.ServerURL = strings.TrimRight(c.ServerURL, "/")

	c.LogFile, err = Get("ROUTEMAP_LOG_FILE", "routemap.log")
	errs = append(errs, err)
	c.LogLevel, err = logLevel()
	errs = append(errs, err)

	return c, errors.Join(errs...)
}

// LoadServer reads the route server settings from the environment.
func LoadServer() (Server, error) {
	var errs []error
	s := Server{}

	var err error
	s.Addr, err = Get("ROUTEMAP_ADDR", "127.0.0.1:5000")
	errs = append(errs, err)
	s.AddressesPath, err = Get("ROUTEMAP_ADDRESSES", "addresses.yaml")
	errs = append(errs, err)
	s.DBDir, err = Get("ROUTEMAP_DB_DIR", "db/routes")
	errs = append(errs, err)
	s.Vehicles, err = Get("ROUTEMAP_VEHICLES", 4)
	errs = append(errs, err)
	s.Depot, err = Get("ROUTEMAP_DEPOT", 0)
	errs = append(errs, err)
	s.MaxRouteMeters, err = Get("ROUTEMAP_MAX_ROUTE_METERS", 30000)
	errs = append(errs, err)
	s.LogLevel, err = logLevel()
	errs = append(errs, err)

	if s.Vehicles < 1 {
		errs = append(errs, fmt.Errorf("ROUTEMAP_VEHICLES must be positive, got %d", s.Vehicles))
	}
	if s.Depot < 0 {
		errs = append(errs, fmt.Errorf("ROUTEMAP_DEPOT must not be negative, got %d", s.Depot))
	}

	return s, errors.Join(errs...)
}
