package web

import (
	"robocup-tournament/logger"
	"robocup-tournament/metrics"
	"robocup-tournament/tournament/report"
	"robocup-tournament/tournament/store"
)

// Config holds the configuration for the web server
type Config struct {
	Addr string
	// LogDir is the tournament log directory results.xml is rendered from
	LogDir  string
	Store   store.Interface
	Report  report.Options
	Metrics *metrics.Metrics
	Logger  logger.Logger
}

// Server serves the results of one tournament
type Server struct {
	logDir  string
	store   store.Interface
	report  report.Options
	metrics *metrics.Metrics
	logger  logger.Logger
}

// NewServer creates a Server from cfg, the store defaults to reading the log directory
func NewServer(cfg Config) *Server {
	st := cfg.Store
	if st == nil {
		st = store.NewFileStore(cfg.LogDir)
	}
	log := cfg.Logger
	if log == nil {
		log = logger.NewNop()
	}
	return &Server{
		logDir:  cfg.LogDir,
		store:   st,
		report:  cfg.Report,
		metrics: cfg.Metrics,
		logger:  log,
	}
}
