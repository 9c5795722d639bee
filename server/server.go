package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cyclopcam/logs"
	"github.com/cyclopcam/tracklabel/server/predictiondb"
	"github.com/julienschmidt/httprouter"
)

// Server is a Label Studio ML backend that pre-labels videos with tracked bounding boxes
type Server struct {
	Log    logs.Log
	Config *Config

	signalIn     chan os.Signal
	httpServer   *http.Server
	httpRouter   *httprouter.Router
	predictor    *Predictor
	predictionDB *predictiondb.PredictionDB
}

func NewServer(logger logs.Log, cfg *Config) (*Server, error) {
	var predictionDB *predictiondb.PredictionDB
	if cfg.PredictionDB != "" {
		var err error
		predictionDB, err = predictiondb.NewPredictionDB(logger, cfg.PredictionDB)
		if err != nil {
			return nil, err
		}
		if cfg.PredictionMaxAge != 0 {
			n, err := predictionDB.Purge(time.Duration(cfg.PredictionMaxAge) * 24 * time.Hour)
			if err != nil {
				logger.Warnf("Failed to purge old predictions: %v", err)
			} else if n != 0 {
				logger.Infof("Purged %v predictions older than %v days", n, cfg.PredictionMaxAge)
			}
		}
	} else {
		logger.Infof("Prediction cache is disabled")
	}

	predictor, err := NewPredictor(logger, cfg, predictionDB)
	if err != nil {
		return nil, err
	}

	s := &Server{
		Log:          logger,
		Config:       cfg,
		predictor:    predictor,
		predictionDB: predictionDB,
	}
	s.setupHttpRoutes()
	return s, nil
}

// port example: ":9090"
func (s *Server) ListenHTTP(port string) error {
	s.Log.Infof("Listening on %v", port)
	s.httpServer = &http.Server{
		Addr:    port,
		Handler: s.httpRouter,
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) ListenForKillSignals() {
	s.Log.Infof("ListenForKillSignals starting")
	s.signalIn = make(chan os.Signal, 1)
	signal.Notify(s.signalIn, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig, ok := <-s.signalIn
		if ok {
			s.Log.Infof("Received OS signal '%v'. ListenForKillSignals will exit after shutdown", sig.String())
			s.Shutdown()
		} else {
			s.Log.Infof("signalIn closed. ListenForKillSignals will exit now")
		}
	}()
}

func (s *Server) Shutdown() {
	s.Log.Infof("Shutdown")
	if s.signalIn != nil {
		signal.Stop(s.signalIn)
		close(s.signalIn)
	}
	if s.httpServer != nil {
		s.Log.Infof("Closing HTTP server")
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := s.httpServer.Shutdown(ctx)
		cancel()
		if err != nil {
			s.Log.Warnf("HTTP shutdown error: %v", err)
		}
	}
	if s.predictionDB != nil {
		s.predictionDB.Close()
	}
	s.Log.Infof("Shutdown complete")
	s.Log.Close()
}
