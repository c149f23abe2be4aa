package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"go-predecode/pkg/predecode"
	"go-predecode/pkg/stats"
)

// MaxBody limits the size of a decode request
const MaxBody = 4 << 20

type Server struct {
	Router *mux.Router

	Decoder   *predecode.Decoder
	Hourly    *stats.Hourly
	Collector *stats.Collector

	// Gatherer backs /metrics, prometheus default registry when nil
	Gatherer prometheus.Gatherer
}

// Serve runs the API until ctx is cancelled
func (s *Server) Serve(ctx context.Context, addr string) error {
	if s.Router == nil {
		s.Routes()
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdown)
	}()
	log.WithFields(log.Fields{"addr": addr}).Info("starting up REST API")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
