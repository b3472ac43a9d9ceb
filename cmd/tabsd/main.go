// Command tabsd serves the read API over HTTP.
package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kthyng/tabs/pkg/handlers"
	"github.com/kthyng/tabs/pkg/logging"
	"github.com/kthyng/tabs/pkg/metrics"
)

type Config struct {
	Port     string        `default:"8080"`
	Prefix   string        `default:"/"`
	CacheTTL time.Duration `default:"15m" split_words:"true"`
	Dev      bool          `default:"false"`
}

func main() {
	godotenv.Load()
	var env Config
	if err := envconfig.Process("tabsd", &env); err != nil {
		slog.Error("reading config", "err", err)
		os.Exit(1)
	}
	log := logging.New(slog.LevelInfo, env.Dev)

	r := mux.NewRouter().StrictSlash(true)
	s := r.PathPrefix(env.Prefix).Subrouter()
	handlers.Register(s, log, env.CacheTTL)
	r.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Handler:      metrics.LatencyHandler(r),
		Addr:         "0.0.0.0:" + env.Port,
		WriteTimeout: 90 * time.Second,
		ReadTimeout:  15 * time.Second,
	}
	log.Info("listening", "addr", srv.Addr, "prefix", env.Prefix)
	if err := srv.ListenAndServe(); err != nil {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
