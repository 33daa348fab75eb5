package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Garsondee/Red-Command/internal/logging"
	"github.com/Garsondee/Red-Command/internal/netsync"
)

// Relay host for networked games: clients dial ws://host:port/lockstep.
func main() {
	var port int
	var logPath string
	var debug bool
	flag.IntVar(&port, "port", 1234, "listen port")
	flag.StringVar(&logPath, "log", "relay.log", "log file")
	flag.BoolVar(&debug, "debug", false, "also log to stderr at debug level")
	flag.Parse()

	log, closeLog := logging.New(logging.Options{Path: logPath, Debug: debug})
	defer closeLog()

	relay := netsync.NewRelay(log)
	mux := http.NewServeMux()
	mux.Handle("/lockstep", relay)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "ok clients=%d\n", relay.Clients())
	})

	addr := fmt.Sprintf(":%d", port)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Infow("relay listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("listen", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Infow("shutting down", "clients", relay.Clients())

	_ = relay.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warnw("shutdown", "err", err)
	}
}
