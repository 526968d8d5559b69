// Package metrics defines the bot's Prometheus counters and the optional
// /metrics listener.
package metrics

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	CommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warden_commands_total",
		Help: "Message commands executed, by command and result.",
	}, []string{"command", "result"})

	CommandsDeniedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warden_commands_denied_total",
		Help: "Commands refused because the author lacked a permitted role.",
	}, []string{"command"})

	TriggersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warden_triggers_total",
		Help: "Triggers fired, by trigger and result.",
	}, []string{"trigger", "result"})

	MessagesDeletedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warden_messages_deleted_total",
		Help: "Messages removed by the bot, by reason.",
	}, []string{"reason"})

	GitHubLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warden_github_lookups_total",
		Help: "GitHub issue/pull request lookups, by result.",
	}, []string{"result"})
)

// Serve exposes /metrics on addr until ctx is cancelled. It blocks; run in a goroutine.
func Serve(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		log.Println("[INFO] Shutting down metrics server...")
		srv.Shutdown(context.Background()) //nolint:errcheck
	}()

	log.Printf("[INFO] Metrics server listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("[ERR] Metrics server exited: %v", err)
	}
}
