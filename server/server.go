package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/hunt-ops/hunt-manager/api/v1/common"
	"github.com/hunt-ops/hunt-manager/api/v1/startedhunt"
	"github.com/hunt-ops/hunt-manager/api/v1/submission"
	"github.com/hunt-ops/hunt-manager/api/v1/team"
	"github.com/hunt-ops/hunt-manager/global"
	"github.com/hunt-ops/hunt-manager/pkg/blob"
	"github.com/hunt-ops/hunt-manager/pkg/store"
)

// Server is a helper to manage the API server.
type Server struct {
	Options

	store store.Store
	coord *startedhunt.Coordinator
	teams *team.Registry
	subs  *submission.Ledger

	httpServer *http.Server
}

// Options to configure it once for all.
type Options struct {
	Port int
}

// NewServer returns a fresh API server wiring the services over the
// given record store and blob store.
func NewServer(opts Options, s store.Store, blobs blob.Store) *Server {
	subs := submission.NewLedger(s, blobs)
	teams := team.NewRegistry(s, subs)
	return &Server{
		Options: opts,
		store:   s,
		coord:   startedhunt.NewCoordinator(s, teams, subs),
		teams:   teams,
		subs:    subs,
	}
}

// Run starts servicing the API in backend. Stop it with Shutdown.
func (s *Server) Run(ctx context.Context) error {
	logger := global.Log()

	var handler http.Handler = s.Mux(ctx)
	if global.Conf.Otel.Tracing {
		handler = otelhttp.NewHandler(handler, "hunt-manager")
	}
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.Port),
		Handler:           handler,
		ReadHeaderTimeout: time.Second,
	}

	logger.Info(ctx, "api-server start listening",
		zap.Int("port", s.Port),
	)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, "http server", zap.Error(err))
		}
	}()
	return nil
}

// Shutdown drains in-flight requests then stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Mux registers every route of the API v1 surface.
func (s *Server) Mux(ctx context.Context) *http.ServeMux {
	mux := http.NewServeMux()

	// Started hunts
	mux.HandleFunc("POST /api/startedHunts", s.coord.CreateStartedHunt)
	mux.HandleFunc("GET /api/startedHunts/{id}", s.coord.RetrieveStartedHunt)
	mux.HandleFunc("GET /api/startedHunts/accessCode/{accessCode}", s.coord.RetrieveStartedHuntByAccessCode)
	mux.HandleFunc("PUT /api/startedHunts/{id}/status", s.coord.UpdateStartedHuntStatus)
	mux.HandleFunc("DELETE /api/startedHunts/{id}", s.coord.DeleteStartedHunt)

	// Teams
	mux.HandleFunc("POST /api/teams", s.teams.CreateTeam)
	mux.HandleFunc("POST /api/teams/addTeams/{startedHuntId}/{numTeams}", s.teams.AddTeams)
	mux.HandleFunc("GET /api/teams", s.teams.QueryTeams)
	mux.HandleFunc("GET /api/teams/{id}", s.teams.RetrieveTeam)
	mux.HandleFunc("GET /api/teams/startedHunt/{startedHuntId}", s.teams.QueryTeamsByStartedHunt)
	mux.HandleFunc("DELETE /api/teams/{id}", s.teams.DeleteTeam)

	// Submissions. The photo route is registered as {id}/{action} so the
	// literal-prefixed list routes below stay more specific and win the
	// ServeMux precedence rules.
	mux.HandleFunc("GET /api/submissions/{id}", s.subs.RetrieveSubmission)
	mux.HandleFunc("GET /api/submissions/{id}/{action}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("action") != "photo" {
			// Same JSON error shape as the rest of the surface.
			common.RespondJSON(r.Context(), w, http.StatusNotFound, map[string]string{
				"error": "not found",
			})
			return
		}
		s.subs.RetrievePhoto(w, r)
	})
	mux.HandleFunc("GET /api/submissions/team/{teamId}", s.subs.QuerySubmissionsByTeam)
	mux.HandleFunc("GET /api/submissions/task/{taskId}", s.subs.QuerySubmissionsByTask)
	mux.HandleFunc("GET /api/submissions/team/{teamId}/task/{taskId}", s.subs.RetrieveSubmissionByPair)
	mux.HandleFunc("GET /api/submissions/startedHunt/{startedHuntId}", s.subs.QuerySubmissionsByStartedHunt)
	mux.HandleFunc("POST /api/submissions/team/{teamId}/task/{taskId}", s.subs.RecordForPair)
	mux.HandleFunc("POST /api/submissions/{id}", s.subs.AttachPhoto)
	mux.HandleFunc("PUT /api/submissions/{id}", s.subs.ReplacePhoto)
	mux.HandleFunc("DELETE /api/submissions/{id}", s.subs.DeleteSubmission)

	// Raw photo retrieval
	mux.HandleFunc("GET /photos/{photoPath}", s.subs.ServeRawPhoto)

	mux.Handle("GET /healthcheck", healthcheck(ctx, s.store))

	return mux
}
