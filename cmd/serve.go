package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/bivarmap/internal/boundary"
	"github.com/sells-group/bivarmap/internal/model"
	"github.com/sells-group/bivarmap/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the map render server",
	Long:  "Serves an HTTP API for submitting render jobs, listing runs, and previewing finished maps.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}
		loader := newBoundaryLoader(st)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(ctx, st, loader),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// newRouter builds the HTTP API. Render jobs run asynchronously on the
// server's context so a disconnecting client does not cancel the build.
func newRouter(srvCtx context.Context, st store.Store, loader *boundary.Loader) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/api/runs", func(w http.ResponseWriter, req *http.Request) {
		filter := store.RunFilter{
			Status: model.RunStatus(req.URL.Query().Get("status")),
			Limit:  50,
		}
		runs, err := st.ListRuns(req.Context(), filter)
		if err != nil {
			zap.L().Error("list runs failed", zap.Error(err))
			writeJSONResponse(w, http.StatusInternalServerError, map[string]string{"error": "list runs failed"})
			return
		}
		writeJSONResponse(w, http.StatusOK, runs)
	})

	r.Get("/api/runs/{id}", func(w http.ResponseWriter, req *http.Request) {
		run, err := st.GetRun(req.Context(), chi.URLParam(req, "id"))
		if err != nil {
			writeJSONResponse(w, http.StatusNotFound, map[string]string{"error": "run not found"})
			return
		}
		writeJSONResponse(w, http.StatusOK, run)
	})

	r.Post("/api/render", func(w http.ResponseWriter, req *http.Request) {
		var job model.RenderJob
		if err := json.NewDecoder(req.Body).Decode(&job); err != nil {
			writeJSONResponse(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		if job.TablePath == "" || job.Boundary == "" {
			writeJSONResponse(w, http.StatusBadRequest, map[string]string{"error": "table_path and boundary are required"})
			return
		}
		if job.Output == "" {
			writeJSONResponse(w, http.StatusBadRequest, map[string]string{"error": "output is required"})
			return
		}

		// Record the run synchronously so the response carries its id,
		// then build in the background.
		run, err := st.CreateRun(req.Context(), job)
		if err != nil {
			zap.L().Error("create run failed", zap.Error(err))
			writeJSONResponse(w, http.StatusInternalServerError, map[string]string{"error": "create run failed"})
			return
		}

		go func() {
			if err := buildRunAsync(srvCtx, st, loader, run.ID, job); err != nil {
				zap.L().Error("render failed",
					zap.String("run_id", run.ID),
					zap.Error(err),
				)
				return
			}
			zap.L().Info("render complete",
				zap.String("run_id", run.ID),
				zap.String("output", job.Output),
			)
		}()

		writeJSONResponse(w, http.StatusAccepted, map[string]string{
			"status": "accepted",
			"run_id": run.ID,
		})
	})

	r.Get("/maps/{id}", func(w http.ResponseWriter, req *http.Request) {
		run, err := st.GetRun(req.Context(), chi.URLParam(req, "id"))
		if err != nil {
			writeJSONResponse(w, http.StatusNotFound, map[string]string{"error": "run not found"})
			return
		}
		if run.Status != model.RunStatusComplete || run.OutputPath == "" {
			writeJSONResponse(w, http.StatusConflict, map[string]string{
				"error":  "run has no output",
				"status": string(run.Status),
			})
			return
		}
		http.ServeFile(w, req, run.OutputPath)
	})

	return r
}

func writeJSONResponse(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
