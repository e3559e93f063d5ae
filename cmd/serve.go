package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/KaramelBytes/csvdash-cli/internal/logging"
	"github.com/KaramelBytes/csvdash-cli/internal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
)

var (
	srvAddr string
	srvDir  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve generated charts and reports over HTTP",
	Long: `Serves the files under --dir (chart configs, HTML reports) at /files/.
When a source is configured, /api/columns lists its columns and inferred kinds.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, dir := srvAddr, srvDir
		if addr == "" && cfg != nil {
			addr = cfg.ServeAddr
		}
		if dir == "" && cfg != nil {
			dir = cfg.ServeDir
		}
		if addr == "" {
			addr = "127.0.0.1:8080"
		}
		if dir == "" {
			dir = "."
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srv := &http.Server{
			Addr:              addr,
			Handler:           newRouter(dir),
			ReadHeaderTimeout: 10 * time.Second,
		}
		errCh := make(chan error, 1)
		go func() { errCh <- srv.ListenAndServe() }()
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Serving %s on http://%s\n", dir, addr)

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&srvAddr, "addr", "", "listen address (default from config)")
	serveCmd.Flags().StringVar(&srvDir, "dir", "", "directory to serve (default from config)")
}

type columnInfo struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

func newRouter(dir string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	r.Get("/api/columns", handleColumns)

	files := http.FileServer(http.Dir(dir))
	r.Handle("/files/*", http.StripPrefix("/files/", files))
	return r
}

func handleColumns(w http.ResponseWriter, req *http.Request) {
	loc, err := sourceLocation()
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	ds, err := session.Dataset(req.Context(), loc)
	if err != nil {
		logging.L().Error("load dataset", "source", loc, "err", err)
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	c := classifier()
	cols := make([]columnInfo, 0, ds.Width())
	for i, h := range ds.Headers {
		cols = append(cols, columnInfo{Name: h, Kind: c.ClassifyColumn(h, ds.Rows, i).String()})
	}
	body, err := utils.PrettyJSON(cols)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

