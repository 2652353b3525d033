package cli

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"semsearch/internal/adapter/httpapi"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Load the corpus and embedding store, then serve /search, /calc,
/cluster, /healthz and /metrics. Startup fails if the cache artifact
does not match the corpus.

Examples:
  semsearch serve
  semsearch serve --addr :9000`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, err := newServices(ctx, true)
	if err != nil {
		return fmt.Errorf("startup failed: %w", err)
	}

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	h := httpapi.NewHandler(svc.search, svc.scorer, svc.cluster, svc.store, cfg.Search.DefaultTopK)
	e := httpapi.NewServer(h, cfg.Server)
	return httpapi.Run(ctx, e, addr, time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
}
