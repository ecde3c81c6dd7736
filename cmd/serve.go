package main

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/FileLanderScaner/ANALYZER/internal/web"
	"github.com/FileLanderScaner/ANALYZER/internal/websocket"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API and progress websocket",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}

			hub := websocket.NewHub(log)
			go hub.Run(ctx)

			a, err := newApp(ctx, cfg, log, hub)
			if err != nil {
				return err
			}
			defer a.Close()

			server := web.NewServer(cfg, a.pipeline, a.store, hub, log)
			errCh := make(chan error, 1)
			go func() {
				errCh <- server.Start()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
				log.Info("🛑 Shutting down")
				return server.Stop()
			}
		},
	}

	cmd.Flags().String("listen", "", "Listen address (default :8081)")
	_ = viper.BindPFlag("WEB_LISTEN_ADDR", cmd.Flags().Lookup("listen"))

	return cmd
}
