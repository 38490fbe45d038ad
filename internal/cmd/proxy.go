package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gravitrone/oophub/internal/proxy"
)

// ProxyCmd returns the `oophub proxy` command.
func ProxyCmd() *cobra.Command {
	var (
		listen   string
		allowAll bool
	)
	cmd := &cobra.Command{
		Use:   "proxy",
		Short: "Relay /api/* to the configured backend for local development",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			if listen == "" {
				listen = e.cfg.ProxyListen
			}
			srv, err := proxy.New(proxy.Config{
				Listen:   listen,
				Upstream: e.cfg.Endpoint(),
				AllowAll: allowAll,
				Logger:   e.logger,
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("proxy: %w", err)
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown proxy: %w", err)
			}
			e.logger.Info("proxy stopped")
			return nil
		},
	}
	cmd.Flags().StringVarP(&listen, "listen", "l", "", "listen address (defaults to proxy_listen)")
	cmd.Flags().BoolVar(&allowAll, "allow-all-origins", false, "allow CORS requests from any origin")
	return cmd
}
