package fx

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// RegisterHTTPServerLifecycle binds the listener on start so a taken port
// fails startup instead of only being logged.
func RegisterHTTPServerLifecycle(
	lc fx.Lifecycle,
	srv *http.Server,
	log *zap.SugaredLogger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return fmt.Errorf("listen %s: %w", srv.Addr, err)
			}
			go func() {
				log.Infow("http_server_starting", "addr", ln.Addr().String())
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Errorw("http_server_crashed", "err", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("http_server_stopping", "addr", srv.Addr)
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
