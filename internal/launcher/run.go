package launcher

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/blue-environment/blued/internal/logging"
)

// Run drives the panel client headlessly: it verifies the session API
// is reachable, logs the initial state, then follows the notification
// stream until the context ends. The graphical shell plugs in above
// this by calling the Client methods directly.
func Run(ctx context.Context, baseURL string, log *logging.Logger) error {
	client := NewClient(baseURL)

	state, err := client.State(ctx)
	if err != nil {
		return err
	}
	log.Info("connected to session",
		zap.String("api", baseURL),
		zap.String("distro", state.Distro),
		zap.String("battery", state.Battery),
		zap.Bool("wifi", state.WifiEnabled),
		zap.Bool("bluetooth", state.BluetoothEnabled))

	// Periodic state refresh keeps the clock and battery readouts
	// honest even when no notifications arrive.
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if state, err := client.State(ctx); err == nil {
					log.Debug("state refreshed",
						zap.String("clock", state.Clock),
						zap.String("battery", state.Battery))
				}
			}
		}
	}()

	err = client.FollowNotifications(ctx, func(message string) {
		log.Info("notification", zap.String("message", message))
	})
	if ctx.Err() != nil {
		return nil
	}
	return err
}
