package greeter

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/muurk/cliffcrown/internal/greetd"
	"github.com/muurk/cliffcrown/internal/logging"
)

// Login runs one attempt: the session driver and the bridge each on their
// own goroutine. It returns the driver's result. When the driver fails on
// greetd's account, the failure is shown and acknowledged before returning.
func Login(ctx context.Context, driver *greetd.ClientManager, bridge *UiManager) error {
	driverDone := make(chan error, 1)
	bridgeDone := make(chan error, 1)

	go func() { bridgeDone <- bridge.Run(ctx) }()
	go func() { driverDone <- driver.Run(ctx) }()

	err := <-driverDone
	bridgeErr := <-bridgeDone

	if bridgeErr != nil && !errors.Is(bridgeErr, ErrAttemptEnded) {
		logging.Debug("Bridge stopped", zap.Error(bridgeErr))
	}

	if err == nil || errors.Is(err, greetd.ErrBridgeGone) || ctx.Err() != nil {
		return err
	}

	if rerr := bridge.ReportFailure(ctx, err); rerr != nil {
		logging.Debug("Failure was not acknowledged", zap.Error(rerr))
	}
	return err
}
