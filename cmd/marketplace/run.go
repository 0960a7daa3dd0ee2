package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/fx"
)

const stopTimeout = 15 * time.Second

// run starts the fx application and blocks until the context is
// cancelled or the app shuts itself down.
func run(ctx context.Context, app *fx.App) error {
	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("start application: %w", err)
	}

	select {
	case <-ctx.Done():
	case <-app.Done():
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()

	if err := app.Stop(stopCtx); err != nil {
		return fmt.Errorf("stop application: %w", err)
	}
	return nil
}
