package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/fx"
)

func run(ctx context.Context, app *fx.App) {
	if err := serve(ctx, app); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type runnable interface {
	Start(context.Context) error
	Stop(context.Context) error
	Done() <-chan os.Signal
}

func serve(ctx context.Context, app runnable) error {
	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("failed to start application: %w", err)
	}

	select {
	case <-ctx.Done():
	case <-app.Done():
	}

	if err := app.Stop(context.Background()); err != nil {
		return fmt.Errorf("failed to stop application: %w", err)
	}
	return nil
}
