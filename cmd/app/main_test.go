package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"orderflow/cmd"
	"orderflow/internal/platform/observability"

	"github.com/stretchr/testify/assert"
)

type fakeTelemetry struct {
	logs    bytes.Buffer
	flushed bool
	initErr error
}

func (f *fakeTelemetry) init(_ context.Context, opts observability.Options) (*observability.Instruments, func(context.Context) error, error) {
	if f.initErr != nil {
		return nil, nil, f.initErr
	}
	instruments := &observability.Instruments{Logger: observability.NewLogger(&f.logs, opts.LogLevel)}
	return instruments, func(context.Context) error {
		f.flushed = true
		return nil
	}, nil
}

func TestRunWithTelemetry(t *testing.T) {
	configs := cmd.Config{Log: cmd.LogConfig{Level: "info"}}

	t.Run("failed run flushes telemetry before exiting with 1", func(t *testing.T) {
		telemetry := &fakeTelemetry{}
		var flushedDuringRun bool

		code := runWithTelemetry(context.Background(), configs, telemetry.init,
			func(context.Context, cmd.Config, *observability.Instruments) error {
				flushedDuringRun = telemetry.flushed
				return errors.New("connect database: refused")
			})

		assert.Equal(t, 1, code)
		assert.False(t, flushedDuringRun)
		assert.True(t, telemetry.flushed)
		assert.Contains(t, telemetry.logs.String(), "connect database: refused")
	})

	t.Run("clean run exits with 0", func(t *testing.T) {
		telemetry := &fakeTelemetry{}

		code := runWithTelemetry(context.Background(), configs, telemetry.init,
			func(context.Context, cmd.Config, *observability.Instruments) error { return nil })

		assert.Equal(t, 0, code)
		assert.True(t, telemetry.flushed)
	})

	t.Run("telemetry failure skips the run", func(t *testing.T) {
		telemetry := &fakeTelemetry{initErr: errors.New("bad endpoint")}
		ran := false

		code := runWithTelemetry(context.Background(), configs, telemetry.init,
			func(context.Context, cmd.Config, *observability.Instruments) error {
				ran = true
				return nil
			})

		assert.Equal(t, 1, code)
		assert.False(t, ran)
	})
}
