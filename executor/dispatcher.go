package executor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DispatcherConfig holds the configuration for the Dispatcher.
type DispatcherConfig struct {
	Registry   *Registry
	Logger     *slog.Logger
	Registerer prometheus.Registerer
}

// validate checks if the configuration is valid.
func (c *DispatcherConfig) validate() error {
	if c.Registry == nil {
		return errors.New("config: Registry is required")
	}
	if c.Logger == nil {
		return errors.New("config: Logger is required")
	}
	if c.Registerer == nil {
		return errors.New("config: Registerer is required")
	}
	return nil
}

// Dispatcher routes swap requests to the registered protocol executors
// behind one uniform call. It is the only surface an upstream router needs.
type Dispatcher struct {
	registry *Registry
	logger   *slog.Logger
	metrics  *Metrics
}

// NewDispatcher creates a Dispatcher from a validated config.
func NewDispatcher(cfg *DispatcherConfig) (*Dispatcher, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &Dispatcher{
		registry: cfg.Registry,
		logger:   cfg.Logger,
		metrics:  NewMetrics(cfg.Registerer),
	}, nil
}

// Swap dispatches an exact-input swap to the executor registered for protocol.
//
// The protocol lookup and amount check happen before any payload byte is
// inspected; an unknown protocol never reaches a codec. Executor failures
// propagate unmodified.
func (d *Dispatcher) Swap(ctx context.Context, protocol Protocol, amountIn *big.Int, data []byte) (*big.Int, error) {
	exec, ok := d.registry.Get(protocol)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProtocol, protocol)
	}
	if amountIn == nil || amountIn.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}

	start := time.Now()
	amountOut, err := exec.Swap(ctx, amountIn, data)
	elapsed := time.Since(start)

	if err != nil {
		d.metrics.observe(protocol, "error", elapsed)
		d.logger.Error("Swap failed",
			"protocol", protocol.String(),
			"amount_in", amountIn,
			"error", err,
		)
		return nil, err
	}

	d.metrics.observe(protocol, "success", elapsed)
	d.logger.Debug("Swap executed",
		"protocol", protocol.String(),
		"amount_in", amountIn,
		"amount_out", amountOut,
		"duration_ms", elapsed.Milliseconds(),
	)
	return amountOut, nil
}
