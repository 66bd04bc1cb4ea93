package acquirer

import (
	"context"
	"errors"
	"fmt"

	"github.com/yaron8/microlink/gateway/config"
)

var (
	ErrNonZeroExit       = errors.New("simulator exited with non-zero status")
	ErrUnexpectedStatus  = errors.New("unexpected status code from simulator")
	ErrUnsupportedSource = errors.New("unsupported acquisition mode")
)

// Source is one transport to the link simulator. Implementations return the
// raw bytes produced by the simulator; decoding is shared by the Acquirer.
type Source interface {
	Mode() config.Mode
	// FetchRaw runs one acquisition attempt and returns the simulator output.
	FetchRaw(ctx context.Context) ([]byte, error)
	// Probe runs a lightweight liveness check against the simulator.
	Probe(ctx context.Context) error
}

// NewSource builds the Source selected by cfg.Mode.
func NewSource(cfg config.SimulatorConfig) (Source, error) {
	switch cfg.Mode {
	case config.ModeProcess:
		return NewProcessSource(cfg.Command), nil
	case config.ModeHTTP:
		return NewHTTPSource(cfg.URL, cfg.Timeout()), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedSource, cfg.Mode)
	}
}
