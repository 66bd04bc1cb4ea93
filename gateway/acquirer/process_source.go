package acquirer

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/yaron8/microlink/gateway/config"
)

const (
	jsonFlag = "--json"
	// waitDelay bounds how long Wait blocks on output pipes held open by
	// grandchildren after the simulator itself has exited or been killed.
	waitDelay = 500 * time.Millisecond
)

// ProcessSource runs the simulator executable once per attempt.
type ProcessSource struct {
	command string
}

func NewProcessSource(command string) *ProcessSource {
	return &ProcessSource{command: command}
}

func (s *ProcessSource) Mode() config.Mode {
	return config.ModeProcess
}

// FetchRaw runs "<command> --json" and returns stdout and stderr combined.
// The process is always waited for, so it is reaped on every return path.
func (s *ProcessSource) FetchRaw(ctx context.Context) ([]byte, error) {
	cmd := s.newCmd(ctx)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, s.runError(ctx, err)
	}

	return output, nil
}

// Probe launches the simulator and waits for a zero exit, output discarded.
func (s *ProcessSource) Probe(ctx context.Context) error {
	if err := s.newCmd(ctx).Run(); err != nil {
		return s.runError(ctx, err)
	}
	return nil
}

func (s *ProcessSource) newCmd(ctx context.Context) *exec.Cmd {
	cmd := exec.CommandContext(ctx, s.command, jsonFlag)
	cmd.WaitDelay = waitDelay
	return cmd
}

func (s *ProcessSource) runError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("simulator %s did not finish: %w", s.command, ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return fmt.Errorf("%w: %s exit code %d", ErrNonZeroExit, s.command, exitErr.ExitCode())
	}

	return fmt.Errorf("failed to run simulator %s: %w", s.command, err)
}
