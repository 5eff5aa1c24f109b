// Package hooks provides functionality for executing pre and post run hooks.
package hooks

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/volleyload/volley/internal/config"
	verrors "github.com/volleyload/volley/internal/errors"
)

// HookRunner executes pre and post hooks around a load test run.
type HookRunner struct {
	execCommand func(command string, args ...string) ([]byte, error)
}

// NewHookRunner creates a new hook runner.
func NewHookRunner() *HookRunner {
	return &HookRunner{
		execCommand: func(command string, args ...string) ([]byte, error) {
			return exec.Command(command, args...).CombinedOutput()
		},
	}
}

// RunPreHook executes the pre-hook script if configured.
func (h *HookRunner) RunPreHook(cfg *config.Config) error {
	if cfg.Hooks.Pre == "" {
		return nil
	}

	if _, err := os.Stat(cfg.Hooks.Pre); os.IsNotExist(err) {
		return verrors.WithPreHookNotFoundDetails(cfg.Hooks.Pre)
	}

	output, err := h.execCommand(cfg.Hooks.Pre)
	if err != nil {
		return fmt.Errorf("pre-hook script execution failed: %w\n%s", err, string(output))
	}

	return nil
}

// RunPostHook executes the post-hook script if configured, passing the
// run's exit code as its first argument.
func (h *HookRunner) RunPostHook(cfg *config.Config, exitCode int) error {
	if cfg.Hooks.Post == "" {
		return nil
	}

	if _, err := os.Stat(cfg.Hooks.Post); os.IsNotExist(err) {
		return verrors.WithPostHookNotFoundDetails(cfg.Hooks.Post)
	}

	output, err := h.execCommand(cfg.Hooks.Post, strconv.Itoa(exitCode))
	if err != nil {
		return fmt.Errorf("post-hook script execution failed: %w\n%s", err, string(output))
	}

	return nil
}
