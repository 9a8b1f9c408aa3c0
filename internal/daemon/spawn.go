package daemon

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/eliteGoblin/focusd/focus_app/internal/infra"
)

// backgroundArgs makes the child a hidden, watching owner.
var backgroundArgs = []string{"run", "--hidden"}

// StartDetached self-execs the owner in the background, detached from this
// terminal. extra arguments are appended after the defaults.
func StartDetached(extra ...string) (int, error) {
	executable, err := os.Executable()
	if err != nil {
		return 0, err
	}

	cmd := buildDetachedCommand(executable, extra...)
	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("failed to start background instance: %w", err)
	}

	pid := cmd.Process.Pid
	// The child outlives us; nothing will Wait on it.
	_ = cmd.Process.Release()
	return pid, nil
}

func buildDetachedCommand(executable string, extra ...string) *exec.Cmd {
	args := append(append([]string{}, backgroundArgs...), extra...)
	cmd := exec.Command(executable, args...)
	cmd.SysProcAttr = detachedProcAttr()

	// No stdin/stdout/stderr - fully detached
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil

	// Keep the data directory stable for the child.
	cmd.Env = append(os.Environ(), infra.DataDirEnv+"="+infra.DefaultDataDir())
	return cmd
}
