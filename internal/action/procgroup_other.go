//go:build !unix

package action

import (
	"os/exec"
	"time"
)

func configureProcessGroup(cmd *exec.Cmd) {
	cmd.WaitDelay = 100 * time.Millisecond
}
