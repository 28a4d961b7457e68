// Package exec runs external commands and reports failures with the
// command line and its combined output attached.
package exec

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ExitError is returned by Exec when a command runs but exits non-zero
type ExitError struct {
	Command  string
	Output   []byte
	ExitCode int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf(
		"error executing cmd [%s]: %s",
		e.Command,
		strings.TrimSpace(string(e.Output)),
	)
}

// Exec runs cmd and returns its combined stdout and stderr. A non-zero exit
// is reported as *ExitError; failures to start the command are returned
// unchanged.
func Exec(cmd *exec.Cmd) ([]byte, error) {
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	err := cmd.Run()
	output := buf.Bytes()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return output, &ExitError{
			Command:  cmd.String(),
			Output:   output,
			ExitCode: exitErr.ExitCode(),
		}
	}
	return output, err
}
