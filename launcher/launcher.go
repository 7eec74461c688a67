// Package launcher starts search server processes and reads the port each
// one announces on its stdout.
package launcher

import (
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"sync"

	"github.com/rs/zerolog/log"
)

// PortDigits is the number of bytes a server writes to announce its port.
const PortDigits = 5

var ErrUnknownProcess = errors.New("unknown process")

type process struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser

	mu   sync.Mutex // Guards port and reads from stdout
	port int
}

// Launcher keeps track of the processes it started. It is safe for
// concurrent use.
type Launcher struct {
	mu    sync.Mutex
	procs map[int]*process
}

func New() *Launcher {
	return &Launcher{procs: map[int]*process{}}
}

// Open starts the server at path and returns its PID.
func (l *Launcher) Open(path string, args ...string) (int, error) {
	cmd := exec.Command(path, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return 0, fmt.Errorf("failed to set up stdout of %s: %w", path, err)
	}
	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("failed to launch %s: %w", path, err)
	}

	pid := cmd.Process.Pid
	l.mu.Lock()
	l.procs[pid] = &process{cmd: cmd, stdout: stdout}
	l.mu.Unlock()

	log.Info().Int("pid", pid).Msgf("launched %s", path)
	return pid, nil
}

// Port blocks until the process has announced its port. Later calls for the
// same PID return the same port. Closing the process unblocks a waiting call.
func (l *Launcher) Port(pid int) (int, error) {
	l.mu.Lock()
	proc, ok := l.procs[pid]
	l.mu.Unlock()
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownProcess, pid)
	}

	proc.mu.Lock()
	defer proc.mu.Unlock()
	if proc.port != 0 {
		return proc.port, nil
	}

	port, err := ReadPort(proc.stdout)
	if err != nil {
		return 0, fmt.Errorf("process %d: %w", pid, err)
	}
	proc.port = port
	return port, nil
}

// Close kills the process and waits for it to exit.
func (l *Launcher) Close(pid int) error {
	l.mu.Lock()
	proc, ok := l.procs[pid]
	delete(l.procs, pid)
	l.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownProcess, pid)
	}
	return kill(proc)
}

// CloseAll kills every process that is still open.
func (l *Launcher) CloseAll() error {
	l.mu.Lock()
	procs := l.procs
	l.procs = map[int]*process{}
	l.mu.Unlock()

	var errs []error
	for _, proc := range procs {
		errs = append(errs, kill(proc))
	}
	return errors.Join(errs...)
}

// Len is the number of open processes.
func (l *Launcher) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.procs)
}

func kill(proc *process) error {
	pid := proc.cmd.Process.Pid
	if err := proc.cmd.Process.Kill(); err != nil {
		return fmt.Errorf("failed to kill process %d: %w", pid, err)
	}
	// Killed processes exit with an error, which is expected here.
	_ = proc.cmd.Wait()
	log.Info().Int("pid", pid).Msg("closed process")
	return nil
}

// ReadPort reads exactly PortDigits bytes of left zero-padded decimal digits.
func ReadPort(r io.Reader) (int, error) {
	buf := make([]byte, PortDigits)
	if _, err := io.ReadFull(r, buf); err != nil {
		return 0, fmt.Errorf("failed to read port: %w", err)
	}

	port, err := strconv.Atoi(string(buf))
	if err != nil {
		return 0, fmt.Errorf("port is not a number: %w", err)
	}
	if port <= 0 || port > 65535 {
		return 0, fmt.Errorf("port %d is out of range", port)
	}
	return port, nil
}
