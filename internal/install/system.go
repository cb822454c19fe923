package install

import (
	"io"
	"os"
	"os/exec"
)

// System abstracts the processes and files installers touch so tests can
// run against stub executables and temp directories.
type System interface {
	LookPath(file string) (string, error)
	// Run executes name with args, streaming its output to stdout and stderr.
	Run(stdout io.Writer, stderr io.Writer, name string, args ...string) error
	// Output executes name with args and returns its standard output.
	Output(name string, args ...string) ([]byte, error)
	MkdirAll(path string, perm os.FileMode) error
}

// RealSystem implements System with os/exec and the local filesystem.
type RealSystem struct{}

// LookPath searches PATH for an executable named file.
func (RealSystem) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// Run executes name with args and waits for it to exit.
func (RealSystem) Run(stdout io.Writer, stderr io.Writer, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// Output executes name with args and returns its standard output.
func (RealSystem) Output(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).Output()
}

// MkdirAll creates a directory named path, along with any necessary parents.
func (RealSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}
