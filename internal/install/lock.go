package install

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"

	"github.com/conn-castle/bottle/internal/messages"
)

// Seams for tests.
var (
	flock       = unix.Flock
	lockSleep   = time.Sleep
	lockTimeout = 30 * time.Second
	lockPoll    = 100 * time.Millisecond
)

// binaryLock is an exclusive flock on a hidden sidecar next to a managed
// binary. Concurrent bottle processes installing the same binary serialize on it.
type binaryLock struct {
	file *os.File
}

func binaryLockPath(dir string, name string) string {
	return filepath.Join(dir, "."+name+".lock")
}

// withBinaryLock runs fn while holding the install lock for name in dir.
func withBinaryLock(dir string, name string, fn func() error) error {
	lock, err := lockBinary(dir, name)
	if err != nil {
		return err
	}
	defer lock.unlock()
	return fn()
}

func lockBinary(dir string, name string) (*binaryLock, error) {
	path := binaryLockPath(dir, name)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf(messages.InstallOpenLockFmt, path, err)
	}
	if err := waitForFlock(file); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf(messages.InstallLockFmt, path, err)
	}
	return &binaryLock{file: file}, nil
}

func (l *binaryLock) unlock() {
	_ = flock(int(l.file.Fd()), unix.LOCK_UN)
	_ = l.file.Close()
}

// waitForFlock retries a non-blocking exclusive flock every lockPoll until
// lockTimeout of waiting has accumulated.
func waitForFlock(file *os.File) error {
	fd := int(file.Fd())
	for waited := time.Duration(0); ; waited += lockPoll {
		err := flock(fd, unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			return nil
		}
		if !errors.Is(err, unix.EWOULDBLOCK) {
			return err
		}
		if waited >= lockTimeout {
			return fmt.Errorf(messages.InstallLockTimeoutFmt, lockTimeout)
		}
		lockSleep(lockPoll)
	}
}
