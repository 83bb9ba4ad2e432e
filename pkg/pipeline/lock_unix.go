//go:build unix

package pipeline

import (
	"fmt"
	"os"

	"github.com/Azure/automata/pkg/domain/errors"
	"golang.org/x/sys/unix"
)

type runLock struct {
	file *os.File
}

func acquireLock(path string) (*runLock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, errors.New(errors.CodeIoError, "pipeline", fmt.Sprintf("opening lock %s", path), err)
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		if err == unix.EWOULDBLOCK {
			return nil, errors.New(errors.CodeResourceExhausted, "pipeline",
				"another run holds the lock for this project", err)
		}
		return nil, errors.New(errors.CodeIoError, "pipeline", fmt.Sprintf("locking %s", path), err)
	}
	return &runLock{file: f}, nil
}

func (l *runLock) release() error {
	defer l.file.Close()
	return unix.Flock(int(l.file.Fd()), unix.LOCK_UN)
}
