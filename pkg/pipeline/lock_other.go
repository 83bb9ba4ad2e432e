//go:build !unix

package pipeline

import (
	"fmt"
	"os"

	"github.com/Azure/automata/pkg/domain/errors"
)

// runLock falls back to an exclusively created file. A crashed run leaves
// the file behind and it has to be removed by hand.
type runLock struct {
	file *os.File
	path string
}

func acquireLock(path string) (*runLock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0o600)
	if err != nil {
		if os.IsExist(err) {
			return nil, errors.New(errors.CodeResourceExhausted, "pipeline",
				fmt.Sprintf("another run holds the lock for this project (%s)", path), err)
		}
		return nil, errors.New(errors.CodeIoError, "pipeline", fmt.Sprintf("creating lock %s", path), err)
	}
	return &runLock{file: f, path: path}, nil
}

func (l *runLock) release() error {
	l.file.Close()
	return os.Remove(l.path)
}
