package pipeline

import (
	"encoding/hex"
	"path/filepath"

	"github.com/zeebo/blake3"
)

// LockPath names the lock file guarding runs against root. The file lives
// in dir, outside the project, so detection and archives never see it.
func LockPath(dir, root string) string {
	sum := blake3.Sum256([]byte(filepath.Clean(root)))
	return filepath.Join(dir, "automata-"+hex.EncodeToString(sum[:12])+".lock")
}
