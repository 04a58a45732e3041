package platform

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/afero"
)

// ExecBits are the owner, group and other execute permission bits.
const ExecBits os.FileMode = 0o111

// keepBits are the mode bits chmod understands.
const keepBits = os.ModePerm | os.ModeSetuid | os.ModeSetgid | os.ModeSticky

// Chmod sets file permissions. On Windows this is a no-op because Windows
// does not support Unix-style permission bits.
func Chmod(fs afero.Fs, path string, mode os.FileMode) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	return fs.Chmod(path, mode)
}

// AddExecBits adds ExecBits to the current mode of path, leaving every other
// permission bit as it was, and returns the resulting mode.
func AddExecBits(fs afero.Fs, path string) (os.FileMode, error) {
	info, err := fs.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("reading mode of %s: %w", path, err)
	}

	mode := info.Mode()&keepBits | ExecBits
	if err := Chmod(fs, path, mode); err != nil {
		return 0, fmt.Errorf("making %s executable: %w", path, err)
	}
	return mode, nil
}
