package utils

import (
	"os"
	"path/filepath"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
)

// DeepCopyBytes is needed for scanners that reuse their buffer
func DeepCopyBytes(in []byte) []byte {
	if in == nil {
		return nil
	}
	out := make([]byte, len(in))
	copy(out, in)
	return out
}

// ExpandHome resolves leading tilde in path
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	return homedir.Expand(path)
}

func FileNotExists(path string) bool {
	_, err := os.Stat(path)
	return os.IsNotExist(err)
}

func StringIsValidDir(path string) bool {
	path, err := ExpandHome(path)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// EnsureDir creates directory tree if missing
func EnsureDir(path string) (string, error) {
	path, err := ExpandHome(path)
	if err != nil {
		return "", err
	}
	path = filepath.Clean(path)
	if StringIsValidDir(path) {
		return path, nil
	}
	if err := os.MkdirAll(path, 0750); err != nil {
		return "", &ErrInvalidPath{Path: path, Msg: err.Error()}
	}
	return path, nil
}
