package fileutil

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// CopyVerified copies src to dst through a temporary sibling, creating
// dst's parent directories. The temporary file is re-read and compared
// against the source digest before it is renamed into place, so dst either
// holds an exact copy or does not exist.
func CopyVerified(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create destination dir: %w", err)
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	want := sha256.New()
	_, copyErr := io.Copy(tmp, io.TeeReader(in, want))
	if err := errors.Join(copyErr, tmp.Chmod(0o644), tmp.Close()); err != nil {
		return fmt.Errorf("copy %s: %w", filepath.Base(src), err)
	}

	got, err := digest(tmpPath)
	if err != nil {
		return err
	}
	if !bytes.Equal(want.Sum(nil), got) {
		return fmt.Errorf("copy %s: digest mismatch", filepath.Base(src))
	}
	return os.Rename(tmpPath, dst)
}

func digest(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return nil, fmt.Errorf("hash %s: %w", filepath.Base(path), err)
	}
	return h.Sum(nil), nil
}

// UniquePath returns path when nothing exists there, otherwise the first free
// "name (n).ext" sibling.
func UniquePath(path string) string {
	if !exists(path) {
		return path
	}
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	for n := 2; ; n++ {
		candidate := stem + " (" + strconv.Itoa(n) + ")" + ext
		if !exists(candidate) {
			return candidate
		}
	}
}

// Within reports whether path lies inside root (or is root).
func Within(root, path string) bool {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return !errors.Is(err, fs.ErrNotExist)
}
