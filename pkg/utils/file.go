package utils

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/nodewee/fulltext/pkg/constants"
)

var unsafeFileNameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)

// SanitizeFileName strips any directory part and replaces characters that
// are not portable in file names
func SanitizeFileName(filename string) string {
	filename = strings.ReplaceAll(filename, "\\", "/")
	filename = filepath.Base(filename)
	filename = unsafeFileNameChars.ReplaceAllString(filename, "_")
	filename = strings.TrimSpace(filename)
	if filename == "." || filename == "/" {
		filename = ""
	}
	if len(filename) > 250 {
		filename = filename[:250]
	}
	return filename
}

// CopyWithDigest writes src to a temporary file next to dst, renames it into
// place and returns the byte count and hex SHA-256 of what was written
func CopyWithDigest(dst string, src io.Reader) (int64, string, error) {
	dir := filepath.Dir(dst)
	if err := EnsureDir(dir); err != nil {
		return 0, "", err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dst)+".*")
	if err != nil {
		return 0, "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	hash := sha256.New()
	n, err := io.Copy(io.MultiWriter(tmp, hash), src)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return n, "", fmt.Errorf("failed to write %s: %w", dst, err)
	}

	if err := os.Chmod(tmpName, constants.DefaultFilePermission); err != nil {
		return n, "", err
	}
	if err := os.Rename(tmpName, dst); err != nil {
		return n, "", fmt.Errorf("failed to move file into place: %w", err)
	}
	return n, hex.EncodeToString(hash.Sum(nil)), nil
}

// WriteFileAtomic replaces path with data in a single rename
func WriteFileAtomic(path string, data []byte) error {
	_, _, err := CopyWithDigest(path, bytes.NewReader(data))
	return err
}
