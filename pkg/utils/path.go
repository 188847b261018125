package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nodewee/fulltext/pkg/constants"
)

// PathUtils provides cross-platform path utilities
type PathUtils struct{}

// NewPathUtils creates a new PathUtils instance
func NewPathUtils() *PathUtils {
	return &PathUtils{}
}

// NormalizePath normalizes a path for the current platform
func (p *PathUtils) NormalizePath(path string) string {
	cleaned := filepath.Clean(path)

	// Upper-case drive letters on Windows
	if constants.IsWindows() && len(cleaned) >= 2 && cleaned[1] == ':' {
		if cleaned[0] >= 'a' && cleaned[0] <= 'z' {
			cleaned = strings.ToUpper(string(cleaned[0])) + cleaned[1:]
		}
	}

	return cleaned
}

// EnsureDir creates a directory if it doesn't exist
func (p *PathUtils) EnsureDir(dirPath string) error {
	if dirPath == "" {
		return fmt.Errorf("directory path cannot be empty")
	}
	if err := os.MkdirAll(p.NormalizePath(dirPath), constants.DefaultDirPermission); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dirPath, err)
	}
	return nil
}

// IsExecutable checks if path is an absolute path to an executable regular file
func (p *PathUtils) IsExecutable(filePath string) bool {
	if !filepath.IsAbs(filePath) {
		return false
	}

	info, err := os.Stat(filePath)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}

	if constants.IsWindows() {
		ext := strings.ToLower(filepath.Ext(filePath))
		return ext == ".exe" || ext == ".bat" || ext == ".cmd"
	}
	return info.Mode()&0111 != 0
}

// ExpandPath expands environment variables and a leading ~ in path
func (p *PathUtils) ExpandPath(path string) (string, error) {
	expanded := os.ExpandEnv(path)

	if strings.HasPrefix(expanded, "~") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}

		if expanded == "~" {
			expanded = homeDir
		} else if strings.HasPrefix(expanded, "~/") {
			expanded = filepath.Join(homeDir, expanded[2:])
		}
	}

	return p.NormalizePath(expanded), nil
}

// Global instance for easy access
var DefaultPathUtils = NewPathUtils()

func NormalizePath(path string) string {
	return DefaultPathUtils.NormalizePath(path)
}

func EnsureDir(dirPath string) error {
	return DefaultPathUtils.EnsureDir(dirPath)
}

func IsExecutable(filePath string) bool {
	return DefaultPathUtils.IsExecutable(filePath)
}

func ExpandPath(path string) (string, error) {
	return DefaultPathUtils.ExpandPath(path)
}
