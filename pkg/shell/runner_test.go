package shell

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nodewee/fulltext/pkg/constants"
	"github.com/nodewee/fulltext/pkg/logger"
	"github.com/nodewee/fulltext/pkg/utils"
)

// writeScript writes a shell script into dir with the given mode
func writeScript(t *testing.T, dir, name, body string, mode os.FileMode) string {
	t.Helper()
	if constants.IsWindows() {
		t.Skip("shell scripts are not executable on Windows")
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), mode); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(path, mode); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestSubstitute(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		want []string
	}{
		{
			name: "placeholder in the middle",
			argv: []string{"/bin/tool", "-x", constants.FilePlaceholder, "-"},
			want: []string{"/bin/tool", "-x", "/tmp/a b.pdf", "-"},
		},
		{
			name: "only the first placeholder",
			argv: []string{"/bin/tool", constants.FilePlaceholder, constants.FilePlaceholder},
			want: []string{"/bin/tool", "/tmp/a b.pdf", constants.FilePlaceholder},
		},
		{
			name: "no placeholder",
			argv: []string{"/bin/tool", "-v"},
			want: []string{"/bin/tool", "-v"},
		},
		{
			name: "placeholder inside a larger argument is literal",
			argv: []string{"/bin/tool", "--in=" + constants.FilePlaceholder},
			want: []string{"/bin/tool", "--in=" + constants.FilePlaceholder},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := append([]string(nil), tt.argv...)
			got := Substitute(tt.argv, "/tmp/a b.pdf")
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("Substitute() = %q, want %q", got, tt.want)
			}
			if strings.Join(tt.argv, "|") != strings.Join(original, "|") {
				t.Errorf("Substitute() modified its input: %q", tt.argv)
			}
		})
	}
}

func TestAvailable(t *testing.T) {
	dir := t.TempDir()
	exe := writeScript(t, dir, "tool", "exit 0", 0755)
	plain := writeScript(t, dir, "plain", "exit 0", 0644)

	tests := []struct {
		name string
		argv []string
		want bool
	}{
		{"executable", []string{exe, constants.FilePlaceholder}, true},
		{"empty argv", nil, false},
		{"relative path", []string{"tool"}, false},
		{"not executable", []string{plain}, false},
		{"missing", []string{filepath.Join(dir, "missing")}, false},
		{"directory", []string{dir}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Available(tt.argv); got != tt.want {
				t.Errorf("Available(%q) = %v, want %v", tt.argv, got, tt.want)
			}
		})
	}
}

func TestRunReturnsStdout(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "cat-file", `cat "$1"`, 0755)
	input := filepath.Join(dir, "input.txt")
	writeFile(t, input, "lorem ipsum fulltext find me!")

	r := NewRunner(time.Minute, logger.Discard())
	out, err := r.Run(context.Background(), []string{script, constants.FilePlaceholder}, input)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if string(out) != "lorem ipsum fulltext find me!" {
		t.Errorf("Run() = %q", out)
	}
}

func TestRunPassesPathAsOneArgument(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "args", `printf '%s|' "$#" "$@"`, 0755)
	input := filepath.Join(dir, "name with spaces; $(touch pwned).txt")
	writeFile(t, input, "x")

	r := NewRunner(time.Minute, logger.Discard())
	out, err := r.Run(context.Background(), []string{script, "-a", constants.FilePlaceholder}, input)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	want := "2|-a|" + input + "|"
	if string(out) != want {
		t.Errorf("Run() = %q, want %q", out, want)
	}
	if _, err := os.Stat(filepath.Join(dir, "pwned")); err == nil {
		t.Error("file name was interpreted by a shell")
	}
}

func TestRunUnavailableDoesNotSpawn(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "spawned")
	script := writeScript(t, dir, "touch", "touch "+marker, 0644)

	r := NewRunner(time.Minute, logger.Discard())
	_, err := r.Run(context.Background(), []string{script}, filepath.Join(dir, "input"))
	if utils.GetErrorType(err) != utils.ErrorTypeUnavailable {
		t.Fatalf("Run() error = %v, want unavailable", err)
	}
	if _, err := os.Stat(marker); err == nil {
		t.Error("non-executable converter was spawned")
	}
}

func TestRunFailures(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		body    string
		timeout time.Duration
		want    utils.ErrorType
	}{
		{"non-zero exit", "echo broken >&2\nexit 3", time.Minute, utils.ErrorTypeCommand},
		{"timeout", "exec sleep 5", 100 * time.Millisecond, utils.ErrorTypeTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			script := writeScript(t, dir, strings.ReplaceAll(tt.name, " ", "-"), tt.body, 0755)
			r := NewRunner(tt.timeout, logger.Discard())

			started := time.Now()
			_, err := r.Run(context.Background(), []string{script}, "")
			if err == nil {
				t.Fatal("Run() error = nil")
			}
			if got := utils.GetErrorType(err); got != tt.want {
				t.Errorf("error type = %s, want %s (%v)", got, tt.want, err)
			}
			if utils.IsFatal(err) {
				t.Errorf("error %v should be recoverable", err)
			}
			if elapsed := time.Since(started); elapsed > 4*time.Second {
				t.Errorf("Run() took %s", elapsed)
			}
		})
	}
}

func TestRunCanceledContextIsFatal(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "slow", "exec sleep 5", 0755)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRunner(time.Minute, logger.Discard())
	_, err := r.Run(ctx, []string{script}, "")
	if !utils.IsFatal(err) {
		t.Errorf("Run() error = %v, want fatal", err)
	}
}

func TestNewRunnerDefaultTimeout(t *testing.T) {
	if got := NewRunner(0, logger.Discard()).Timeout(); got != constants.DefaultCommandTimeout {
		t.Errorf("Timeout() = %s, want %s", got, constants.DefaultCommandTimeout)
	}
}
