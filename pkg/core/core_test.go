package core

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/nodewee/fulltext/pkg/config"
	"github.com/nodewee/fulltext/pkg/constants"
	"github.com/nodewee/fulltext/pkg/interfaces"
	"github.com/nodewee/fulltext/pkg/logger"
	"github.com/nodewee/fulltext/pkg/types"
)

const marker = "lorem ipsum fulltext find me!"

// stubHandler is a configurable handler
type stubHandler struct {
	name     string
	accept   bool
	text     string
	ok       bool
	err      error
	panicVal interface{}
	calls    int
}

var _ interfaces.Handler = (*stubHandler)(nil)

func (h *stubHandler) Name() string { return h.name }
func (h *stubHandler) MediaTypes() []string { return []string{"application/x-" + h.name} }
func (h *stubHandler) Accept(att *types.Attachment) bool { return h.accept }

func (h *stubHandler) Text(ctx context.Context, att *types.Attachment) (string, bool, error) {
	h.calls++
	if h.panicVal != nil {
		panic(h.panicVal)
	}
	return h.text, h.ok, h.err
}

// fakeRunner reports every converter as available or not without running it
type fakeRunner struct {
	available bool
	output    string
	calls     int
}

func (f *fakeRunner) Available(argv []string) bool { return f.available && len(argv) > 0 }

func (f *fakeRunner) Run(ctx context.Context, argv []string, path string) ([]byte, error) {
	f.calls++
	return []byte(f.output), nil
}

func createDocx(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.docx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	ew, err := w.Create(constants.DocxEntry)
	if err != nil {
		t.Fatal(err)
	}
	ew.Write([]byte(`<w:document xmlns:w="` + constants.DocxNamespace + `"><w:body><w:p><w:r><w:t>` +
		marker + `</w:t></w:r></w:p></w:body></w:document>`))
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func createTextFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func defaultRegistry(runner interfaces.CommandRunner) *Registry {
	return NewRegistry(config.DefaultConfig(), runner, logger.Discard())
}
