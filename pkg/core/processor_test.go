package core

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/sync/errgroup"

	"github.com/nodewee/fulltext/pkg/constants"
	"github.com/nodewee/fulltext/pkg/logger"
	"github.com/nodewee/fulltext/pkg/types"
	"github.com/nodewee/fulltext/pkg/utils"
)

func TestProcessorExtract(t *testing.T) {
	tests := []struct {
		name      string
		handler   *stubHandler
		wantText  string
		wantFatal bool
	}{
		{
			name:     "normalizes text",
			handler:  &stubHandler{name: "stub", accept: true, text: "  lorem \n ipsum\t", ok: true},
			wantText: "lorem ipsum",
		},
		{
			name:    "no handler",
			handler: &stubHandler{name: "stub", accept: false, text: "ignored", ok: true},
		},
		{
			name:    "no text",
			handler: &stubHandler{name: "stub", accept: true, ok: false},
		},
		{
			name:    "only whitespace",
			handler: &stubHandler{name: "stub", accept: true, text: " \n ", ok: true},
		},
		{
			name:    "recoverable error",
			handler: &stubHandler{name: "stub", accept: true, err: utils.NewCommandError("exit status 1", nil)},
		},
		{
			name:    "plain error",
			handler: &stubHandler{name: "stub", accept: true, err: errors.New("boom")},
		},
		{
			name:      "fatal error",
			handler:   &stubHandler{name: "stub", accept: true, err: utils.NewFatalError("out of memory", nil)},
			wantFatal: true,
		},
		{
			name:      "canceled",
			handler:   &stubHandler{name: "stub", accept: true, err: context.Canceled},
			wantFatal: true,
		},
		{
			name:    "panic",
			handler: &stubHandler{name: "stub", accept: true, panicVal: "index out of range"},
		},
		{
			name:      "panic with fatal error",
			handler:   &stubHandler{name: "stub", accept: true, panicVal: utils.NewFatalError("disk full", nil)},
			wantFatal: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProcessor(NewRegistryWithHandlers(logger.Discard(), tt.handler), logger.Discard())

			result, err := p.Extract(context.Background(), &types.Attachment{ContentType: "application/x-stub"})
			if tt.wantFatal {
				if !utils.IsFatal(err) {
					t.Fatalf("Extract() error = %v, want fatal", err)
				}
				if result != nil {
					t.Errorf("Extract() result = %+v with a fatal error", result)
				}
				return
			}
			if err != nil {
				t.Fatalf("Extract() error = %v", err)
			}

			if tt.wantText == "" {
				if result != nil {
					t.Errorf("Extract() = %+v, want nil", result)
				}
				return
			}
			if result == nil {
				t.Fatal("Extract() = nil")
			}
			if result.Text != tt.wantText {
				t.Errorf("Extract() text = %q, want %q", result.Text, tt.wantText)
			}
			if result.HandlerUsed != tt.handler.name {
				t.Errorf("HandlerUsed = %q", result.HandlerUsed)
			}
		})
	}
}

func TestProcessorExtractDocx(t *testing.T) {
	p := NewProcessor(defaultRegistry(&fakeRunner{}), logger.Discard())

	result, err := p.Extract(context.Background(), &types.Attachment{
		ContentType: constants.MediaTypeDOCX,
		DiskPath:    createDocx(t),
	})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if result == nil || result.Text != marker {
		t.Fatalf("Extract() = %+v, want %q", result, marker)
	}
	if result.HandlerUsed != "docx" {
		t.Errorf("HandlerUsed = %s", result.HandlerUsed)
	}
}

func TestProcessorUnavailableConverterIsAbsent(t *testing.T) {
	runner := &fakeRunner{available: false, output: marker}
	p := NewProcessor(defaultRegistry(runner), logger.Discard())

	result, err := p.Extract(context.Background(), &types.Attachment{
		ContentType: constants.MediaTypePDF,
		DiskPath:    createTextFile(t, "%PDF-1.4"),
	})
	if err != nil || result != nil {
		t.Errorf("Extract() = %+v, %v; want nil, nil", result, err)
	}
	if runner.calls != 0 {
		t.Errorf("converter ran %d times", runner.calls)
	}
}

func TestProcessorInvalidConverterOutputIsAbsent(t *testing.T) {
	runner := &fakeRunner{available: true, output: "caf\xe9 find me"}
	p := NewProcessor(defaultRegistry(runner), logger.Discard())

	result, err := p.Extract(context.Background(), &types.Attachment{
		ContentType: constants.MediaTypePDF,
		DiskPath:    createTextFile(t, "%PDF-1.4"),
	})
	if err != nil || result != nil {
		t.Errorf("Extract() = %+v, %v; want nil, nil", result, err)
	}
	if runner.calls != 1 {
		t.Errorf("converter ran %d times, want 1", runner.calls)
	}
}

func TestProcessorNilAttachment(t *testing.T) {
	p := NewProcessor(defaultRegistry(&fakeRunner{}), logger.Discard())

	result, err := p.Extract(context.Background(), nil)
	if err != nil || result != nil {
		t.Errorf("Extract(nil) = %+v, %v; want nil, nil", result, err)
	}
}

func TestProcessorConcurrentExtraction(t *testing.T) {
	p := NewProcessor(defaultRegistry(&fakeRunner{}), logger.Discard())
	docx := createDocx(t)
	text := createTextFile(t, "plain  "+marker+"\n")

	atts := []*types.Attachment{
		{ContentType: constants.MediaTypeDOCX, DiskPath: docx},
		{ContentType: "text/plain", DiskPath: text},
	}

	want := make([]string, len(atts))
	for i, att := range atts {
		result, err := p.Extract(context.Background(), att)
		if err != nil || result == nil {
			t.Fatalf("sequential Extract() = %+v, %v", result, err)
		}
		want[i] = result.Text
	}

	const rounds = 16
	got := make([]string, rounds*len(atts))
	var g errgroup.Group
	for i := range got {
		i := i
		g.Go(func() error {
			result, err := p.Extract(context.Background(), atts[i%len(atts)])
			if err != nil {
				return err
			}
			if result != nil {
				got[i] = result.Text
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent Extract() error = %v", err)
	}

	for i, text := range got {
		if text != want[i%len(atts)] {
			t.Errorf("concurrent result %d = %q, want %q", i, text, want[i%len(atts)])
		}
	}
}
