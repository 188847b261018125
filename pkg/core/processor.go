package core

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/nodewee/fulltext/pkg/interfaces"
	"github.com/nodewee/fulltext/pkg/logger"
	"github.com/nodewee/fulltext/pkg/types"
	"github.com/nodewee/fulltext/pkg/utils"
)

// Processor resolves a handler for an attachment, runs it and normalizes the
// result. It holds no per-request state and is safe for concurrent use.
type Processor struct {
	registry *Registry
	logger   *logger.Logger
}

var _ interfaces.Extractor = (*Processor)(nil)

// NewProcessor creates an extraction processor over registry
func NewProcessor(registry *Registry, log *logger.Logger) *Processor {
	return &Processor{
		registry: registry,
		logger:   log,
	}
}

// Registry returns the handler chain used by the processor
func (p *Processor) Registry() *Registry {
	return p.registry
}

// Extract returns the fulltext of att, or nil when no handler matched or the
// handler produced no text. Ordinary failures are logged and folded into a
// nil result; only fatal errors are returned.
func (p *Processor) Extract(ctx context.Context, att *types.Attachment) (*interfaces.ExtractionResult, error) {
	if att == nil {
		return nil, nil
	}
	startTime := time.Now()

	handler, ok := p.registry.Resolve(att)
	if !ok {
		return nil, nil
	}

	p.logger.Progress("🔍", "Extracting %s with %s", att.DiskPath, handler.Name())

	raw, found, err := p.runHandler(ctx, handler, att)
	if err != nil {
		if utils.IsFatal(err) {
			p.logger.Error("fatal error in fulltext extraction: %v", err)
			return nil, err
		}
		p.logger.Error("error in fulltext extraction: %v", err)
		return nil, nil
	}
	if !found {
		p.logger.Debug("Handler '%s' found no text in %s", handler.Name(), att.DiskPath)
		return nil, nil
	}

	text, truncated := Normalize(raw)
	if text == "" {
		return nil, nil
	}
	if truncated {
		p.logger.Warn("Fulltext of %s truncated to %d characters", att.DiskPath, utf8.RuneCountInString(text))
	}

	result := &interfaces.ExtractionResult{
		Text:        text,
		Source:      att.DiskPath,
		HandlerUsed: handler.Name(),
		ProcessTime: time.Since(startTime).Milliseconds(),
		Truncated:   truncated,
	}
	p.logger.Info("Extracted %d characters from %s using %s in %dms",
		utf8.RuneCountInString(result.Text), att.DiskPath, result.HandlerUsed, result.ProcessTime)
	return result, nil
}

// runHandler calls the handler and turns a panic into an error
func (p *Processor) runHandler(ctx context.Context, h interfaces.Handler, att *types.Attachment) (text string, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			if rErr, isErr := r.(error); isErr {
				err = utils.WrapError(rErr, "", fmt.Sprintf("handler %s panicked", h.Name()))
				return
			}
			err = utils.NewError(utils.ErrorTypeUnsupported, fmt.Sprintf("handler %s panicked: %v", h.Name(), r), nil)
		}
	}()
	return h.Text(ctx, att)
}
