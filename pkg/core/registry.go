package core

import (
	"github.com/nodewee/fulltext/pkg/config"
	"github.com/nodewee/fulltext/pkg/constants"
	"github.com/nodewee/fulltext/pkg/interfaces"
	"github.com/nodewee/fulltext/pkg/logger"
	"github.com/nodewee/fulltext/pkg/providers"
	"github.com/nodewee/fulltext/pkg/types"
)

// Registry is the ordered handler chain. Most specific handlers come first,
// fallbacks last. It is immutable once built.
type Registry struct {
	handlers []interfaces.Handler
	logger   *logger.Logger
}

// HandlerStatus describes a registered handler
type HandlerStatus struct {
	Name       string   `json:"name"`
	MediaTypes []string `json:"media_types"`
	Command    []string `json:"command,omitempty"`
	Available  bool     `json:"available"`
}

// NewRegistry builds the default handler chain from the configuration
func NewRegistry(cfg *config.Config, runner interfaces.CommandRunner, log *logger.Logger) *Registry {
	r := NewRegistryWithHandlers(log,
		providers.NewPdfHandler(cfg.Command(constants.ToolPdfToText), runner, log),
		providers.NewOpendocumentHandler(log),
		providers.NewDocxHandler(log),
		providers.NewXlsxHandler(log),
		providers.NewPptxHandler(log),
		providers.NewDocHandler(cfg.Command(constants.ToolCatdoc), runner, log),
		providers.NewXlsHandler(cfg.Command(constants.ToolXls2csv), runner, log),
		providers.NewPptHandler(cfg.Command(constants.ToolCatppt), runner, log),
		providers.NewRtfHandler(cfg.Command(constants.ToolUnrtf), runner, log),
		providers.NewTextFileHandler(log),
	)

	for _, status := range r.Describe() {
		if len(status.Command) > 0 && !status.Available {
			log.Info("Handler %s disabled: %s is not executable", status.Name, status.Command[0])
		}
	}
	return r
}

// NewRegistryWithHandlers builds a registry from an explicit chain
func NewRegistryWithHandlers(log *logger.Logger, handlers ...interfaces.Handler) *Registry {
	r := &Registry{
		handlers: append([]interfaces.Handler(nil), handlers...),
		logger:   log,
	}
	log.Debug("Registered %d handlers", len(r.handlers))
	return r
}

// Resolve returns the first handler accepting the attachment
func (r *Registry) Resolve(att *types.Attachment) (interfaces.Handler, bool) {
	for _, h := range r.handlers {
		if h.Accept(att) {
			r.logger.Debug("Selected handler '%s' for %s", h.Name(), att.ContentType)
			return h, true
		}
	}
	r.logger.Debug("No handler accepts content type %q", att.ContentType)
	return nil, false
}

// Handlers returns the chain in resolution order
func (r *Registry) Handlers() []interfaces.Handler {
	return append([]interfaces.Handler(nil), r.handlers...)
}

// Describe reports every handler with its converter availability
func (r *Registry) Describe() []HandlerStatus {
	statuses := make([]HandlerStatus, 0, len(r.handlers))
	for _, h := range r.handlers {
		status := HandlerStatus{
			Name:       h.Name(),
			MediaTypes: h.MediaTypes(),
			Available:  true,
		}
		if ch, ok := h.(*providers.CommandHandler); ok {
			status.Command = ch.Command()
			status.Available = ch.Available()
		}
		statuses = append(statuses, status)
	}
	return statuses
}
