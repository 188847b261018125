package providers

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/nodewee/fulltext/pkg/constants"
	"github.com/nodewee/fulltext/pkg/interfaces"
	"github.com/nodewee/fulltext/pkg/logger"
	"github.com/nodewee/fulltext/pkg/types"
	"github.com/nodewee/fulltext/pkg/utils"
)

// CommandHandler extracts text by running an external converter
type CommandHandler struct {
	mediaTypes
	tool        string
	command     []string
	runner      interfaces.CommandRunner
	logger      *logger.Logger
	postProcess func(string) string
}

var _ interfaces.Handler = (*CommandHandler)(nil)

// NewCommandHandler creates a handler running command for the given media types
func NewCommandHandler(name, tool string, command []string, runner interfaces.CommandRunner, log *logger.Logger, accepted ...string) *CommandHandler {
	return &CommandHandler{
		mediaTypes: newMediaTypes(name, accepted...),
		tool:       tool,
		command:    append([]string(nil), command...),
		runner:     runner,
		logger:     log,
	}
}

// Tool returns the configuration key of the converter
func (h *CommandHandler) Tool() string {
	return h.tool
}

// Command returns a copy of the converter argv
func (h *CommandHandler) Command() []string {
	return append([]string(nil), h.command...)
}

// Available reports whether the converter can be executed
func (h *CommandHandler) Available() bool {
	return h.runner.Available(h.command)
}

// Accept requires a matching media type and an executable converter
func (h *CommandHandler) Accept(att *types.Attachment) bool {
	return h.mediaTypes.Accept(att) && h.Available()
}

// Text runs the converter on the attachment and returns its output
func (h *CommandHandler) Text(ctx context.Context, att *types.Attachment) (string, bool, error) {
	h.logger.Progress("⚙️", "Running %s on %s", h.tool, att.DiskPath)

	out, err := h.runner.Run(ctx, h.command, att.DiskPath)
	if err != nil {
		return "", false, utils.WrapError(err, "", h.name+" extraction failed")
	}

	if !utf8.Valid(out) {
		return "", false, utils.NewMalformedError(h.tool+" output is not valid UTF-8", nil)
	}

	text := string(out)
	if h.postProcess != nil {
		text = h.postProcess(text)
	}
	if strings.TrimSpace(text) == "" {
		return "", false, nil
	}
	return text, true, nil
}

// NewPdfHandler uses pdftotext
func NewPdfHandler(command []string, runner interfaces.CommandRunner, log *logger.Logger) *CommandHandler {
	return NewCommandHandler("pdf", constants.ToolPdfToText, command, runner, log, constants.MediaTypePDF)
}

// NewRtfHandler uses unrtf
func NewRtfHandler(command []string, runner interfaces.CommandRunner, log *logger.Logger) *CommandHandler {
	return NewCommandHandler("rtf", constants.ToolUnrtf, command, runner, log, constants.MediaTypeRTF)
}

// NewDocHandler uses catdoc
func NewDocHandler(command []string, runner interfaces.CommandRunner, log *logger.Logger) *CommandHandler {
	return NewCommandHandler("doc", constants.ToolCatdoc, command, runner, log, constants.DocMediaTypes...)
}

// NewXlsHandler uses xls2csv and strips its CSV delimiters
func NewXlsHandler(command []string, runner interfaces.CommandRunner, log *logger.Logger) *CommandHandler {
	h := NewCommandHandler("xls", constants.ToolXls2csv, command, runner, log, constants.XlsMediaTypes...)
	h.postProcess = StripCSVDelimiters
	return h
}

// NewPptHandler uses catppt
func NewPptHandler(command []string, runner interfaces.CommandRunner, log *logger.Logger) *CommandHandler {
	return NewCommandHandler("ppt", constants.ToolCatppt, command, runner, log, constants.PptMediaTypes...)
}

var commaRun = regexp.MustCompile(`,+`)

// StripCSVDelimiters deletes double quotes and turns comma runs into a space
func StripCSVDelimiters(s string) string {
	s = strings.ReplaceAll(s, `"`, "")
	return commaRun.ReplaceAllString(s, " ")
}
