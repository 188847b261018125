package providers

import (
	"context"
	"regexp"
	"strings"

	"github.com/nodewee/fulltext/pkg/archive"
	"github.com/nodewee/fulltext/pkg/constants"
	"github.com/nodewee/fulltext/pkg/interfaces"
	"github.com/nodewee/fulltext/pkg/logger"
	"github.com/nodewee/fulltext/pkg/types"
	"github.com/nodewee/fulltext/pkg/utils"
)

// ZippedXMLHandler reads text from a single XML entry of an OOXML or
// OpenDocument container
type ZippedXMLHandler struct {
	mediaTypes
	entry     string
	element   string
	namespace string
	logger    *logger.Logger
}

var _ interfaces.Handler = (*ZippedXMLHandler)(nil)

// NewZippedXMLHandler creates a handler for entry/element/namespace
func NewZippedXMLHandler(name, entry, element, namespace string, log *logger.Logger, accepted ...string) *ZippedXMLHandler {
	return &ZippedXMLHandler{
		mediaTypes: newMediaTypes(name, accepted...),
		entry:      entry,
		element:    element,
		namespace:  namespace,
		logger:     log,
	}
}

// Text extracts the text of the target entry
func (h *ZippedXMLHandler) Text(ctx context.Context, att *types.Attachment) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, utils.NewFatalError("extraction interrupted", err)
	}

	text, found, err := archive.ReadEntryText(att.DiskPath, h.entry, h.element, h.namespace)
	if err != nil {
		return "", false, utils.WrapError(err, "", h.name+" extraction failed")
	}
	if !found {
		h.logger.Debug("%s: entry %s not found in %s", h.name, h.entry, att.DiskPath)
		return "", false, nil
	}
	if strings.TrimSpace(text) == "" {
		return "", false, nil
	}
	return text, true, nil
}

// NewDocxHandler reads word/document.xml
func NewDocxHandler(log *logger.Logger) *ZippedXMLHandler {
	return NewZippedXMLHandler("docx", constants.DocxEntry, constants.OfficeTextElement,
		constants.DocxNamespace, log, constants.MediaTypeDOCX)
}

// NewXlsxHandler reads the shared strings table
func NewXlsxHandler(log *logger.Logger) *ZippedXMLHandler {
	return NewZippedXMLHandler("xlsx", constants.XlsxEntry, constants.OfficeTextElement,
		constants.XlsxNamespace, log, constants.MediaTypeXLSX)
}

// NewOpendocumentHandler reads content.xml paragraphs of ODF documents
func NewOpendocumentHandler(log *logger.Logger) *ZippedXMLHandler {
	return NewZippedXMLHandler("opendocument", constants.OpendocumentEntry, constants.OpendocumentElement,
		constants.OpendocumentNamespace, log, constants.OpendocumentMediaTypes...)
}

// PptxHandler reads every slide entry and joins them in slide order
type PptxHandler struct {
	mediaTypes
	pattern   *regexp.Regexp
	element   string
	namespace string
	logger    *logger.Logger
}

var _ interfaces.Handler = (*PptxHandler)(nil)

// NewPptxHandler creates the presentation handler
func NewPptxHandler(log *logger.Logger) *PptxHandler {
	return &PptxHandler{
		mediaTypes: newMediaTypes("pptx", constants.PptxMediaTypes...),
		pattern:    regexp.MustCompile(constants.PptxEntryPattern),
		element:    constants.OfficeTextElement,
		namespace:  constants.PptxNamespace,
		logger:     log,
	}
}

// Text extracts all slides ordered by slide number
func (h *PptxHandler) Text(ctx context.Context, att *types.Attachment) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, utils.NewFatalError("extraction interrupted", err)
	}

	slides, err := archive.ReadEntriesText(att.DiskPath, h.pattern, h.element, h.namespace)
	if err != nil {
		return "", false, utils.WrapError(err, "", h.name+" extraction failed")
	}
	h.logger.Debug("%s: read %d slides from %s", h.name, len(slides), att.DiskPath)

	text := archive.JoinEntries(slides)
	if strings.TrimSpace(text) == "" {
		return "", false, nil
	}
	return text, true, nil
}
