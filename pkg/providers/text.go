package providers

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/nodewee/fulltext/pkg/constants"
	"github.com/nodewee/fulltext/pkg/interfaces"
	"github.com/nodewee/fulltext/pkg/logger"
	"github.com/nodewee/fulltext/pkg/types"
	"github.com/nodewee/fulltext/pkg/utils"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// TextFileHandler handles plain text and CSV files
type TextFileHandler struct {
	mediaTypes
	logger *logger.Logger
}

var _ interfaces.Handler = (*TextFileHandler)(nil)

// NewTextFileHandler creates the plaintext handler
func NewTextFileHandler(log *logger.Logger) *TextFileHandler {
	return &TextFileHandler{
		mediaTypes: newMediaTypes("plaintext", constants.PlaintextMediaTypes...),
		logger:     log,
	}
}

// Text reads the file and decodes it to UTF-8
func (h *TextFileHandler) Text(ctx context.Context, att *types.Attachment) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, utils.NewFatalError("extraction interrupted", err)
	}

	content, err := os.ReadFile(att.DiskPath)
	if err != nil {
		return "", false, utils.WrapError(err, utils.ErrorTypeIO, "error reading text file")
	}

	text, name := DecodeText(content, att.ContentType)
	h.logger.Debug("plaintext: decoded %s as %s", att.DiskPath, name)

	if strings.TrimSpace(text) == "" {
		return "", false, nil
	}
	return text, true, nil
}

// DecodeText converts content to valid UTF-8. Valid UTF-8 is kept as is,
// a byte order mark selects UTF-16, otherwise the encoding is guessed from
// the content and the declared content type. Bytes that still do not decode
// are replaced by '?'. The name of the encoding used is returned as well.
func DecodeText(content []byte, contentType string) (string, string) {
	content = bytes.TrimPrefix(content, utf8BOM)
	if utf8.Valid(content) {
		return string(content), "utf-8"
	}

	if bytes.HasPrefix(content, []byte{0xFF, 0xFE}) || bytes.HasPrefix(content, []byte{0xFE, 0xFF}) {
		dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
		if out, _, err := transform.Bytes(dec, content); err == nil {
			return strings.ToValidUTF8(string(out), "?"), "utf-16"
		}
	}

	enc, name, _ := charset.DetermineEncoding(content, contentType)
	if enc != nil && name != "utf-8" {
		if out, _, err := transform.Bytes(enc.NewDecoder(), content); err == nil {
			return strings.ToValidUTF8(string(out), "?"), name
		}
	}

	return strings.ToValidUTF8(string(content), "?"), fmt.Sprintf("%s (lossy)", name)
}
