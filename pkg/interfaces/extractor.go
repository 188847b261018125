package interfaces

import (
	"context"
	"io"

	"github.com/nodewee/fulltext/pkg/types"
)

// Handler extracts raw text from one family of document formats
type Handler interface {
	// Name returns the name of the handler
	Name() string

	// MediaTypes returns the content types the handler accepts
	MediaTypes() []string

	// Accept reports whether the handler can process the attachment
	Accept(att *types.Attachment) bool

	// Text returns the raw text of the attachment. ok is false when the
	// document yields no text.
	Text(ctx context.Context, att *types.Attachment) (text string, ok bool, err error)
}

// CommandRunner executes external converters
type CommandRunner interface {
	// Available reports whether argv can be executed
	Available(argv []string) bool

	// Run substitutes the placeholder with path, executes argv and returns stdout
	Run(ctx context.Context, argv []string, path string) ([]byte, error)
}

// Extractor turns an attachment into normalized fulltext
type Extractor interface {
	// Extract returns nil when no text could be produced. A non-nil error is
	// always fatal.
	Extract(ctx context.Context, att *types.Attachment) (*ExtractionResult, error)
}

// AttachmentStore is the record store holding uploaded files
type AttachmentStore interface {
	Create(filename, contentType string, content io.Reader) (*types.Attachment, error)
	Find(id string) (*types.Attachment, error)
	UpdateFulltext(id, text string) error
}

// ExtractionResult holds the normalized text of one attachment
type ExtractionResult struct {
	Text        string `json:"text"`
	Source      string `json:"source"`
	HandlerUsed string `json:"handler_used"`
	ProcessTime int64  `json:"process_time_ms"`
	Truncated   bool   `json:"truncated,omitempty"`
}
