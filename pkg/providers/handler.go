package providers

import (
	"github.com/nodewee/fulltext/pkg/types"
)

// mediaTypes matches attachments by exact content type
type mediaTypes struct {
	name  string
	types []string
}

func newMediaTypes(name string, accepted ...string) mediaTypes {
	return mediaTypes{name: name, types: append([]string(nil), accepted...)}
}

// Name returns the name of the handler
func (m mediaTypes) Name() string {
	return m.name
}

// MediaTypes returns a copy of the accepted content types
func (m mediaTypes) MediaTypes() []string {
	return append([]string(nil), m.types...)
}

// Accept compares the attachment content type with the accepted set
func (m mediaTypes) Accept(att *types.Attachment) bool {
	if att == nil {
		return false
	}
	for _, t := range m.types {
		if att.ContentType == t {
			return true
		}
	}
	return false
}
