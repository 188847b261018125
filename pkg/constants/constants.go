package constants

import "time"

// Application constants
const (
	AppName = "fulltext"
	// Note: the version is injected via ldflags in main.go
)

// Extraction constants
const (
	// FilePlaceholder marks the argv element replaced by the attachment path
	FilePlaceholder = "__FILE__"

	// MaxFulltextLength is the hard cap, in characters, of an extracted text
	MaxFulltextLength = 4 << 20

	// DefaultCommandTimeout bounds every external converter run
	DefaultCommandTimeout = 2 * time.Minute
)

// File and service constants
const (
	DefaultFilePermission = 0644
	DefaultDirPermission  = 0755

	MaxUploadSize      = 64 << 20
	DefaultListenAddr  = ":8081"
	DefaultWorkers     = 2
	MaxWorkers         = 64
	DefaultQueueLength = 128
)

// Converter tool names, as used in the text_extractors configuration
const (
	ToolPdfToText = "pdftotext"
	ToolUnrtf     = "unrtf"
	ToolCatdoc    = "catdoc"
	ToolXls2csv   = "xls2csv"
	ToolCatppt    = "catppt"
)

// Compiled-in converter commands
var (
	DefaultPdfToTextCommand = []string{"/usr/bin/pdftotext", "-enc", "UTF-8", FilePlaceholder, "-"}
	DefaultUnrtfCommand     = []string{"/usr/bin/unrtf", "--text", FilePlaceholder}
	DefaultCatdocCommand    = []string{"/usr/bin/catdoc", "-dutf-8", FilePlaceholder}
	DefaultXls2csvCommand   = []string{"/usr/bin/xls2csv", "-dutf-8", FilePlaceholder}
	DefaultCatpptCommand    = []string{"/usr/bin/catppt", "-dutf-8", FilePlaceholder}
)

// DefaultCommands returns a fresh copy of the compiled-in argv per tool
func DefaultCommands() map[string][]string {
	defaults := map[string][]string{
		ToolPdfToText: DefaultPdfToTextCommand,
		ToolUnrtf:     DefaultUnrtfCommand,
		ToolCatdoc:    DefaultCatdocCommand,
		ToolXls2csv:   DefaultXls2csvCommand,
		ToolCatppt:    DefaultCatpptCommand,
	}
	out := make(map[string][]string, len(defaults))
	for tool, argv := range defaults {
		out[tool] = append([]string(nil), argv...)
	}
	return out
}

// ToolNames lists the configurable converters in a stable order
var ToolNames = []string{ToolPdfToText, ToolUnrtf, ToolCatdoc, ToolXls2csv, ToolCatppt}

// Media types
const (
	MediaTypePDF = "application/pdf"
	MediaTypeRTF = "application/rtf"

	MediaTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MediaTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var (
	PptxMediaTypes = []string{
		"application/vnd.openxmlformats-officedocument.presentationml.presentation",
		"application/vnd.openxmlformats-officedocument.presentationml.slideshow",
		"application/vnd.ms-powerpoint.template.macroEnabled.12",
	}

	OpendocumentMediaTypes = []string{
		"application/vnd.oasis.opendocument.presentation",
		"application/vnd.oasis.opendocument.presentation-template",
		"application/vnd.oasis.opendocument.text",
		"application/vnd.oasis.opendocument.text-template",
		"application/vnd.oasis.opendocument.spreadsheet",
		"application/vnd.oasis.opendocument.spreadsheet-template",
	}

	DocMediaTypes = []string{
		"application/vnd.ms-word",
		"application/msword",
	}

	XlsMediaTypes = []string{
		"application/vnd.ms-excel",
		"application/excel",
	}

	PptMediaTypes = []string{
		"application/vnd.ms-powerpoint",
		"application/powerpoint",
	}

	PlaintextMediaTypes = []string{
		"text/csv",
		"text/plain",
	}
)

// XML locations of text inside zipped office documents
const (
	DocxEntry     = "word/document.xml"
	DocxNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

	XlsxEntry     = "xl/sharedStrings.xml"
	XlsxNamespace = "http://schemas.openxmlformats.org/spreadsheetml/2006/main"

	PptxEntryPattern = `(?:^|/)slide(\d+)\.xml$`
	PptxNamespace    = "http://schemas.openxmlformats.org/drawingml/2006/main"

	OfficeTextElement = "t"

	OpendocumentEntry     = "content.xml"
	OpendocumentElement   = "p"
	OpendocumentNamespace = "urn:oasis:names:tc:opendocument:xmlns:text:1.0"
)
