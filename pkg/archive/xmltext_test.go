package archive

import (
	"archive/zip"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/nodewee/fulltext/pkg/utils"
)

const (
	testNS  = "http://schemas.openxmlformats.org/drawingml/2006/main"
	otherNS = "urn:example:other"
)

type zipEntry struct {
	name string
	body string
}

// createTestZip writes entries, in order, into a new archive
func createTestZip(t *testing.T, entries ...zipEntry) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.zip")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	for _, e := range entries {
		ew, err := w.Create(e.name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := ew.Write([]byte(e.body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func slideXML(text string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<p:sld xmlns:p="urn:example:pml" xmlns:a="` + testNS + `"><p:txBody><a:p><a:r><a:t>` + text + `</a:t></a:r></a:p></p:txBody></p:sld>`
}

func TestTextFromXML(t *testing.T) {
	tests := []struct {
		name string
		xml  string
		want string
	}{
		{
			name: "matching elements only",
			xml:  `<a:root xmlns:a="` + testNS + `"><a:t>lorem</a:t><a:x>hidden</a:x><a:t>ipsum</a:t></a:root>`,
			want: "lorem ipsum ",
		},
		{
			name: "same local name in another namespace",
			xml:  `<a:root xmlns:a="` + testNS + `" xmlns:o="` + otherNS + `"><o:t>skip</o:t><a:t>keep</a:t></a:root>`,
			want: "keep ",
		},
		{
			name: "default namespace",
			xml:  `<root xmlns="` + testNS + `"><t>find me</t></root>`,
			want: "find me ",
		},
		{
			name: "no namespace does not match",
			xml:  `<root><t>skip</t></root>`,
			want: "",
		},
		{
			name: "text of nested children is kept",
			xml:  `<a:root xmlns:a="` + testNS + `"><a:t>one <a:s>two</a:s> three</a:t></a:root>`,
			want: "one two three ",
		},
		{
			name: "entities are decoded",
			xml:  `<a:root xmlns:a="` + testNS + `"><a:t>fish &amp; chips</a:t></a:root>`,
			want: "fish & chips ",
		},
		{
			name: "latin-1 declaration",
			xml:  "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?><a:root xmlns:a=\"" + testNS + "\"><a:t>caf\xe9</a:t></a:root>",
			want: "café ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TextFromXML(strings.NewReader(tt.xml), "t", testNS)
			if err != nil {
				t.Fatalf("TextFromXML() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("TextFromXML() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTextFromXMLMalformed(t *testing.T) {
	_, err := TextFromXML(strings.NewReader(`<a:root xmlns:a="`+testNS+`"><a:t>open`), "t", testNS)
	if err == nil {
		t.Fatal("TextFromXML() error = nil for truncated document")
	}
}

func TestReadEntryText(t *testing.T) {
	path := createTestZip(t,
		zipEntry{"[Content_Types].xml", `<Types/>`},
		zipEntry{"ppt/slides/slide1.xml", slideXML("lorem ipsum fulltext find me!")},
	)

	text, found, err := ReadEntryText(path, "ppt/slides/slide1.xml", "t", testNS)
	if err != nil {
		t.Fatalf("ReadEntryText() error = %v", err)
	}
	if !found {
		t.Fatal("ReadEntryText() found = false")
	}
	if strings.TrimSpace(text) != "lorem ipsum fulltext find me!" {
		t.Errorf("ReadEntryText() = %q", text)
	}

	_, found, err = ReadEntryText(path, "word/document.xml", "t", testNS)
	if err != nil || found {
		t.Errorf("missing entry: found = %v, err = %v", found, err)
	}
}

func TestReadEntriesTextOrdersNumerically(t *testing.T) {
	path := createTestZip(t,
		zipEntry{"ppt/slides/slide10.xml", slideXML("Slide two")},
		zipEntry{"ppt/slides/slide2.xml", slideXML("find me")},
		zipEntry{"ppt/slides/_rels/slide1.xml.rels", `<Relationships/>`},
		zipEntry{"ppt/notesSlides/notesSlide1.xml", slideXML("speaker notes")},
		zipEntry{"ppt/slides/slide1.xml", slideXML("The Title")},
	)

	pattern := regexp.MustCompile(`(?:^|/)slide(\d+)\.xml$`)
	entries, err := ReadEntriesText(path, pattern, "t", testNS)
	if err != nil {
		t.Fatalf("ReadEntriesText() error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3: %+v", len(entries), entries)
	}

	got := strings.Join(strings.Fields(JoinEntries(entries)), " ")
	if got != "The Title find me Slide two" {
		t.Errorf("JoinEntries() = %q", got)
	}
}

func TestSortEntriesTieBreaksByName(t *testing.T) {
	entries := []EntryText{
		{Name: "b/slide1.xml", Key: 1},
		{Name: "a/slide2.xml", Key: 2},
		{Name: "a/slide1.xml", Key: 1},
	}
	SortEntries(entries)

	want := []string{"a/slide1.xml", "b/slide1.xml", "a/slide2.xml"}
	for i, e := range entries {
		if e.Name != want[i] {
			t.Errorf("entries[%d] = %s, want %s", i, e.Name, want[i])
		}
	}
}

func TestNotAnArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.docx")
	if err := os.WriteFile(path, []byte("this is not a zip file"), 0644); err != nil {
		t.Fatal(err)
	}

	_, _, err := ReadEntryText(path, "word/document.xml", "t", testNS)
	if utils.GetErrorType(err) != utils.ErrorTypeMalformed {
		t.Errorf("ReadEntryText() error = %v, want malformed", err)
	}

	_, err = ReadEntriesText(path, regexp.MustCompile(`slide(\d+)\.xml$`), "t", testNS)
	if utils.GetErrorType(err) != utils.ErrorTypeMalformed {
		t.Errorf("ReadEntriesText() error = %v, want malformed", err)
	}
}

func TestMalformedEntry(t *testing.T) {
	path := createTestZip(t, zipEntry{"content.xml", `<a:root xmlns:a="` + testNS + `"><a:t>`})

	_, _, err := ReadEntryText(path, "content.xml", "t", testNS)
	if utils.GetErrorType(err) != utils.ErrorTypeMalformed {
		t.Errorf("ReadEntryText() error = %v, want malformed", err)
	}
	if utils.IsFatal(err) {
		t.Errorf("malformed entry must be recoverable")
	}
}
