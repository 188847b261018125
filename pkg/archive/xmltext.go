// Package archive reads text out of XML entries stored in ZIP containers
// (OOXML and OpenDocument files) without extracting them to disk.
package archive

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/nodewee/fulltext/pkg/utils"
)

// EntryText is the text of one archive entry and its numeric sort key
type EntryText struct {
	Name string
	Key  int
	Text string
}

// ReadEntryText returns the text found in target elements of the first entry
// named entryName. ok is false when the archive has no such entry.
func ReadEntryText(archivePath, entryName, element, namespace string) (string, bool, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return "", false, utils.NewMalformedError("opening ZIP archive", err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != entryName {
			continue
		}
		text, err := entryText(f, element, namespace)
		if err != nil {
			return "", false, err
		}
		return text, true, nil
	}
	return "", false, nil
}

// ReadEntriesText parses every entry whose name matches pattern. The first
// capture group of pattern must be the decimal sort key. Results are in
// ascending key order.
func ReadEntriesText(archivePath string, pattern *regexp.Regexp, element, namespace string) ([]EntryText, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, utils.NewMalformedError("opening ZIP archive", err)
	}
	defer zr.Close()

	var entries []EntryText
	for _, f := range zr.File {
		m := pattern.FindStringSubmatch(f.Name)
		if m == nil || len(m) < 2 {
			continue
		}
		key, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		text, err := entryText(f, element, namespace)
		if err != nil {
			return nil, err
		}
		entries = append(entries, EntryText{Name: f.Name, Key: key, Text: text})
	}

	SortEntries(entries)
	return entries, nil
}

// SortEntries orders entries by key, then by name
func SortEntries(entries []EntryText) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Key != entries[j].Key {
			return entries[i].Key < entries[j].Key
		}
		return entries[i].Name < entries[j].Name
	})
}

// JoinEntries concatenates entry texts with single spaces
func JoinEntries(entries []EntryText) string {
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = e.Text
	}
	return strings.Join(parts, " ")
}

func entryText(f *zip.File, element, namespace string) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", utils.NewMalformedError(fmt.Sprintf("opening entry %s", f.Name), err)
	}
	defer rc.Close()

	text, err := TextFromXML(rc, element, namespace)
	if err != nil {
		return "", utils.WrapError(err, utils.ErrorTypeMalformed, fmt.Sprintf("parsing entry %s", f.Name))
	}
	return text, nil
}

// TextFromXML streams r and collects character data found inside elements
// with the given local name and namespace URI. A space is appended after
// each such element. Everything else is ignored.
func TextFromXML(r io.Reader, element, namespace string) (string, error) {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = charset.NewReaderLabel

	var sb strings.Builder
	depth := 0

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local == element && t.Name.Space == namespace {
				depth++
			}
		case xml.CharData:
			if depth > 0 {
				sb.Write(t)
			}
		case xml.EndElement:
			if t.Name.Local == element && t.Name.Space == namespace {
				sb.WriteByte(' ')
				if depth > 0 {
					depth--
				}
			}
		}
	}

	return sb.String(), nil
}
