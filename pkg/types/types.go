package types

import (
	"os"
	"time"
)

// MediaType is a declared content type such as "application/pdf"
type MediaType = string

// Attachment is an uploaded file as persisted by the record store.
// Extraction only reads it.
type Attachment struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	ContentType MediaType `json:"content_type"`
	DiskPath    string    `json:"disk_path"`
	Filesize    int64     `json:"filesize"`
	Digest      string    `json:"digest"`
	Fulltext    string    `json:"fulltext,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Readable reports whether the uploaded bytes exist on disk and can be opened
func (a *Attachment) Readable() bool {
	if a == nil || a.DiskPath == "" {
		return false
	}
	info, err := os.Stat(a.DiskPath)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	f, err := os.Open(a.DiskPath)
	if err != nil {
		return false
	}
	f.Close()
	return true
}
