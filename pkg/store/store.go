package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nodewee/fulltext/pkg/interfaces"
	"github.com/nodewee/fulltext/pkg/types"
	"github.com/nodewee/fulltext/pkg/utils"
)

const (
	dataFileName     = "data"
	metadataFileName = "attachment.json"
)

// FS keeps one directory per attachment under Root holding the uploaded bytes
// and a JSON metadata record
type FS struct {
	Root string
	mu   sync.RWMutex
}

var _ interfaces.AttachmentStore = (*FS)(nil)

// New creates the store root if needed
func New(root string) (*FS, error) {
	if err := utils.EnsureDir(root); err != nil {
		return nil, utils.WrapError(err, utils.ErrorTypeIO, "failed to create store root")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, utils.WrapError(err, utils.ErrorTypeIO, "failed to resolve store root")
	}
	return &FS{Root: abs}, nil
}

// AttachmentDir returns the directory holding attachment id
func (s *FS) AttachmentDir(id string) string { return filepath.Join(s.Root, id) }

// Create stores content as a new attachment
func (s *FS) Create(filename, contentType string, content io.Reader) (*types.Attachment, error) {
	id := uuid.NewString()
	dir := s.AttachmentDir(id)
	dataPath := filepath.Join(dir, dataFileName)

	size, digest, err := utils.CopyWithDigest(dataPath, content)
	if err != nil {
		os.RemoveAll(dir)
		return nil, utils.WrapError(err, "", "failed to store upload")
	}

	att := &types.Attachment{
		ID:          id,
		Filename:    utils.SanitizeFileName(filename),
		ContentType: contentType,
		DiskPath:    dataPath,
		Filesize:    size,
		Digest:      digest,
		CreatedAt:   time.Now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.save(att); err != nil {
		os.RemoveAll(dir)
		return nil, err
	}
	return att, nil
}

// Find loads attachment id
func (s *FS) Find(id string) (*types.Attachment, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, utils.NewNotFoundError(fmt.Sprintf("attachment %s not found", id), err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.load(id)
}

// UpdateFulltext stores the extracted text of attachment id
func (s *FS) UpdateFulltext(id, text string) error {
	if _, err := uuid.Parse(id); err != nil {
		return utils.NewNotFoundError(fmt.Sprintf("attachment %s not found", id), err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	att, err := s.load(id)
	if err != nil {
		return err
	}
	att.Fulltext = text
	return s.save(att)
}

func (s *FS) load(id string) (*types.Attachment, error) {
	data, err := os.ReadFile(filepath.Join(s.AttachmentDir(id), metadataFileName))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, utils.NewNotFoundError(fmt.Sprintf("attachment %s not found", id), err)
	}
	if err != nil {
		return nil, utils.WrapError(err, utils.ErrorTypeIO, "failed to read attachment record")
	}

	var att types.Attachment
	if err := json.Unmarshal(data, &att); err != nil {
		return nil, utils.NewMalformedError(fmt.Sprintf("attachment record %s is corrupt", id), err)
	}
	return &att, nil
}

func (s *FS) save(att *types.Attachment) error {
	data, err := json.MarshalIndent(att, "", "  ")
	if err != nil {
		return utils.WrapError(err, utils.ErrorTypeIO, "failed to encode attachment record")
	}
	if err := utils.WriteFileAtomic(filepath.Join(s.AttachmentDir(att.ID), metadataFileName), data); err != nil {
		return utils.WrapError(err, "", "failed to write attachment record")
	}
	return nil
}
