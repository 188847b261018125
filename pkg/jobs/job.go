package jobs

import (
	"context"

	"github.com/nodewee/fulltext/pkg/interfaces"
	"github.com/nodewee/fulltext/pkg/logger"
	"github.com/nodewee/fulltext/pkg/utils"
)

// ExtractFulltextJob extracts and stores the fulltext of one attachment
type ExtractFulltextJob struct {
	store     interfaces.AttachmentStore
	extractor interfaces.Extractor
	logger    *logger.Logger
}

// NewExtractFulltextJob creates the job over a store and an extractor
func NewExtractFulltextJob(store interfaces.AttachmentStore, extractor interfaces.Extractor, log *logger.Logger) *ExtractFulltextJob {
	return &ExtractFulltextJob{
		store:     store,
		extractor: extractor,
		logger:    log,
	}
}

// Perform extracts the text of attachment id and persists it. A missing or
// unreadable attachment is skipped. Only fatal errors are returned.
func (j *ExtractFulltextJob) Perform(ctx context.Context, id string) error {
	att, err := j.store.Find(id)
	if err != nil {
		if utils.IsFatal(err) {
			return err
		}
		j.logger.Warn("Skipping fulltext extraction of %s: %v", id, err)
		return nil
	}

	if !att.Readable() {
		j.logger.Warn("Skipping fulltext extraction of %s: file %s is not readable", id, att.DiskPath)
		return nil
	}

	result, err := j.extractor.Extract(ctx, att)
	if err != nil {
		return err
	}
	if result == nil {
		j.logger.Debug("No fulltext for attachment %s (%s)", id, att.ContentType)
		return nil
	}

	if err := j.store.UpdateFulltext(id, result.Text); err != nil {
		if utils.IsFatal(err) {
			return err
		}
		j.logger.Error("Failed to save fulltext of %s: %v", id, err)
		return nil
	}

	j.logger.Progress("💾", "Saved fulltext of %s (%d characters, %s)", id, len(result.Text), result.HandlerUsed)
	return nil
}
