package content

import (
	"context"

	"github.com/dmitrijs2005/studybot/internal/server/models"
)

// Repository persists admin-uploaded content items. Items are append-only;
// nothing here mutates or deletes existing rows.
type Repository interface {
	Create(ctx context.Context, item *models.ContentItem) (*models.ContentItem, error)

	// DistinctSubjects lists subjects that actually have content under the
	// given class and category, alphabetically.
	DistinctSubjects(ctx context.Context, class, category string) ([]string, error)

	// DistinctChapters lists chapters with content under the given node,
	// alphabetically.
	DistinctChapters(ctx context.Context, class, category, subject string) ([]string, error)

	// ListByChapter returns all items for a chapter, newest first,
	// tie-broken by descending id.
	ListByChapter(ctx context.Context, class, category, subject, chapter string) ([]*models.ContentItem, error)

	Count(ctx context.Context) (int64, error)
}
