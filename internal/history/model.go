// Package history records solved captures so they can be reviewed and exported later.
package history

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/xuanhai0913/Vision-Key/internal/answer"
)

//go:generate mockgen -source=model.go -destination=../mocks/history/mock_repository.go -package=mock_history

var ErrNotFound = errors.New("history entry not found")

// Entry is one model response together with the answers parsed from it.
type Entry struct {
	ID        string                `json:"id" yaml:"id"`
	CreatedAt time.Time             `json:"created_at" yaml:"created_at"`
	Provider  string                `json:"provider" yaml:"provider"`
	Model     string                `json:"model" yaml:"model"`
	Raw       string                `json:"raw" yaml:"raw"`
	Answers   []answer.ParsedAnswer `json:"answers,omitempty" yaml:"answers,omitempty"`
}

// Repository stores entries. List returns the newest entries first; a limit of 0 means no limit.
type Repository interface {
	Save(ctx context.Context, entry *Entry) error
	List(ctx context.Context, limit int) ([]Entry, error)
	Get(ctx context.Context, id string) (Entry, error)
}

// prepare fills the ID and creation time when the caller left them empty.
func prepare(entry *Entry, now func() time.Time) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now()
	}
	// MySQL DATETIME keeps microseconds at most; round both backends alike.
	entry.CreatedAt = entry.CreatedAt.UTC().Truncate(time.Microsecond)
}

// NopRepository discards entries. It backs the "none" history backend.
type NopRepository struct{}

func (NopRepository) Save(context.Context, *Entry) error {
	return nil
}

func (NopRepository) List(context.Context, int) ([]Entry, error) {
	return nil, nil
}

func (NopRepository) Get(context.Context, string) (Entry, error) {
	return Entry{}, ErrNotFound
}
