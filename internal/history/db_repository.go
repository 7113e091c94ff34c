package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/xuanhai0913/Vision-Key/internal/answer"
)

type entryRecord struct {
	ID        string    `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	Provider  string    `db:"provider"`
	Model     string    `db:"model"`
	Raw       string    `db:"raw"`
	Answers   []byte    `db:"answers"`
}

func (r entryRecord) toEntry() (Entry, error) {
	entry := Entry{
		ID:        r.ID,
		CreatedAt: r.CreatedAt,
		Provider:  r.Provider,
		Model:     r.Model,
		Raw:       r.Raw,
	}
	if len(r.Answers) > 0 {
		var answers []answer.ParsedAnswer
		if err := json.Unmarshal(r.Answers, &answers); err != nil {
			return Entry{}, fmt.Errorf("json.Unmarshal(answers of %s) > %w", r.ID, err)
		}
		entry.Answers = answers
	}
	return entry, nil
}

// DBRepository implements Repository using the history_entries MySQL table.
type DBRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{
		db:  db,
		now: time.Now,
	}
}

func (r *DBRepository) Save(ctx context.Context, entry *Entry) error {
	prepare(entry, r.now)

	answers, err := json.Marshal(entry.Answers)
	if err != nil {
		return fmt.Errorf("json.Marshal(answers) > %w", err)
	}
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO history_entries (id, created_at, provider, model, raw, answers)
		VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.CreatedAt, entry.Provider, entry.Model, entry.Raw, answers); err != nil {
		return fmt.Errorf("db.ExecContext(insert history_entry) > %w", err)
	}
	return nil
}

func (r *DBRepository) List(ctx context.Context, limit int) ([]Entry, error) {
	query := "SELECT id, created_at, provider, model, raw, answers FROM history_entries ORDER BY created_at DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var records []entryRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext(history_entries) > %w", err)
	}

	entries := make([]Entry, 0, len(records))
	for _, record := range records {
		entry, err := record.toEntry()
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (r *DBRepository) Get(ctx context.Context, id string) (Entry, error) {
	var record entryRecord
	err := r.db.GetContext(ctx, &record,
		"SELECT id, created_at, provider, model, raw, answers FROM history_entries WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("id %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Entry{}, fmt.Errorf("db.GetContext(history_entry) > %w", err)
	}
	return record.toEntry()
}
