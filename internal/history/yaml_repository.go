package history

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const dayFileLayout = "2006-01-02"

// YAMLRepository keeps one YAML file per UTC day, named YYYY-MM-DD.yml, under a directory.
type YAMLRepository struct {
	directory string
	now       func() time.Time
	mu        sync.Mutex
}

func NewYAMLRepository(directory string) *YAMLRepository {
	return &YAMLRepository{
		directory: directory,
		now:       time.Now,
	}
}

func (r *YAMLRepository) Save(_ context.Context, entry *Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prepare(entry, r.now)
	if err := os.MkdirAll(r.directory, 0755); err != nil {
		return fmt.Errorf("os.MkdirAll(%s) > %w", r.directory, err)
	}

	path := filepath.Join(r.directory, entry.CreatedAt.Format(dayFileLayout)+".yml")
	entries, err := readDayFile(path)
	if err != nil {
		return err
	}
	entries = append(entries, *entry)

	content, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("yaml.Marshal() > %w", err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("os.WriteFile(%s) > %w", path, err)
	}
	return nil
}

func (r *YAMLRepository) List(_ context.Context, limit int) ([]Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	files, err := r.dayFiles()
	if err != nil {
		return nil, err
	}

	var result []Entry
	// Day files are visited newest first, so the scan can stop once the limit is reached.
	for _, path := range files {
		entries, err := readDayFile(path)
		if err != nil {
			return nil, err
		}
		sortNewestFirst(entries)
		result = append(result, entries...)
		if limit > 0 && len(result) >= limit {
			return result[:limit], nil
		}
	}
	return result, nil
}

func (r *YAMLRepository) Get(_ context.Context, id string) (Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	files, err := r.dayFiles()
	if err != nil {
		return Entry{}, err
	}
	for _, path := range files {
		entries, err := readDayFile(path)
		if err != nil {
			return Entry{}, err
		}
		for _, entry := range entries {
			if entry.ID == id {
				return entry, nil
			}
		}
	}
	return Entry{}, fmt.Errorf("id %s: %w", id, ErrNotFound)
}

// dayFiles returns the day files, newest day first.
func (r *YAMLRepository) dayFiles() ([]string, error) {
	dirEntries, err := os.ReadDir(r.directory)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("os.ReadDir(%s) > %w", r.directory, err)
	}

	var files []string
	for _, dirEntry := range dirEntries {
		name := dirEntry.Name()
		if dirEntry.IsDir() || !strings.HasSuffix(name, ".yml") {
			continue
		}
		if _, err := time.Parse(dayFileLayout, strings.TrimSuffix(name, ".yml")); err != nil {
			continue
		}
		files = append(files, filepath.Join(r.directory, name))
	}
	sort.Sort(sort.Reverse(sort.StringSlice(files)))
	return files, nil
}

func readDayFile(path string) ([]Entry, error) {
	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile(%s) > %w", path, err)
	}

	var entries []Entry
	if err := yaml.Unmarshal(content, &entries); err != nil {
		return nil, fmt.Errorf("yaml.Unmarshal(%s) > %w", path, err)
	}
	return entries, nil
}

func sortNewestFirst(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
}
