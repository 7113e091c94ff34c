package inference

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// FileCachingClient keeps responses on disk so that they survive between runs.
// Entries are never expired; delete the directory to reset it.
type FileCachingClient struct {
	next    Client
	rootDir string
}

func NewFileCachingClient(next Client, cacheDirectory string) (*FileCachingClient, error) {
	if err := os.MkdirAll(cacheDirectory, 0755); err != nil {
		return nil, fmt.Errorf("os.MkdirAll(%s) > %w", cacheDirectory, err)
	}
	return &FileCachingClient{
		next:    next,
		rootDir: cacheDirectory,
	}, nil
}

func (c *FileCachingClient) filePath(key string) string {
	return filepath.Join(c.rootDir, key+".json")
}

func (c *FileCachingClient) Name() string {
	return c.next.Name()
}

func (c *FileCachingClient) Solve(ctx context.Context, req SolveRequest) (SolveResponse, error) {
	key := cacheKey(c.next.Name(), req)
	resp, err := c.read(key)
	if err == nil {
		slog.Default().Debug("inference file cache hit", "provider", resp.Provider, "key", key[:12])
		return resp, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		slog.Default().Warn("ignoring unreadable cache entry", "path", c.filePath(key), "error", err)
	}

	resp, err = c.next.Solve(ctx, req)
	if err != nil {
		return SolveResponse{}, err
	}
	if err := c.write(key, resp); err != nil {
		slog.Default().Warn("failed to cache a response", "error", err)
	}
	return resp, nil
}

func (c *FileCachingClient) Close() error {
	return c.next.Close()
}

func (c *FileCachingClient) read(key string) (SolveResponse, error) {
	contents, err := os.ReadFile(c.filePath(key))
	if err != nil {
		return SolveResponse{}, fmt.Errorf("os.ReadFile > %w", err)
	}
	var resp SolveResponse
	if err := json.Unmarshal(contents, &resp); err != nil {
		return SolveResponse{}, fmt.Errorf("json.Unmarshal > %w", err)
	}
	return resp, nil
}

func (c *FileCachingClient) write(key string, resp SolveResponse) error {
	contents, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("json.Marshal > %w", err)
	}
	if err := os.WriteFile(c.filePath(key), contents, 0644); err != nil {
		return fmt.Errorf("os.WriteFile > %w", err)
	}
	return nil
}
