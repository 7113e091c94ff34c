package inference

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachingClient remembers responses for identical requests, so re-solving the
// same screen does not call the model again.
type CachingClient struct {
	next  Client
	cache *lru.Cache[string, SolveResponse]
}

func NewCachingClient(next Client, size int) (*CachingClient, error) {
	cache, err := lru.New[string, SolveResponse](size)
	if err != nil {
		return nil, fmt.Errorf("lru.New(%d) > %w", size, err)
	}
	return &CachingClient{
		next:  next,
		cache: cache,
	}, nil
}

func (c *CachingClient) Name() string {
	return c.next.Name()
}

func (c *CachingClient) Solve(ctx context.Context, req SolveRequest) (SolveResponse, error) {
	key := cacheKey(c.next.Name(), req)
	if resp, ok := c.cache.Get(key); ok {
		slog.Default().Debug("inference cache hit", "provider", resp.Provider, "key", key[:12])
		return resp, nil
	}

	resp, err := c.next.Solve(ctx, req)
	if err != nil {
		return SolveResponse{}, err
	}
	c.cache.Add(key, resp)
	return resp, nil
}

func (c *CachingClient) Close() error {
	c.cache.Purge()
	return c.next.Close()
}

// cacheKey identifies req as answered by provider, the Name of the wrapped client,
// so that switching providers never returns another provider's answer.
func cacheKey(provider string, req SolveRequest) string {
	h := sha256.New()
	for _, part := range [][]byte{[]byte(provider), req.Image, []byte(req.MIMEType), []byte(req.OCRText), []byte(req.Instruction)} {
		// Length prefixes keep ("ab", "c") and ("a", "bc") apart.
		fmt.Fprintf(h, "%d:", len(part))
		h.Write(part)
	}
	return hex.EncodeToString(h.Sum(nil))
}
