package inference

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// FallbackClient tries its clients in order and returns the first successful response.
type FallbackClient struct {
	clients []Client
}

func NewFallbackClient(clients ...Client) (*FallbackClient, error) {
	if len(clients) == 0 {
		return nil, ErrNoProvider
	}
	return &FallbackClient{clients: clients}, nil
}

func (c *FallbackClient) Name() string {
	names := make([]string, 0, len(c.clients))
	for _, client := range c.clients {
		names = append(names, client.Name())
	}
	return strings.Join(names, ",")
}

func (c *FallbackClient) Solve(ctx context.Context, req SolveRequest) (SolveResponse, error) {
	var errs []error
	for i, client := range c.clients {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		resp, err := client.Solve(ctx, req)
		if err == nil {
			return resp, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", client.Name(), err))
		if i < len(c.clients)-1 {
			slog.Default().Warn("inference provider failed, falling back",
				"provider", client.Name(),
				"next", c.clients[i+1].Name(),
				"error", err)
		}
	}
	return SolveResponse{}, errors.Join(errs...)
}

func (c *FallbackClient) Close() error {
	var errs []error
	for _, client := range c.clients {
		if err := client.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
