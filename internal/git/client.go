package git

import (
	"context"

	"github.com/go-git/go-git/v5"
)

// RealClient implements Client using go-git. It is the default Client
// of GoGitCloner; tests swap in a mock to avoid network clones.
type RealClient struct{}

// NewClient creates the client GoGitCloner uses when none is given
func NewClient() *RealClient {
	return &RealClient{}
}

// PlainCloneContext calls git.PlainCloneContext
func (c *RealClient) PlainCloneContext(ctx context.Context, path string, isBare bool, o *git.CloneOptions) (*git.Repository, error) {
	return git.PlainCloneContext(ctx, path, isBare, o)
}
