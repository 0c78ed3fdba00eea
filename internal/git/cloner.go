// Package git clones documentation repositories, either through the git
// executable or in-process with go-git.
package git

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/go-git/go-git/v5"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"

	"github.com/quantmind-br/cheatsheet/internal/domain"
	"github.com/quantmind-br/cheatsheet/internal/utils"
)

// CLICloner shallow-clones with the git executable
type CLICloner struct {
	runner  domain.CommandRunner
	program string
	depth   int
	logger  *utils.Logger
}

// CLIClonerOptions contains options for CLICloner
type CLIClonerOptions struct {
	Runner  domain.CommandRunner
	Program string // defaults to "git"
	Depth   int    // defaults to 1
	Logger  *utils.Logger
}

// NewCLICloner creates a new CLICloner
func NewCLICloner(opts CLIClonerOptions) *CLICloner {
	if opts.Program == "" {
		opts.Program = "git"
	}
	if opts.Depth < 1 {
		opts.Depth = 1
	}
	return &CLICloner{
		runner:  opts.Runner,
		program: opts.Program,
		depth:   opts.Depth,
		logger:  opts.Logger,
	}
}

// Name returns the clone method name
func (c *CLICloner) Name() string {
	return "git"
}

// Clone runs `git clone --depth N --quiet <url> <dest>`
func (c *CLICloner) Clone(ctx context.Context, repoURL, destDir string) error {
	args := []string{"clone", "--depth", strconv.Itoa(c.depth), "--quiet", repoURL, destDir}

	res, err := c.runner.Run(ctx, domain.Command{Program: c.program, Args: args})
	if err != nil {
		return fmt.Errorf("git clone %s: %w", repoURL, err)
	}
	if c.logger != nil && res != nil && res.Stderr != "" {
		c.logger.Debug().Str("stderr", res.Stderr).Msg("git clone output")
	}
	return nil
}

// GoGitCloner shallow-clones in-process with go-git
type GoGitCloner struct {
	client Client
	depth  int
	token  string
	logger *utils.Logger
}

// GoGitClonerOptions contains options for GoGitCloner
type GoGitClonerOptions struct {
	Client Client // defaults to NewClient()
	Depth  int
	// Token is sent as HTTP basic auth; defaults to $GITHUB_TOKEN
	Token  string
	Logger *utils.Logger
}

// NewGoGitCloner creates a new GoGitCloner
func NewGoGitCloner(opts GoGitClonerOptions) *GoGitCloner {
	if opts.Client == nil {
		opts.Client = NewClient()
	}
	if opts.Depth < 1 {
		opts.Depth = 1
	}
	if opts.Token == "" {
		opts.Token = os.Getenv("GITHUB_TOKEN")
	}
	return &GoGitCloner{
		client: opts.Client,
		depth:  opts.Depth,
		token:  opts.Token,
		logger: opts.Logger,
	}
}

// Name returns the clone method name
func (c *GoGitCloner) Name() string {
	return "go-git"
}

// Clone clones the default branch of repoURL into destDir
func (c *GoGitCloner) Clone(ctx context.Context, repoURL, destDir string) error {
	cloneOpts := &git.CloneOptions{
		URL:          repoURL,
		Depth:        c.depth,
		SingleBranch: true,
	}

	if c.token != "" {
		cloneOpts.Auth = &githttp.BasicAuth{
			Username: "token",
			Password: c.token,
		}
	}

	if c.logger != nil {
		c.logger.Debug().Str("url", repoURL).Int("depth", c.depth).Msg("Cloning with go-git")
	}

	if _, err := c.client.PlainCloneContext(ctx, destDir, false, cloneOpts); err != nil {
		return fmt.Errorf("go-git clone %s: %w", repoURL, err)
	}
	return nil
}
