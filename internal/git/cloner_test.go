package git

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/quantmind-br/cheatsheet/internal/domain"
	"github.com/quantmind-br/cheatsheet/internal/mocks"
	"github.com/quantmind-br/cheatsheet/internal/runner"
	"github.com/quantmind-br/cheatsheet/internal/utils"
)

func TestCLICloner_Defaults(t *testing.T) {
	c := NewCLICloner(CLIClonerOptions{})
	assert.Equal(t, "git", c.Name())
	assert.Equal(t, "git", c.program)
	assert.Equal(t, 1, c.depth)
}

func TestCLICloner_Clone_Args(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockCommandRunner(ctrl)

	r.EXPECT().
		Run(gomock.Any(), domain.Command{
			Program: "git",
			Args:    []string{"clone", "--depth", "1", "--quiet", "https://github.com/acme/widget", "/tmp/ws/widget_repo"},
		}).
		Return(&domain.CommandResult{}, nil)

	c := NewCLICloner(CLIClonerOptions{Runner: r, Logger: utils.NewNopLogger()})
	err := c.Clone(context.Background(), "https://github.com/acme/widget", "/tmp/ws/widget_repo")
	require.NoError(t, err)
}

func TestCLICloner_Clone_CustomDepth(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockCommandRunner(ctrl)

	r.EXPECT().
		Run(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmd domain.Command) (*domain.CommandResult, error) {
			assert.Equal(t, "/usr/bin/git", cmd.Program)
			assert.Equal(t, []string{"clone", "--depth", "5", "--quiet", "u", "d"}, cmd.Args)
			return &domain.CommandResult{Stderr: "Cloning into 'd'..."}, nil
		})

	c := NewCLICloner(CLIClonerOptions{Runner: r, Program: "/usr/bin/git", Depth: 5, Logger: utils.NewNopLogger()})
	require.NoError(t, c.Clone(context.Background(), "u", "d"))
}

func TestCLICloner_Clone_Failure(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockCommandRunner(ctrl)

	cmdErr := domain.NewCommandError("git", nil, 128, "fatal: repository not found", domain.ErrCommandFailed)
	r.EXPECT().Run(gomock.Any(), gomock.Any()).Return(&domain.CommandResult{ExitCode: 128}, cmdErr)

	c := NewCLICloner(CLIClonerOptions{Runner: r})
	err := c.Clone(context.Background(), "https://example.com/missing.git", "/tmp/x")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCommandFailed)
	assert.Contains(t, err.Error(), "https://example.com/missing.git")
	assert.Contains(t, err.Error(), "repository not found")
}

func TestCLICloner_Clone_GitMissing(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockCommandRunner(ctrl)

	r.EXPECT().Run(gomock.Any(), gomock.Any()).
		Return(nil, domain.NewCommandError("git", nil, -1, "", domain.ErrCommandNotFound))

	c := NewCLICloner(CLIClonerOptions{Runner: r})
	err := c.Clone(context.Background(), "u", "d")
	assert.ErrorIs(t, err, domain.ErrCommandNotFound)
}

func TestGoGitCloner_Defaults(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "env-token")

	c := NewGoGitCloner(GoGitClonerOptions{})
	assert.Equal(t, "go-git", c.Name())
	assert.Equal(t, 1, c.depth)
	assert.Equal(t, "env-token", c.token)
	assert.IsType(t, &RealClient{}, c.client)
}

func TestGoGitCloner_Clone_Options(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")
	client := new(mocks.MockGitClient)

	client.On("PlainCloneContext", mock.Anything, "/tmp/dest", false, mock.MatchedBy(func(o *git.CloneOptions) bool {
		return o.URL == "https://github.com/acme/widget" && o.Depth == 2 && o.SingleBranch && o.Auth == nil
	})).Return(&git.Repository{}, nil)

	c := NewGoGitCloner(GoGitClonerOptions{Client: client, Depth: 2, Logger: utils.NewNopLogger()})
	require.NoError(t, c.Clone(context.Background(), "https://github.com/acme/widget", "/tmp/dest"))
	client.AssertExpectations(t)
}

func TestGoGitCloner_Clone_WithToken(t *testing.T) {
	client := new(mocks.MockGitClient)

	client.On("PlainCloneContext", mock.Anything, "/tmp/dest", false, mock.MatchedBy(func(o *git.CloneOptions) bool {
		auth, ok := o.Auth.(*githttp.BasicAuth)
		return ok && auth.Username == "token" && auth.Password == "secret"
	})).Return(&git.Repository{}, nil)

	c := NewGoGitCloner(GoGitClonerOptions{Client: client, Token: "secret"})
	require.NoError(t, c.Clone(context.Background(), "https://github.com/acme/private", "/tmp/dest"))
	client.AssertExpectations(t)
}

func TestGoGitCloner_Clone_Error(t *testing.T) {
	client := new(mocks.MockGitClient)
	client.On("PlainCloneContext", mock.Anything, mock.Anything, false, mock.Anything).
		Return(nil, errors.New("authentication required"))

	c := NewGoGitCloner(GoGitClonerOptions{Client: client, Token: "x"})
	err := c.Clone(context.Background(), "https://github.com/acme/private", "/tmp/dest")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "go-git clone https://github.com/acme/private")
	assert.Contains(t, err.Error(), "authentication required")
}

// initSourceRepo creates a local repository with one committed docs file
func initSourceRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "docs"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "docs", "guide.md"), []byte("# Guide\n"), 0644))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("docs/guide.md")
	require.NoError(t, err)
	_, err = wt.Commit("add docs", &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	return dir
}

func TestCLICloner_Clone_LocalRepository(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git executable not available")
	}

	src := initSourceRepo(t)
	dest := filepath.Join(t.TempDir(), "clone")

	c := NewCLICloner(CLIClonerOptions{Runner: runner.NewExecRunner(runner.ExecRunnerOptions{})})
	require.NoError(t, c.Clone(context.Background(), "file://"+src, dest))

	data, err := os.ReadFile(filepath.Join(dest, "docs", "guide.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Guide\n", string(data))
}
