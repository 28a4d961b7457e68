package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/stretchr/testify/mock"

	"pagesdrop/pkg/models"
)

// MockVersionControl is a testify mock of the git capability used by a
// deployment run.
type MockVersionControl struct {
	mock.Mock
}

// Status records the call and returns the configured error
func (m *MockVersionControl) Status(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// AddRemote records the call and returns the configured error
func (m *MockVersionControl) AddRemote(ctx context.Context, name, url string) error {
	args := m.Called(ctx, name, url)
	return args.Error(0)
}

// SetRemoteURL records the call and returns the configured error
func (m *MockVersionControl) SetRemoteURL(ctx context.Context, name, url string) error {
	args := m.Called(ctx, name, url)
	return args.Error(0)
}

// Push records the call and returns the configured error
func (m *MockVersionControl) Push(ctx context.Context, remote, branch string) error {
	args := m.Called(ctx, remote, branch)
	return args.Error(0)
}

// CurrentBranch records the call and returns the configured branch
func (m *MockVersionControl) CurrentBranch(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// MockRepositoryHost is a testify mock of the GitHub capability used by a
// deployment run.
type MockRepositoryHost struct {
	mock.Mock
}

// CreateRepository records the call and returns the configured repository
func (m *MockRepositoryHost) CreateRepository(
	ctx context.Context,
	token string,
	spec models.RepositorySpec,
) (models.RemoteRepository, error) {
	args := m.Called(ctx, token, spec)
	repo, ok := args.Get(0).(models.RemoteRepository)
	if !ok {
		return models.RemoteRepository{}, args.Error(1)
	}
	return repo, args.Error(1)
}

// EnablePages records the call and returns the configured error
func (m *MockRepositoryHost) EnablePages(
	ctx context.Context,
	token, owner, repo string,
	source models.PagesSource,
) error {
	args := m.Called(ctx, token, owner, repo, source)
	return args.Error(0)
}

// ScriptedPrompter answers prompts from a fixed script. Input and Password
// consume answers in order; WaitForEnter only counts calls.
type ScriptedPrompter struct {
	mu        sync.Mutex
	answers   []string
	err       error
	Asked     []string
	WaitCalls int
}

// NewScriptedPrompter returns a prompter that answers with answers in order
func NewScriptedPrompter(answers ...string) *ScriptedPrompter {
	return &ScriptedPrompter{answers: answers}
}

// FailWith makes every later prompt fail with err
func (p *ScriptedPrompter) FailWith(err error) *ScriptedPrompter {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
	return p
}

// Input returns the next scripted answer
func (p *ScriptedPrompter) Input(message, _ string) (string, error) {
	return p.next(message)
}

// Password returns the next scripted answer
func (p *ScriptedPrompter) Password(message, _ string) (string, error) {
	return p.next(message)
}

// WaitForEnter returns immediately
func (p *ScriptedPrompter) WaitForEnter(message string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Asked = append(p.Asked, message)
	p.WaitCalls++
	return p.err
}

func (p *ScriptedPrompter) next(message string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Asked = append(p.Asked, message)
	if p.err != nil {
		return "", p.err
	}
	if len(p.answers) == 0 {
		return "", fmt.Errorf("no scripted answer for %q", message)
	}
	answer := p.answers[0]
	p.answers = p.answers[1:]
	return answer, nil
}
