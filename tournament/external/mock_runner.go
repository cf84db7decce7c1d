/* mock_runner.go
 * Contains a Runner that records commands instead of running them, for tests of the packages above this one
 */

package external

import (
	"context"
	"sync"
)

// MockRunner records every command it receives. Handler, when set, decides the outcome of each call and may
// write files to simulate the program's side effects
type MockRunner struct {
	mu       sync.Mutex
	Commands []Command
	Handler  func(ctx context.Context, cmd Command) Outcome
}

// NewMockRunner creates a MockRunner where every command succeeds
func NewMockRunner() *MockRunner {
	return &MockRunner{}
}

// Run mock implementation
func (m *MockRunner) Run(ctx context.Context, cmd Command) Outcome {
	m.mu.Lock()
	m.Commands = append(m.Commands, cmd)
	handler := m.Handler
	m.mu.Unlock()

	if handler != nil {
		return handler(ctx, cmd)
	}
	return Outcome{Command: cmd.String()}
}

// Calls returns a copy of the recorded commands
func (m *MockRunner) Calls() []Command {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Command(nil), m.Commands...)
}

// CallsTo returns the recorded commands whose program name is name
func (m *MockRunner) CallsTo(name string) []Command {
	var out []Command
	for _, c := range m.Calls() {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}
