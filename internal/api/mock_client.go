package api

import (
	"context"
	"sync"

	"github.com/diogo/relaychat/internal/models"
)

// MockChatClient is a mock implementation of ChatClientInterface for testing
type MockChatClient struct {
	// Mock return values
	ChatVal     string
	ChatErr     error
	EndpointVal string
	IsClosedVal bool

	// Call counters/recorders
	mu          sync.Mutex
	ChatCalls   int
	CloseCalled bool
	LastMessage string
}

// Ensure MockChatClient implements ChatClientInterface
var _ ChatClientInterface = (*MockChatClient)(nil)

func (m *MockChatClient) Chat(ctx context.Context, message string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ChatCalls++
	m.LastMessage = message
	return m.ChatVal, m.ChatErr
}

func (m *MockChatClient) Respond(ctx context.Context, req models.ExchangeRequest) models.ExchangeResult {
	reply, err := m.Chat(ctx, req.Message)
	if err != nil {
		return models.ResultFromError(err)
	}
	return models.Success(reply)
}

func (m *MockChatClient) Endpoint() string {
	return m.EndpointVal
}

func (m *MockChatClient) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CloseCalled = true
}

func (m *MockChatClient) IsClosed() bool {
	return m.IsClosedVal
}

// Calls returns how many times Chat was invoked
func (m *MockChatClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ChatCalls
}
