package advice

import "context"

// MockClient is a test double for the advice Client interface.
type MockClient struct {
	Response string
	Err      error

	// Captured inputs from the last Complete call.
	LastSystem string
	LastPrompt string
	Calls      int
}

var _ Client = (*MockClient)(nil)

func (m *MockClient) Complete(_ context.Context, systemMessage, prompt string) (string, error) {
	m.Calls++
	m.LastSystem = systemMessage
	m.LastPrompt = prompt
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

func (m *MockClient) Model() string { return "mock" }
