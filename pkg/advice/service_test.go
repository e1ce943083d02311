package advice

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dqanalyst/dq-engine/pkg/config"
	"github.com/dqanalyst/dq-engine/pkg/models"
)

func TestService_Unavailable(t *testing.T) {
	svc := NewService(nil, zap.NewNop())
	assert.False(t, svc.Available())

	_, err := svc.ForDataset(context.Background(), &models.DatasetProfile{})
	assert.Error(t, err)
	_, err = svc.ForWorkspace(context.Background(), &models.WorkspaceKpis{})
	assert.Error(t, err)
}

func TestService_ForDataset(t *testing.T) {
	mock := &MockClient{Response: "fill the gaps in column email"}
	svc := NewService(mock, zap.NewNop())
	require.True(t, svc.Available())

	profile := &models.DatasetProfile{
		SourceName:      "orders",
		RowCount:        100,
		ColumnCount:     2,
		QualityScore:    91.5,
		CompletenessPct: 88,
		Columns: []*models.ColumnProfile{
			{Column: "email", InferredType: models.TypeText, CompletenessPct: 76},
		},
		Issues: []models.Issue{
			{Severity: models.SeverityMedium, Title: "Missing data", Detail: "column email", Column: "email"},
		},
	}

	text, err := svc.ForDataset(context.Background(), profile)
	require.NoError(t, err)
	assert.Equal(t, "fill the gaps in column email", text)
	assert.Equal(t, 1, mock.Calls)

	// The prompt carries metrics only, never raw records.
	assert.Contains(t, mock.LastPrompt, "Dataset: orders")
	assert.Contains(t, mock.LastPrompt, `column "email"`)
	assert.Contains(t, mock.LastPrompt, "Missing data")
	assert.Contains(t, mock.LastSystem, "data-quality analyst")
}

func TestService_ForWorkspace(t *testing.T) {
	mock := &MockClient{Response: "ok"}
	svc := NewService(mock, zap.NewNop())

	kpis := &models.WorkspaceKpis{DatasetCount: 3, ViewCount: 1, TotalRows: 500, KnownErrorCount: 12}
	_, err := svc.ForWorkspace(context.Background(), kpis)
	require.NoError(t, err)
	assert.Contains(t, mock.LastPrompt, "3 datasets")
	assert.Contains(t, mock.LastPrompt, "Known error cells: 12")
}

func TestService_ClientErrorPropagates(t *testing.T) {
	mock := &MockClient{Err: errors.New("rate limited")}
	svc := NewService(mock, zap.NewNop())

	_, err := svc.ForDataset(context.Background(), &models.DatasetProfile{})
	assert.ErrorContains(t, err, "rate limited")
}

func TestNewClient(t *testing.T) {
	// Unconfigured: no client, no error.
	client, err := NewClient(&config.AdviceConfig{}, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, client)

	// Unknown provider is an error, not a silent fallback.
	_, err = NewClient(&config.AdviceConfig{Provider: "palm", Model: "x"}, zap.NewNop())
	assert.Error(t, err)

	client, err = NewClient(&config.AdviceConfig{Provider: "anthropic", Model: "m", APIKey: "k"}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "m", client.Model())

	client, err = NewClient(&config.AdviceConfig{Provider: "openai", Model: "m", APIKey: "k"}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "m", client.Model())
}
