package advice

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/dqanalyst/dq-engine/pkg/models"
)

const systemMessage = "You are a data-quality analyst. Given measured quality metrics, " +
	"give short, concrete remediation advice. Refer only to the metrics provided; " +
	"do not invent columns or values."

// Service generates remediation advice from computed metrics.
type Service struct {
	client Client
	logger *zap.Logger
}

// NewService creates an advice service. client may be nil when no provider
// is configured; the service then reports unavailable.
func NewService(client Client, logger *zap.Logger) *Service {
	return &Service{client: client, logger: logger.Named("advice")}
}

// Available reports whether an advice provider is configured.
func (s *Service) Available() bool { return s.client != nil }

// ForDataset asks the model for remediation advice on one dataset profile.
func (s *Service) ForDataset(ctx context.Context, p *models.DatasetProfile) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("no advice provider configured")
	}
	prompt := "Advise on improving this dataset:\n\n" + BuildDatasetContext(p)
	text, err := s.client.Complete(ctx, systemMessage, prompt)
	if err != nil {
		return "", fmt.Errorf("dataset advice: %w", err)
	}
	s.logger.Debug("Generated dataset advice",
		zap.String("source", p.SourceName),
		zap.Int("advice_len", len(text)))
	return text, nil
}

// ForWorkspace asks the model for advice across the whole workspace.
func (s *Service) ForWorkspace(ctx context.Context, k *models.WorkspaceKpis) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("no advice provider configured")
	}
	prompt := "Advise on improving this workspace:\n\n" + BuildWorkspaceContext(k)
	text, err := s.client.Complete(ctx, systemMessage, prompt)
	if err != nil {
		return "", fmt.Errorf("workspace advice: %w", err)
	}
	return text, nil
}
