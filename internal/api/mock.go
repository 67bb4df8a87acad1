package api

import (
	"context"

	"github.com/subtally/subtally/internal/model"
)

// MockClient is a mock implementation of the API contracts for testing.
type MockClient struct {
	// Functions that can be set by tests to control behavior
	UploadStatementFn    func(ctx context.Context, filePath string, opts UploadOptions) (*model.ImportJob, error)
	GetJobStatusFn       func(ctx context.Context, jobID string) (*model.ImportJob, error)
	GetPreviewFn         func(ctx context.Context, jobID string) (*model.ImportPreview, error)
	UpdateDetectedFn     func(ctx context.Context, candidateID string, selected bool) (*model.DetectedCandidate, error)
	BulkUpdateDetectedFn func(ctx context.Context, candidateIDs []string, selected bool) error
	ConfirmImportFn      func(ctx context.Context, jobID string, req ConfirmRequest) (*model.ImportResult, error)
	ListSubscriptionsFn  func(ctx context.Context) ([]model.Subscription, error)
	ListPaymentCardsFn   func(ctx context.Context) ([]model.PaymentCard, error)
	ListCategoriesFn     func(ctx context.Context) ([]model.Category, error)
	SendChatMessageFn    func(ctx context.Context, message string) (*model.ChatMessage, error)

	// Call tracking
	UploadCalls     []UploadCall
	StatusCalls     []string
	PreviewCalls    []string
	UpdateCalls     []UpdateCall
	BulkUpdateCalls []BulkUpdateCall
	ConfirmCalls    []ConfirmCall
	ChatCalls       []string
}

// UploadCall records the parameters of an UploadStatement call.
type UploadCall struct {
	FilePath string
	Opts     UploadOptions
}

// UpdateCall records the parameters of an UpdateDetected call.
type UpdateCall struct {
	CandidateID string
	Selected    bool
}

// BulkUpdateCall records the parameters of a BulkUpdateDetected call.
type BulkUpdateCall struct {
	CandidateIDs []string
	Selected     bool
}

// ConfirmCall records the parameters of a ConfirmImport call.
type ConfirmCall struct {
	JobID string
	Req   ConfirmRequest
}

// NewMockClient creates a new mock API client.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// UploadStatement implements ImportService.
func (m *MockClient) UploadStatement(ctx context.Context, filePath string, opts UploadOptions) (*model.ImportJob, error) {
	m.UploadCalls = append(m.UploadCalls, UploadCall{FilePath: filePath, Opts: opts})
	if m.UploadStatementFn != nil {
		return m.UploadStatementFn(ctx, filePath, opts)
	}
	return &model.ImportJob{ID: "job-1", Status: model.JobPending}, nil
}

// GetJobStatus implements ImportService.
func (m *MockClient) GetJobStatus(ctx context.Context, jobID string) (*model.ImportJob, error) {
	m.StatusCalls = append(m.StatusCalls, jobID)
	if m.GetJobStatusFn != nil {
		return m.GetJobStatusFn(ctx, jobID)
	}
	return &model.ImportJob{ID: jobID, Status: model.JobProcessing}, nil
}

// GetPreview implements ImportService.
func (m *MockClient) GetPreview(ctx context.Context, jobID string) (*model.ImportPreview, error) {
	m.PreviewCalls = append(m.PreviewCalls, jobID)
	if m.GetPreviewFn != nil {
		return m.GetPreviewFn(ctx, jobID)
	}
	return &model.ImportPreview{}, nil
}

// UpdateDetected implements ImportService.
func (m *MockClient) UpdateDetected(ctx context.Context, candidateID string, selected bool) (*model.DetectedCandidate, error) {
	m.UpdateCalls = append(m.UpdateCalls, UpdateCall{CandidateID: candidateID, Selected: selected})
	if m.UpdateDetectedFn != nil {
		return m.UpdateDetectedFn(ctx, candidateID, selected)
	}
	return &model.DetectedCandidate{ID: candidateID, IsSelected: selected}, nil
}

// BulkUpdateDetected implements ImportService.
func (m *MockClient) BulkUpdateDetected(ctx context.Context, candidateIDs []string, selected bool) error {
	m.BulkUpdateCalls = append(m.BulkUpdateCalls, BulkUpdateCall{CandidateIDs: candidateIDs, Selected: selected})
	if m.BulkUpdateDetectedFn != nil {
		return m.BulkUpdateDetectedFn(ctx, candidateIDs, selected)
	}
	return nil
}

// ConfirmImport implements ImportService.
func (m *MockClient) ConfirmImport(ctx context.Context, jobID string, req ConfirmRequest) (*model.ImportResult, error) {
	m.ConfirmCalls = append(m.ConfirmCalls, ConfirmCall{JobID: jobID, Req: req})
	if m.ConfirmImportFn != nil {
		return m.ConfirmImportFn(ctx, jobID, req)
	}
	return &model.ImportResult{}, nil
}

// ListSubscriptions implements Directory.
func (m *MockClient) ListSubscriptions(ctx context.Context) ([]model.Subscription, error) {
	if m.ListSubscriptionsFn != nil {
		return m.ListSubscriptionsFn(ctx)
	}
	return []model.Subscription{}, nil
}

// ListPaymentCards implements Directory.
func (m *MockClient) ListPaymentCards(ctx context.Context) ([]model.PaymentCard, error) {
	if m.ListPaymentCardsFn != nil {
		return m.ListPaymentCardsFn(ctx)
	}
	return []model.PaymentCard{}, nil
}

// ListCategories implements Directory.
func (m *MockClient) ListCategories(ctx context.Context) ([]model.Category, error) {
	if m.ListCategoriesFn != nil {
		return m.ListCategoriesFn(ctx)
	}
	return []model.Category{}, nil
}

// SendChatMessage implements Assistant.
func (m *MockClient) SendChatMessage(ctx context.Context, message string) (*model.ChatMessage, error) {
	m.ChatCalls = append(m.ChatCalls, message)
	if m.SendChatMessageFn != nil {
		return m.SendChatMessageFn(ctx, message)
	}
	return &model.ChatMessage{Role: model.RoleAssistant}, nil
}

// Reset clears all call tracking.
func (m *MockClient) Reset() {
	m.UploadCalls = nil
	m.StatusCalls = nil
	m.PreviewCalls = nil
	m.UpdateCalls = nil
	m.BulkUpdateCalls = nil
	m.ConfirmCalls = nil
	m.ChatCalls = nil
}

// Ensure MockClient implements all API contracts.
var (
	_ ImportService = (*MockClient)(nil)
	_ Directory     = (*MockClient)(nil)
	_ Assistant     = (*MockClient)(nil)
)
