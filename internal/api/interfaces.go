package api

import (
	"context"

	"github.com/subtally/subtally/internal/model"
)

// UploadOptions carries the metadata submitted alongside a statement file.
type UploadOptions struct {
	BankID   string
	Currency string
	UseAI    bool
}

// ConfirmRequest names the candidates to import and their destination.
type ConfirmRequest struct {
	CardID          string
	CategoryID      string
	SubscriptionIDs []string
}

// ImportService defines the contract for the statement-import operations.
// This interface allows for easy mocking in tests.
type ImportService interface {
	UploadStatement(ctx context.Context, filePath string, opts UploadOptions) (*model.ImportJob, error)
	GetJobStatus(ctx context.Context, jobID string) (*model.ImportJob, error)
	GetPreview(ctx context.Context, jobID string) (*model.ImportPreview, error)
	UpdateDetected(ctx context.Context, candidateID string, selected bool) (*model.DetectedCandidate, error)
	BulkUpdateDetected(ctx context.Context, candidateIDs []string, selected bool) error
	ConfirmImport(ctx context.Context, jobID string, req ConfirmRequest) (*model.ImportResult, error)
}

// Directory defines read access to the account's reference data.
type Directory interface {
	ListSubscriptions(ctx context.Context) ([]model.Subscription, error)
	ListPaymentCards(ctx context.Context) ([]model.PaymentCard, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
}

// Assistant defines the chat operation.
type Assistant interface {
	SendChatMessage(ctx context.Context, message string) (*model.ChatMessage, error)
}
