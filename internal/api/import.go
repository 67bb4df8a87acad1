package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/subtally/subtally/internal/model"
)

// UploadStatement submits a statement file plus metadata to the backend and
// returns the analysis job created for it.
func (c *Client) UploadStatement(ctx context.Context, filePath string, opts UploadOptions) (*model.ImportJob, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open statement: %w", err)
	}
	defer func() { _ = f.Close() }()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filepath.Base(filePath))
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("failed to read statement: %w", err)
	}

	if opts.BankID != "" {
		if err := writer.WriteField("bank_id", opts.BankID); err != nil {
			return nil, fmt.Errorf("failed to write form field: %w", err)
		}
	}
	if err := writer.WriteField("currency", opts.Currency); err != nil {
		return nil, fmt.Errorf("failed to write form field: %w", err)
	}
	useAI := "false"
	if opts.UseAI {
		useAI = "true"
	}
	if err := writer.WriteField("use_ai", useAI); err != nil {
		return nil, fmt.Errorf("failed to write form field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize upload body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/import/upload", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var job model.ImportJob
	if err := c.send(req, &job); err != nil {
		return nil, fmt.Errorf("upload failed: %w", err)
	}
	return &job, nil
}

// GetJobStatus fetches the current state of a statement-analysis job.
func (c *Client) GetJobStatus(ctx context.Context, jobID string) (*model.ImportJob, error) {
	var job model.ImportJob
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/import/jobs/"+jobID, nil, &job); err != nil {
		return nil, fmt.Errorf("failed to fetch job status: %w", err)
	}
	if job.ID == "" {
		job.ID = jobID
	}
	return &job, nil
}

// GetPreview fetches the reviewable detection result for a ready job.
func (c *Client) GetPreview(ctx context.Context, jobID string) (*model.ImportPreview, error) {
	var preview model.ImportPreview
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/import/jobs/"+jobID+"/preview", nil, &preview); err != nil {
		return nil, fmt.Errorf("failed to fetch preview: %w", err)
	}
	return &preview, nil
}

// UpdateDetected toggles a single candidate's selection and returns the
// candidate as the server now sees it.
func (c *Client) UpdateDetected(ctx context.Context, candidateID string, selected bool) (*model.DetectedCandidate, error) {
	body := map[string]bool{"is_selected": selected}
	var candidate model.DetectedCandidate
	if err := c.doJSON(ctx, http.MethodPatch, "/api/v1/import/detected/"+candidateID, body, &candidate); err != nil {
		return nil, fmt.Errorf("failed to update candidate: %w", err)
	}
	return &candidate, nil
}

// BulkUpdateDetected toggles many candidates in one call. The response body
// is not consumed; callers rewrite their local state directly.
func (c *Client) BulkUpdateDetected(ctx context.Context, candidateIDs []string, selected bool) error {
	body := map[string]any{
		"candidate_ids": candidateIDs,
		"is_selected":   selected,
	}
	if err := c.doJSON(ctx, http.MethodPatch, "/api/v1/import/detected/bulk", body, nil); err != nil {
		return fmt.Errorf("failed to bulk-update candidates: %w", err)
	}
	return nil
}

// ConfirmImport commits the selected candidates and returns the final counts.
func (c *Client) ConfirmImport(ctx context.Context, jobID string, req ConfirmRequest) (*model.ImportResult, error) {
	body := map[string]any{
		"subscription_ids": req.SubscriptionIDs,
	}
	if req.CardID != "" {
		body["card_id"] = req.CardID
	}
	if req.CategoryID != "" {
		body["category_id"] = req.CategoryID
	}

	var result model.ImportResult
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/import/jobs/"+jobID+"/confirm", body, &result); err != nil {
		return nil, fmt.Errorf("failed to confirm import: %w", err)
	}
	return &result, nil
}

// Ensure Client implements the import contract.
var _ ImportService = (*Client)(nil)
