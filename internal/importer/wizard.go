package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/subtally/subtally/internal/api"
	"github.com/subtally/subtally/internal/common"
	"github.com/subtally/subtally/internal/model"
)

// Step identifies where the wizard is in the import flow.
type Step int

// Wizard steps, in dependency order.
const (
	StepUpload Step = iota
	StepProcessing
	StepPreview
	StepComplete
)

// String returns a human-readable step name.
func (s Step) String() string {
	switch s {
	case StepUpload:
		return "upload"
	case StepProcessing:
		return "processing"
	case StepPreview:
		return "preview"
	case StepComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Wizard holds the statement-import flow's state. It is driven from a
// single UI event loop and is not safe for concurrent use: background
// goroutines only perform network calls and hand their results back, and
// every mutation goes through the Apply* methods on the event loop. All
// candidate state it holds is server-confirmed: per-item toggles apply the
// server's echoed object, and bulk toggles are followed by an
// authoritative preview re-fetch.
type Wizard struct {
	svc       api.ImportService
	poller    *Poller
	preview   *model.ImportPreview
	result    *model.ImportResult
	preflight *Preflight
	filePath  string
	bankID    string
	currency  string
	jobID     string
	errMsg    string
	step      Step
	useAI     bool
}

// NewWizard creates a wizard at the upload step.
func NewWizard(svc api.ImportService) *Wizard {
	return &Wizard{
		svc:      svc,
		poller:   NewPoller(svc),
		step:     StepUpload,
		currency: "GBP",
		useAI:    true,
	}
}

// NewWizardWithPoller creates a wizard with a custom poller, for tests.
func NewWizardWithPoller(svc api.ImportService, poller *Poller) *Wizard {
	w := NewWizard(svc)
	w.poller = poller
	return w
}

// Step returns the wizard's current step.
func (w *Wizard) Step() Step { return w.step }

// Service returns the backing import service, for callers that run the
// network half of an operation off the event loop.
func (w *Wizard) Service() api.ImportService { return w.svc }

// Poller returns the wizard's job poller.
func (w *Wizard) Poller() *Poller { return w.poller }

// FilePath returns the selected statement file, if any.
func (w *Wizard) FilePath() string { return w.filePath }

// BankID returns the optional bank identifier.
func (w *Wizard) BankID() string { return w.bankID }

// Currency returns the upload currency.
func (w *Wizard) Currency() string { return w.currency }

// UseAI reports whether AI-assisted detection is requested.
func (w *Wizard) UseAI() bool { return w.useAI }

// JobID returns the current analysis job, if one is running.
func (w *Wizard) JobID() string { return w.jobID }

// Preview returns the current detection preview, nil before it loads.
func (w *Wizard) Preview() *model.ImportPreview { return w.preview }

// Result returns the final import counters, nil until confirmation.
func (w *Wizard) Result() *model.ImportResult { return w.result }

// Preflight returns the local statement summary, nil when unavailable.
func (w *Wizard) Preflight() *Preflight { return w.preflight }

// ErrorMessage returns the current inline error banner, empty when clear.
// The banner is dismissed by the next user action.
func (w *Wizard) ErrorMessage() string { return w.errMsg }

// SelectFile validates and records the statement file. Validation failures
// block the selection and leave any previously selected file in place.
func (w *Wizard) SelectFile(path string) error {
	w.errMsg = ""
	if err := ValidateStatementFile(path); err != nil {
		w.errMsg = err.Error()
		return err
	}
	w.filePath = path
	w.preflight = scanStatement(path)
	return nil
}

// SetBank records the optional bank identifier sent with the upload.
func (w *Wizard) SetBank(bankID string) {
	w.bankID = bankID
}

// SetCurrency validates and records the upload currency.
func (w *Wizard) SetCurrency(currency string) error {
	w.errMsg = ""
	if err := ValidateCurrency(currency); err != nil {
		w.errMsg = err.Error()
		return err
	}
	w.currency = currency
	return nil
}

// SetUseAI records whether AI-assisted detection is requested.
func (w *Wizard) SetUseAI(useAI bool) {
	w.useAI = useAI
}

// UploadRequest validates the wizard's inputs and returns what the upload
// call needs. It fails fast, without touching the backend, when no valid
// file is selected, and does not advance the step.
func (w *Wizard) UploadRequest() (string, api.UploadOptions, error) {
	w.errMsg = ""
	if w.step != StepUpload {
		return "", api.UploadOptions{}, fmt.Errorf("cannot upload from the %s step", w.step)
	}
	if err := ValidateStatementFile(w.filePath); err != nil {
		w.errMsg = err.Error()
		return "", api.UploadOptions{}, err
	}

	return w.filePath, api.UploadOptions{
		BankID:   w.bankID,
		Currency: w.currency,
		UseAI:    w.useAI,
	}, nil
}

// ApplyUpload records the outcome of an upload call and, on success, moves
// to the processing step.
func (w *Wizard) ApplyUpload(job *model.ImportJob, err error) error {
	if err != nil {
		w.errMsg = common.UserMessage(err)
		return err
	}

	w.jobID = job.ID
	w.step = StepProcessing
	slog.Info("Statement uploaded", "job_id", job.ID, "file", w.filePath)
	return nil
}

// Upload submits the selected file and moves to the processing step.
func (w *Wizard) Upload(ctx context.Context) error {
	path, opts, err := w.UploadRequest()
	if err != nil {
		return err
	}

	job, err := w.svc.UploadStatement(ctx, path, opts)
	return w.ApplyUpload(job, err)
}

// ApplyDetection records the outcome of a detection wait. Job failure and
// poll timeout are treated identically: the error is surfaced and the
// wizard returns to upload so the user can re-submit. Context cancellation
// tears the flow down without surfacing a banner.
func (w *Wizard) ApplyDetection(preview *model.ImportPreview, err error) error {
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		w.failJob(err)
		return err
	}

	w.preview = preview
	w.step = StepPreview
	return nil
}

// AwaitDetection polls the analysis job and, once ready, loads the preview
// and moves to the review step.
func (w *Wizard) AwaitDetection(ctx context.Context) error {
	if w.step != StepProcessing {
		return fmt.Errorf("no job in flight")
	}

	preview, err := w.poller.Await(ctx, w.jobID)
	return w.ApplyDetection(preview, err)
}

// failJob surfaces a job-scoped error and returns the wizard to upload.
func (w *Wizard) failJob(err error) {
	w.errMsg = common.UserMessage(err)
	w.jobID = ""
	w.step = StepUpload
}

// ApplyToggle applies the server-returned candidate object, never a
// locally guessed value.
func (w *Wizard) ApplyToggle(candidateID string, updated *model.DetectedCandidate, err error) error {
	if err != nil {
		w.errMsg = common.UserMessage(err)
		return err
	}

	candidate := w.findCandidate(candidateID)
	if candidate == nil {
		return fmt.Errorf("unknown candidate %q", candidateID)
	}

	*candidate = *updated
	w.recomputeSelectedCount()
	return nil
}

// Toggle flips one candidate's selection through the backend. Duplicates
// are not toggleable; calling Toggle on one is a no-op.
func (w *Wizard) Toggle(ctx context.Context, candidateID string) error {
	w.errMsg = ""
	candidate := w.findCandidate(candidateID)
	if candidate == nil {
		return fmt.Errorf("unknown candidate %q", candidateID)
	}
	if candidate.IsDuplicate() {
		return nil
	}

	updated, err := w.svc.UpdateDetected(ctx, candidateID, !candidate.IsSelected)
	return w.ApplyToggle(candidateID, updated, err)
}

// ApplySetAll rewrites the local flags after a successful bulk update and,
// when the authoritative re-fetch succeeded, replaces the preview with it.
// A nil refreshed preview means the refresh failed; the local rewrite
// already reflects the requested state, so that only delays convergence.
func (w *Wizard) ApplySetAll(selected bool, refreshed *model.ImportPreview, err error) error {
	if err != nil {
		w.errMsg = common.UserMessage(err)
		return err
	}
	if w.preview == nil {
		return fmt.Errorf("no preview loaded")
	}

	for i := range w.preview.Detected {
		if !w.preview.Detected[i].IsDuplicate() {
			w.preview.Detected[i].IsSelected = selected
		}
	}
	w.recomputeSelectedCount()

	if refreshed != nil {
		w.preview = refreshed
	}
	return nil
}

// SetAll selects or deselects every non-duplicate candidate with a single
// batched call, then re-fetches the preview so the summary is
// server-authoritative.
func (w *Wizard) SetAll(ctx context.Context, selected bool) error {
	w.errMsg = ""
	if w.preview == nil {
		return fmt.Errorf("no preview loaded")
	}

	ids := w.NonDuplicateIDs()
	if len(ids) == 0 {
		return nil
	}

	if err := w.svc.BulkUpdateDetected(ctx, ids, selected); err != nil {
		w.errMsg = common.UserMessage(err)
		return err
	}

	refreshed, err := w.svc.GetPreview(ctx, w.jobID)
	if err != nil {
		slog.Warn("Preview refresh after bulk update failed", "job_id", w.jobID, "error", err)
		refreshed = nil
	}
	return w.ApplySetAll(selected, refreshed, nil)
}

// SelectedIDs returns exactly the candidates that will be submitted:
// selected and not duplicates.
func (w *Wizard) SelectedIDs() []string {
	if w.preview == nil {
		return nil
	}
	var ids []string
	for _, c := range w.preview.Detected {
		if c.IsSelected && !c.IsDuplicate() {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// CanConfirm reports whether confirmation is allowed: at the preview step
// with at least one selected non-duplicate candidate.
func (w *Wizard) CanConfirm() bool {
	return w.step == StepPreview && len(w.SelectedIDs()) > 0
}

// ApplyConfirm records the final import counters and completes the flow.
// On failure the wizard stays at preview so the user can retry the same
// action.
func (w *Wizard) ApplyConfirm(result *model.ImportResult, err error) error {
	if err != nil {
		w.errMsg = common.UserMessage(err)
		return err
	}

	w.result = result
	w.step = StepComplete
	slog.Info("Import confirmed",
		"job_id", w.jobID,
		"imported", result.ImportedCount,
		"skipped", result.SkippedCount,
		"duplicates", result.DuplicateCount)
	return nil
}

// Confirm commits the selected candidates with an optional destination card
// and category.
func (w *Wizard) Confirm(ctx context.Context, cardID, categoryID string) error {
	w.errMsg = ""
	if w.step != StepPreview {
		return fmt.Errorf("cannot confirm from the %s step", w.step)
	}

	ids := w.SelectedIDs()
	if len(ids) == 0 {
		w.errMsg = common.UserMessage(common.ErrNoSelection)
		return common.ErrNoSelection
	}

	result, err := w.svc.ConfirmImport(ctx, w.jobID, api.ConfirmRequest{
		SubscriptionIDs: ids,
		CardID:          cardID,
		CategoryID:      categoryID,
	})
	return w.ApplyConfirm(result, err)
}

// Reset clears all wizard state and returns to a pristine upload step.
func (w *Wizard) Reset() {
	w.filePath = ""
	w.bankID = ""
	w.currency = "GBP"
	w.useAI = true
	w.jobID = ""
	w.preview = nil
	w.result = nil
	w.preflight = nil
	w.errMsg = ""
	w.step = StepUpload
}

func (w *Wizard) findCandidate(id string) *model.DetectedCandidate {
	if w.preview == nil {
		return nil
	}
	for i := range w.preview.Detected {
		if w.preview.Detected[i].ID == id {
			return &w.preview.Detected[i]
		}
	}
	return nil
}

// NonDuplicateIDs returns the candidates a bulk toggle may target.
func (w *Wizard) NonDuplicateIDs() []string {
	if w.preview == nil {
		return nil
	}
	var ids []string
	for _, c := range w.preview.Detected {
		if !c.IsDuplicate() {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

func (w *Wizard) recomputeSelectedCount() {
	count := 0
	for _, c := range w.preview.Detected {
		if c.IsSelected && !c.IsDuplicate() {
			count++
		}
	}
	w.preview.Summary.SelectedCount = count
}

// scanStatement runs the local preflight, tolerating failure: the summary
// is informational and must never block an upload.
func scanStatement(path string) *Preflight {
	preflight, err := PreflightStatement(path)
	if err != nil {
		slog.Debug("Statement preflight failed", "file", path, "error", err)
		return nil
	}
	return preflight
}
