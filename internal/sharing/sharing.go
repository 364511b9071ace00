// Package sharing maintains the outstanding shares for the current
// user's notes. The server's share list is authoritative: share and
// revoke refetch the whole history on success, nothing is inserted or
// removed locally.
package sharing

import (
	"context"
	"strings"
	"sync"

	"noteapp-client/internal/api"
	"noteapp-client/internal/domain"

	"github.com/go-playground/validator/v10"
)

// API is the slice of the HTTP client the reconciler needs.
type API interface {
	ShareNote(ctx context.Context, noteID int64, req *domain.ShareRequest) error
	ListShares(ctx context.Context) ([]domain.Share, error)
	RevokeShare(ctx context.Context, noteID, shareID int64) error
}

// Form is the share dialog's input state: the selected note, the
// recipient, and the permission to grant.
type Form struct {
	NoteID     int64
	Email      string
	Permission domain.Permission
}

func emptyForm() Form {
	return Form{Permission: domain.PermissionView}
}

type Reconciler struct {
	api      API
	validate *validator.Validate

	mu      sync.Mutex
	shares  []domain.Share
	form    Form
	lastErr string
}

func NewReconciler(apiClient API) *Reconciler {
	return &Reconciler{
		api:      apiClient,
		validate: validator.New(),
		form:     emptyForm(),
	}
}

// Refresh replaces the share history with the server's.
func (r *Reconciler) Refresh(ctx context.Context) error {
	shares, err := r.api.ListShares(ctx)
	if err != nil {
		r.setError(err.Error())
		return err
	}
	r.mu.Lock()
	r.shares = shares
	r.mu.Unlock()
	return nil
}

func (r *Reconciler) Shares() []domain.Share {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Share(nil), r.shares...)
}

func (r *Reconciler) Form() Form {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.form
}

func (r *Reconciler) SetForm(form Form) {
	r.mu.Lock()
	if form.Permission == "" {
		form.Permission = domain.PermissionView
	}
	r.form = form
	r.mu.Unlock()
}

// LastError is the displayable message from the most recent failed
// operation, "" when the last operation succeeded.
func (r *Reconciler) LastError() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}

// Share submits the current form. Note and recipient must be present
// before anything touches the network. On success the history is
// refetched and the form resets to its defaults; on failure the form
// is left untouched so the user can correct it.
func (r *Reconciler) Share(ctx context.Context) error {
	r.mu.Lock()
	form := r.form
	r.mu.Unlock()

	if form.NoteID == 0 || strings.TrimSpace(form.Email) == "" {
		err := &api.Error{Kind: api.ErrorValidationFailed, Message: "select a note and enter a recipient email"}
		r.setError(err.Message)
		return err
	}

	req := &domain.ShareRequest{Email: form.Email, Permission: form.Permission}
	if err := r.validate.Struct(req); err != nil {
		apiErr := &api.Error{Kind: api.ErrorValidationFailed, Message: "permission must be view or edit"}
		r.setError(apiErr.Message)
		return apiErr
	}

	if err := r.api.ShareNote(ctx, form.NoteID, req); err != nil {
		r.setError(err.Error())
		return err
	}

	// The share took; reset the form even if the follow-up refetch
	// fails, recording that failure as the displayable error.
	refreshErr := r.Refresh(ctx)

	r.mu.Lock()
	r.form = emptyForm()
	if refreshErr == nil {
		r.lastErr = ""
	}
	r.mu.Unlock()
	return refreshErr
}

// Revoke removes a share and refetches the history.
func (r *Reconciler) Revoke(ctx context.Context, noteID, shareID int64) error {
	if err := r.api.RevokeShare(ctx, noteID, shareID); err != nil {
		r.setError(err.Error())
		return err
	}
	if err := r.Refresh(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	r.lastErr = ""
	r.mu.Unlock()
	return nil
}

func (r *Reconciler) setError(message string) {
	r.mu.Lock()
	r.lastErr = message
	r.mu.Unlock()
}
