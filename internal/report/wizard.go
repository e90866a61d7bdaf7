package report

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/abrezinsky/ecoheroes/internal/catalog"
	"github.com/abrezinsky/ecoheroes/internal/errors"
	"github.com/abrezinsky/ecoheroes/internal/logger"
	"github.com/abrezinsky/ecoheroes/internal/models"
)

// timeNow is a package-level variable for testability.
var timeNow = time.Now

const (
	msgNotAuthenticated = "Anda harus login untuk mengirim laporan."
	msgPending          = "Laporan sedang dikirim, mohon tunggu."
	msgClosed           = "Wizard laporan belum dibuka."
)

// Deps are the collaborators shared by every wizard
type Deps struct {
	Catalog  *catalog.Catalog
	Gateway  Gateway
	Identity IdentityProvider
	Notifier Notifier
	Log      logger.Logger
}

// View is a snapshot of the wizard for rendering
type View struct {
	Open       bool   `json:"open"`
	Pending    bool   `json:"pending"`
	Step       Step   `json:"step"`
	Items      []Item `json:"items"`
	Notes      string `json:"notes"`
	Total      int    `json:"total"`
	CanAdvance bool   `json:"can_advance"`
}

// Wizard drives one user's draft through CategorySelect → WeightEntry →
// Confirm and hands it to the Gateway. At most one submission is in flight;
// while it is, every other action is refused with a pending error.
type Wizard struct {
	mu      sync.Mutex
	owner   int64
	deps    Deps
	draft   *Draft
	open    bool
	pending bool
}

// NewWizard creates a closed wizard for owner
func NewWizard(owner int64, deps Deps) *Wizard {
	if deps.Notifier == nil {
		deps.Notifier = NoopNotifier{}
	}
	if deps.Log == nil {
		deps.Log = logger.Discard()
	}
	return &Wizard{
		owner: owner,
		deps:  deps,
		draft: NewDraft(deps.Catalog),
	}
}

// Open shows the wizard. Opening an already open wizard keeps its draft.
func (w *Wizard) Open() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending {
		return errors.Pending(msgPending)
	}
	if !w.open {
		w.draft.Reset()
		w.open = true
	}
	return nil
}

// IsOpen reports whether the wizard is showing
func (w *Wizard) IsOpen() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.open
}

// View returns the current state
func (w *Wizard) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.viewLocked()
}

func (w *Wizard) viewLocked() View {
	return View{
		Open:       w.open,
		Pending:    w.pending,
		Step:       w.draft.Step(),
		Items:      w.draft.Items(),
		Notes:      w.draft.Notes(),
		Total:      ComputeTotal(w.draft, w.deps.Catalog),
		CanAdvance: w.draft.CanAdvance(),
	}
}

// mutate runs fn against the draft when the wizard is open and idle.
func (w *Wizard) mutate(fn func(d *Draft) error) (View, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending {
		return w.viewLocked(), errors.Pending(msgPending)
	}
	if !w.open {
		return w.viewLocked(), errors.Conflict(msgClosed)
	}
	if err := fn(w.draft); err != nil {
		return w.viewLocked(), err
	}
	return w.viewLocked(), nil
}

func (w *Wizard) ToggleCategory(id string) (View, error) {
	return w.mutate(func(d *Draft) error { return d.ToggleCategory(id) })
}

func (w *Wizard) SetWeight(id string, kg float64) (View, error) {
	return w.mutate(func(d *Draft) error { return d.SetWeight(id, kg) })
}

// ApplyPreset replaces the selection with the named catalog preset
func (w *Wizard) ApplyPreset(name string) (View, error) {
	return w.mutate(func(d *Draft) error {
		p, ok := w.deps.Catalog.PresetByName(name)
		if !ok {
			return errors.NotFoundf("preset %q not found", name)
		}
		return d.ApplyPreset(p)
	})
}

func (w *Wizard) SetNotes(notes string) (View, error) {
	return w.mutate(func(d *Draft) error {
		d.SetNotes(notes)
		return nil
	})
}

// Advance moves forward one step. Refusing to leave an empty category
// step is not an error; the returned view simply keeps its step.
func (w *Wizard) Advance() (View, error) {
	return w.mutate(func(d *Draft) error {
		d.Advance()
		return nil
	})
}

func (w *Wizard) Retreat() (View, error) {
	return w.mutate(func(d *Draft) error {
		d.Retreat()
		return nil
	})
}

// Cancel discards the draft and closes the wizard without contacting the
// gateway. An in-flight submission cannot be cancelled.
func (w *Wizard) Cancel() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending {
		return errors.Pending(msgPending)
	}
	w.draft.Reset()
	w.open = false
	return nil
}

// Submit sends the draft to the gateway. It is only allowed from the
// Confirm step. On success the draft is reset and the wizard closes; on
// failure the wizard stays at Confirm with the draft intact so the user can
// retry.
func (w *Wizard) Submit(ctx context.Context) (Result, error) {
	w.mu.Lock()
	if w.pending {
		w.mu.Unlock()
		return Result{}, errors.Pending(msgPending)
	}
	if !w.open {
		w.mu.Unlock()
		return Result{}, errors.Conflict(msgClosed)
	}
	if w.draft.Step() != StepConfirm {
		w.mu.Unlock()
		return Result{}, errors.Conflictf("report can only be submitted from the %s step", StepConfirm)
	}

	ident, ok := w.deps.Identity.CurrentUser(ctx)
	if !ok || ident.UserID != w.owner {
		w.mu.Unlock()
		w.deps.Notifier.Notify(ctx, w.owner, models.Toast{
			Title:       "Gagal",
			Description: msgNotAuthenticated,
			Severity:    "error",
		})
		return Result{}, errors.Unauthenticated(msgNotAuthenticated)
	}

	payload := w.draft.Payload(timeNow().Format("2006-01-02"))
	w.pending = true
	w.mu.Unlock()

	// a gateway that panics must not leave the wizard locked forever
	settled := false
	defer func() {
		if !settled {
			w.mu.Lock()
			w.pending = false
			w.mu.Unlock()
		}
	}()

	log := w.deps.Log.With("user_id", ident.UserID)
	res, err := w.deps.Gateway.SubmitReport(ctx, ident.UserID, payload)

	w.mu.Lock()
	w.pending = false
	settled = true
	if err != nil {
		w.mu.Unlock()
		log.Warn("Report submission failed", "error", err)
		w.deps.Notifier.Notify(ctx, w.owner, models.Toast{
			Title:       "Gagal mengirim laporan",
			Description: err.Error(),
			Severity:    "error",
		})
		return Result{}, errors.Gateway(err.Error(), err)
	}
	w.draft.Reset()
	w.open = false
	w.mu.Unlock()

	log.Info("Report submitted", "report_id", res.ReportID, "points", res.AwardedPoints)
	w.deps.Notifier.Notify(ctx, w.owner, SuccessToast(res.AwardedPoints))
	return res, nil
}

// SuccessToast is the feedback shown after an accepted report
func SuccessToast(points int) models.Toast {
	return models.Toast{
		Title:       "Laporan Terkirim! ✨",
		Description: fmt.Sprintf("Selamat! Kamu mendapat %d poin dan 1 hari laporan beruntun.", points),
		Severity:    "success",
	}
}
