package sheets

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/T4ya/appasistencia/internal/model"
)

// ErrNotFoundAnywhere reports that no configured group's roster contains the
// student. Callers treat this as non-fatal: the spreadsheet mirror is
// secondary to the relational record.
var ErrNotFoundAnywhere = errors.New("student not found in any group")

// Group names one roster partition and the spreadsheet backing it.
type Group struct {
	Name    string
	SheetID string
}

// Result reports where a reconciliation committed its write.
type Result struct {
	Group    string   `json:"group"`
	Location Location `json:"location"`
}

// Outcome captures a best-effort reconciliation for callers that log the
// result but never let it gate the primary registration.
type Outcome struct {
	OK    bool
	Group string
	Err   error
}

// Reconciler runs the locate/write pipeline across the ordered group list.
// The first group whose roster contains the student receives the write;
// remaining groups are only scanned in diagnostic mode, and never written.
type Reconciler struct {
	locator *Locator
	writer  *Writer
	groups  []Group
	// scanAll keeps scanning after a successful commit to detect students
	// enrolled in more than one roster. Off in production.
	scanAll bool

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewReconciler wires the pipeline over one transport client and layout.
func NewReconciler(client Client, layout Layout, groups []Group, scanAll bool) *Reconciler {
	return &Reconciler{
		locator: NewLocator(client, layout),
		writer:  NewWriter(client, layout),
		groups:  groups,
		scanAll: scanAll,
		locks:   make(map[string]*sync.Mutex),
	}
}

// sheetLock serializes event-column allocation per spreadsheet. Allocation is
// read-then-write with no remote lock, so two concurrent first-uses of a new
// event would otherwise claim two different columns.
func (r *Reconciler) sheetLock(sheetID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locks[sheetID]
	if !ok {
		l = &sync.Mutex{}
		r.locks[sheetID] = l
	}
	return l
}

// Reconcile locates the student across groups in order and commits the
// attendance write to the first match. Returns ErrNotFoundAnywhere when no
// roster contains the student; transport errors abort the scan.
func (r *Reconciler) Reconcile(ctx context.Context, rec model.AttendanceRecord) (Result, error) {
	if len(r.groups) == 0 {
		return Result{}, fmt.Errorf("no groups configured")
	}
	for _, g := range r.groups {
		if g.SheetID == "" {
			return Result{}, fmt.Errorf("group %s: spreadsheet id not configured", g.Name)
		}
	}

	var committed *Result
	for _, g := range r.groups {
		if committed != nil {
			if !r.scanAll {
				break
			}
			// Diagnostic pass only: read-only lookup to detect students
			// enrolled in more than one roster. The earlier commit stands,
			// and failures here must not unwind it.
			_, err := r.locator.Lookup(ctx, rec.DocumentID, rec.EventID, g.SheetID)
			switch {
			case errors.Is(err, ErrStudentNotFound):
				log.Printf("sheets: document %s not in group %s", rec.DocumentID, g.Name)
			case err != nil:
				log.Printf("sheets: diagnostic scan of group %s failed: %v", g.Name, err)
			default:
				log.Printf("sheets: document %s also enrolled in group %s, already registered in %s",
					rec.DocumentID, g.Name, committed.Group)
			}
			continue
		}

		lock := r.sheetLock(g.SheetID)
		lock.Lock()
		loc, err := r.locator.Locate(ctx, rec.DocumentID, rec.EventID, g.SheetID)
		lock.Unlock()

		if errors.Is(err, ErrStudentNotFound) {
			log.Printf("sheets: document %s not in group %s", rec.DocumentID, g.Name)
			continue
		}
		if err != nil {
			return Result{}, fmt.Errorf("group %s: %w", g.Name, err)
		}
		loc.Group = g.Name

		if err := r.writer.MarkAttendance(ctx, loc, rec.EventDate); err != nil {
			return Result{}, fmt.Errorf("group %s: %w", g.Name, err)
		}
		res := Result{Group: g.Name, Location: loc}
		committed = &res
	}

	if committed == nil {
		return Result{}, ErrNotFoundAnywhere
	}
	return *committed, nil
}

// Mirror runs Reconcile as a non-critical side effect: the outcome is
// captured and logged, never propagated. The primary relational registration
// must succeed independently of this path.
func (r *Reconciler) Mirror(ctx context.Context, rec model.AttendanceRecord) Outcome {
	res, err := r.Reconcile(ctx, rec)
	if err != nil {
		log.Printf("sheets: mirror for event %s document %s skipped: %v", rec.EventID, rec.DocumentID, err)
		return Outcome{Err: err}
	}
	log.Printf("sheets: mirrored event %s document %s into group %s", rec.EventID, rec.DocumentID, res.Group)
	return Outcome{OK: true, Group: res.Group}
}
