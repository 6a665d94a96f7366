package pricing

import (
	"errors"
	"fmt"

	"cloud.google.com/go/civil"

	"github.com/interestlab/ledgerprep/internal/domain"
)

// Window is a half-open date range [Start, End).
type Window struct {
	Start civil.Date
	End   civil.Date
}

func (w Window) String() string {
	return fmt.Sprintf("[%s, %s)", w.Start, w.End)
}

// Contains reports whether d falls inside the window.
func (w Window) Contains(d civil.Date) bool {
	return !d.Before(w.Start) && d.Before(w.End)
}

// ResolveWindow uses the explicit bounds when given, otherwise the ledger's
// first date and the day after its last date.
func ResolveWindow(start, end *civil.Date, txns []domain.Transaction) (Window, error) {
	var w Window
	if start != nil && end != nil {
		w = Window{Start: *start, End: *end}
	} else {
		if len(txns) == 0 {
			return Window{}, errors.New("cannot derive price window from an empty ledger")
		}
		lo, hi := txns[0].Date, txns[0].Date
		for _, t := range txns[1:] {
			if t.Date.Before(lo) {
				lo = t.Date
			}
			if t.Date.After(hi) {
				hi = t.Date
			}
		}
		w = Window{Start: lo, End: hi.AddDays(1)}
		if start != nil {
			w.Start = *start
		}
		if end != nil {
			w.End = *end
		}
	}

	if !w.Start.Before(w.End) {
		return Window{}, fmt.Errorf("empty price window %s", w)
	}
	return w, nil
}
