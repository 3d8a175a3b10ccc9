package ledger

import (
	"context"
	"errors"
	"time"
)

// Record is one finalized meal split, appended once per completed session.
type Record struct {
	Date            time.Time
	Purchaser       string
	TotalBill       float64
	Participants    []string
	IndividualShare float64
}

// Ledger appends finalized splits to persistent storage. Implementations are
// append-only; there is no read-back path on this interface.
type Ledger interface {
	Append(ctx context.Context, rec Record) error
}

// Multi fans an append out to every ledger, collecting errors. Every ledger
// is attempted even when an earlier one fails.
type Multi []Ledger

func (m Multi) Append(ctx context.Context, rec Record) error {
	var errs []error
	for _, l := range m {
		if err := l.Append(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
