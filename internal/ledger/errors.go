package ledger

import "fmt"

// StoreWriteError reports that the ledger could not be persisted. The
// in-memory records are still current; the next load will not see them.
type StoreWriteError struct {
	Store string
	Err   error
}

func (e *StoreWriteError) Error() string {
	return fmt.Sprintf("save ledger to %s: %v", e.Store, e.Err)
}

func (e *StoreWriteError) Unwrap() error { return e.Err }
