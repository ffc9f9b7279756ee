// errors.go -- error values returned by the storage engine
//
// Follows the sentinel-plus-wrapper shape used elsewhere in the pack
// (pkg/mddb/errors.go): sentinels usable with errors.Is, and a wrapper
// type for the one error that carries a caller-supplied cause.

package norstore

import (
	"errors"
	"fmt"
)

// ErrOutOfMemory is returned by Update when the record would not fit
// in the remaining free space of the region. Caller-recoverable: the
// caller may compact externally or accept the data loss.
var ErrOutOfMemory = errors.New("norstore: out of free space")

// ErrCorruptedRecordOnGet is returned by Get when a descriptor points
// at a header whose on-storage tag no longer matches the descriptor's
// tag. This indicates memory corruption or a logic error and is not
// recoverable within the engine.
var ErrCorruptedRecordOnGet = errors.New("norstore: corrupted record on get")

// ErrCrc is returned by Get when optional getter-time re-validation
// finds the stored crc no longer matches the computed one.
var ErrCrc = errors.New("norstore: crc mismatch")

// DriverError wraps an error returned by the StorageMem implementation
// (typically: a write to a word that was not in the erased state). It
// is propagated verbatim so callers can recover the original error via
// errors.As / errors.Unwrap.
type DriverError struct {
	Err error
}

func (e *DriverError) Error() string {
	return fmt.Sprintf("norstore: driver error: %s", e.Err)
}

func (e *DriverError) Unwrap() error {
	return e.Err
}

func driverErr(err error) error {
	if err == nil {
		return nil
	}
	return &DriverError{Err: err}
}
