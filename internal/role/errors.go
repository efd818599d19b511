package role

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrAlreadyExists     = errors.New("role: already exists")
	ErrNotFound          = errors.New("role: not found")
	ErrInvalidPermission = errors.New("role: invalid permission")
	ErrStoreUnavailable  = errors.New("role: store unavailable")
	ErrInvalidID         = errors.New("role: empty machine name")
	ErrNoPermissions     = errors.New("role: no permissions given")
)

// InvalidPermissionError lists every permission name the registry rejected.
type InvalidPermissionError struct {
	Names []string
}

func (e *InvalidPermissionError) Error() string {
	quoted := make([]string, len(e.Names))
	for i, n := range e.Names {
		quoted[i] = fmt.Sprintf("%q", n)
	}
	return fmt.Sprintf("%s: %s", ErrInvalidPermission, strings.Join(quoted, ", "))
}

func (e *InvalidPermissionError) Is(target error) bool {
	return target == ErrInvalidPermission
}

// StoreError wraps a failure of the backing store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrStoreUnavailable, e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func (e *StoreError) Is(target error) bool {
	return target == ErrStoreUnavailable
}

// storeErr passes the taxonomy sentinels through and wraps anything else.
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrAlreadyExists) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}
