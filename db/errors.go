// ABOUTME: Error translation from SQLite driver errors to store sentinels
package db

import (
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/gsteen1788/bd-os-sub000/store"
)

// wrapConstraint tags uniqueness and foreign-key violations with
// store.ErrConstraint so callers can match them with errors.Is. Other
// errors pass through unchanged.
func wrapConstraint(err error) error {
	if err == nil {
		return nil
	}
	var se sqlite3.Error
	if errors.As(err, &se) && se.Code == sqlite3.ErrConstraint {
		return fmt.Errorf("%w: %v", store.ErrConstraint, err)
	}
	return err
}
