// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Avalon Contributors

package fusion

import (
	"errors"

	"github.com/samber/oops"
)

// DefaultUndoLabel names the undo boundary when the caller does not.
const DefaultUndoLabel = "Script CMD"

// LockedUndo runs body with comp locked and a named undo boundary open.
//
// The lock is released and the boundary closed on every exit path,
// including a panic inside body (the panic is re-raised after release).
// Whether a comp lock is re-entrant is host-defined; callers should not
// nest LockedUndo on the same comp.
func LockedUndo(comp Comp, label string, body func() error) (err error) {
	if label == "" {
		label = DefaultUndoLabel
	}

	if lockErr := comp.Lock(); lockErr != nil {
		return oops.Code("COMP_LOCK_FAILED").
			With("comp", comp.Name()).
			Wrap(lockErr)
	}
	defer func() {
		if unlockErr := comp.Unlock(); unlockErr != nil {
			err = errors.Join(err, oops.Code("COMP_UNLOCK_FAILED").
				With("comp", comp.Name()).
				Wrap(unlockErr))
		}
	}()

	if undoErr := comp.StartUndo(label); undoErr != nil {
		return oops.Code("COMP_UNDO_FAILED").
			With("comp", comp.Name()).
			With("label", label).
			Wrap(undoErr)
	}
	defer func() {
		if endErr := comp.EndUndo(); endErr != nil {
			err = errors.Join(err, oops.Code("COMP_UNDO_FAILED").
				With("comp", comp.Name()).
				With("label", label).
				Wrap(endErr))
		}
	}()

	return body()
}
