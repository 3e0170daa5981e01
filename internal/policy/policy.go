// Package policy decides note-level access for a given identity, note
// and operation. It is pure: it never mutates state and has no side
// effects.
package policy

import (
	"github.com/SauravS-01/eNoteBook/internal/models"
	"github.com/SauravS-01/eNoteBook/internal/types"
)

type Operation string

const (
	OpRead   Operation = "read"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

type Decision int

const (
	// Allow grants the operation.
	Allow Decision = iota
	// DenyNotFound masks the denial as a missing note, so reads cannot
	// probe for private-note existence.
	DenyNotFound
	// DenyRedirect sends the caller back to the note listing. Mutations
	// deliberately deny differently from reads.
	DenyRedirect
)

// Authorize evaluates (identity, note, operation). A missing note is
// not-found before ownership is even considered.
func Authorize(userID uint, note *models.Note, op Operation) Decision {
	if note == nil {
		return DenyNotFound
	}

	switch op {
	case OpRead:
		if note.Status == types.NoteStatusPublic || note.UserID == userID {
			return Allow
		}
		return DenyNotFound
	case OpUpdate, OpDelete:
		if note.UserID == userID {
			return Allow
		}
		return DenyRedirect
	default:
		return DenyNotFound
	}
}
