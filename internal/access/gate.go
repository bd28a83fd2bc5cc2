// Package access implements the local passcode gate. Exactly zero or one
// credential exists system-wide, stored as a one-way digest beside the
// structured records; the cleartext passcode is never persisted.
package access

import (
	"context"
	"unicode/utf8"

	"github.com/fieldlog/fieldlog/internal/common"
	"github.com/fieldlog/fieldlog/internal/cryptox"
	"github.com/fieldlog/fieldlog/internal/store/records"
)

// digestKey is the scalar key the digest is stored under in the records DB.
const digestKey = "passcode_digest"

// MinPasscodeLen is the minimum accepted passcode length, in runes.
const MinPasscodeLen = 4

// Gate verifies the passcode and tracks the session's unlocked state.
//
// State machine: NoCredential --SetCredential--> Locked,
// Locked --Verify(ok)--> Unlocked, Unlocked --SignOut--> Locked.
// Unlocked is in-memory only; every process start begins Locked (or
// NoCredential) and requires re-verification.
type Gate struct {
	records  records.Repository
	unlocked bool
}

// NewGate returns a Gate backed by the given records repository.
func NewGate(records records.Repository) *Gate {
	return &Gate{records: records}
}

// HasCredential reports whether a passcode has ever been set.
func (g *Gate) HasCredential(ctx context.Context) (bool, error) {
	stored, err := g.records.GetScalar(ctx, digestKey)
	if err != nil {
		return false, err
	}
	return stored != "", nil
}

// SetCredential validates and stores the passcode digest, overwriting any
// previous credential. The confirm value, when supplied (non-empty), must
// match the passcode. Validation is rejected before any I/O. The session is
// left locked.
func (g *Gate) SetCredential(ctx context.Context, passcode, confirm string) error {
	if utf8.RuneCountInString(passcode) < MinPasscodeLen {
		return common.NewValidationError("Passcode must be at least 4 characters")
	}
	if confirm != "" && confirm != passcode {
		return common.NewValidationError("Passcodes do not match")
	}

	if err := g.records.SetScalar(ctx, digestKey, cryptox.Digest(passcode)); err != nil {
		return err
	}

	g.unlocked = false
	return nil
}

// Verify compares the passcode's digest to the stored one. False when no
// credential exists or the digest differs; true unlocks the session.
func (g *Gate) Verify(ctx context.Context, passcode string) (bool, error) {
	stored, err := g.records.GetScalar(ctx, digestKey)
	if err != nil {
		return false, err
	}

	if !cryptox.VerifyDigest(stored, passcode) {
		return false, nil
	}

	g.unlocked = true
	return true, nil
}

// Unlocked reports whether this session has passed verification.
func (g *Gate) Unlocked() bool {
	return g.unlocked
}

// SignOut re-locks the session without touching the stored credential.
func (g *Gate) SignOut() {
	g.unlocked = false
}

// ClearCredential removes the stored digest and locks the session.
func (g *Gate) ClearCredential(ctx context.Context) error {
	if err := g.records.DeleteScalar(ctx, digestKey); err != nil {
		return err
	}
	g.unlocked = false
	return nil
}
