package cli

import (
	"context"
	"errors"
	"os"

	"github.com/fieldlog/fieldlog/internal/common"
)

// getSimpleText, getPasscode and getMultiline are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPasscode   = GetPasscode
	getMultiline  = GetMultiline
)

// SetPasscode prompts for a new passcode with confirmation and stores its
// digest. Validation failures (too short, mismatch) are reported verbatim:
// the gate produces user-facing reasons.
func (a *App) SetPasscode(ctx context.Context) error {
	passcode, err := getPasscode("Enter new passcode: ", os.Stdout)
	if err != nil {
		return err
	}
	confirm, err := getPasscode("Confirm passcode: ", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.gate.SetCredential(ctx, passcode, confirm); err != nil {
		if errors.Is(err, common.ErrValidation) {
			printlnFn(err.Error())
		} else {
			printlnFn("Could not save passcode: " + err.Error())
		}
		return err
	}

	printlnFn("Passcode set. Run 'unlock' to start.")
	return nil
}

// Unlock verifies the passcode and opens the session.
func (a *App) Unlock(ctx context.Context) error {
	has, err := a.gate.HasCredential(ctx)
	if err != nil {
		printlnFn("Could not read credential: " + err.Error())
		return err
	}
	if !has {
		printlnFn("No passcode set yet. Run 'setpass' first.")
		return nil
	}

	passcode, err := getPasscode("Enter passcode: ", os.Stdout)
	if err != nil {
		return err
	}

	ok, err := a.gate.Verify(ctx, passcode)
	if err != nil {
		printlnFn("Could not verify passcode: " + err.Error())
		return err
	}
	if !ok {
		printlnFn("Wrong passcode.")
		return nil
	}

	printlnFn("Unlocked.")
	return nil
}

// ClearPasscode removes the stored credential entirely. Only an unlocked
// session may clear it; the next session starts with no passcode set.
func (a *App) ClearPasscode(ctx context.Context) error {
	if !a.requireUnlocked() {
		return nil
	}

	if err := a.gate.ClearCredential(ctx); err != nil {
		printlnFn("Could not clear passcode: " + err.Error())
		return err
	}

	a.currentProject = ""
	printlnFn("Passcode cleared. Run 'setpass' to create a new one.")
	return nil
}

// Lock signs the session out. The stored credential is untouched.
func (a *App) Lock(ctx context.Context) error {
	a.gate.SignOut()
	a.currentProject = ""
	printlnFn("Locked.")
	return nil
}
