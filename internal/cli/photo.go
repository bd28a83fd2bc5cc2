package cli

import (
	"context"
)

// ShowPhoto resolves a stored photo key to a local file path the user can
// open. A missing blob is reported, not treated as an error.
func (a *App) ShowPhoto(ctx context.Context, key string) error {
	if !a.requireUnlocked() {
		return nil
	}

	h, err := a.resolver.Resolve(ctx, key)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	if h.Placeholder() {
		printlnFn("No photo stored under " + key)
		return nil
	}

	printlnFn(h.Path)
	return nil
}
