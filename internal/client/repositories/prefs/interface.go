// Package prefs is the persisted key/value store the client keeps locally:
// UI preferences, the app-lock toggle, and auth tokens between runs.
package prefs

import "context"

type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
