package ports

import "context"

// Serializer runs functions one at a time per key. Every load-mutate-save
// sequence on a user goes through it, keyed by user ID.
type Serializer interface {
	Do(ctx context.Context, key string, fn func(ctx context.Context) error) error
}
