package domain

import "context"

// Database is the member store: its schema lifecycle and the repository
// the directory is loaded from.
type Database interface {
	Members() MemberRepository
	Migrate(ctx context.Context) error
	Close() error
}
