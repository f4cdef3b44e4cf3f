// Package repstore persists reputation data (scam list, whitelist,
// applications and scam reports) in PostgreSQL.
package repstore

import (
	"context"
	"errors"

	"github.com/cherrygram/reputation-api/pkg/reputation"
)

// ErrNotFound is returned when a lookup finds no matching record.
var ErrNotFound = errors.New("record not found")

// ScamStore defines scam-list lookups.
type ScamStore interface {
	GetScamEntry(ctx context.Context, username string) (*reputation.ScamEntry, error)
}

// WhitelistStore defines whitelist lookups.
type WhitelistStore interface {
	GetWhitelistEntry(ctx context.Context, username string) (*reputation.WhitelistEntry, error)
}

// Store defines the interface for reputation data persistence.
// Usernames passed to lookups must already be normalized to lowercase.
type Store interface {
	ScamStore
	WhitelistStore
	// LookupReputation resolves the verdict for a username. A scam-list hit
	// always wins over a whitelist hit.
	LookupReputation(ctx context.Context, username string) (*reputation.CheckResult, error)
	CreateApplication(ctx context.Context, app *reputation.Application) error
	CreateScamReport(ctx context.Context, report *reputation.ScamReport) error
}
