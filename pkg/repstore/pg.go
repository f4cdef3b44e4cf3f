package repstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/cherrygram/reputation-api/pkg/reputation"
)

type pgStore struct {
	db *bun.DB
}

// NewStore creates a new postgres implementation of the reputation store
func NewStore(db *bun.DB) *pgStore {
	return &pgStore{db: db}
}

func (s *pgStore) GetScamEntry(ctx context.Context, username string) (*reputation.ScamEntry, error) {
	dao := new(ScamEntryDao)
	err := s.db.NewSelect().
		Model(dao).
		Where("username = ?", username).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get scam entry: %w", err)
	}
	return toScamEntry(dao), nil
}

func (s *pgStore) GetWhitelistEntry(ctx context.Context, username string) (*reputation.WhitelistEntry, error) {
	dao := new(WhitelistEntryDao)
	err := s.db.NewSelect().
		Model(dao).
		Where("username = ?", username).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get whitelist entry: %w", err)
	}
	return toWhitelistEntry(dao), nil
}

func (s *pgStore) LookupReputation(ctx context.Context, username string) (*reputation.CheckResult, error) {
	result := &reputation.CheckResult{
		Username: username,
		Verdict:  reputation.VerdictUnknown,
	}

	// Scam entries take priority over whitelist entries
	scam, err := s.GetScamEntry(ctx, username)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if scam != nil {
		result.Verdict = reputation.VerdictScam
		result.Scam = scam
		return result, nil
	}

	trusted, err := s.GetWhitelistEntry(ctx, username)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if trusted != nil {
		result.Verdict = reputation.VerdictTrusted
		result.Trusted = trusted
	}

	return result, nil
}

func (s *pgStore) CreateApplication(ctx context.Context, app *reputation.Application) error {
	dao := toApplicationDao(app)

	_, err := s.db.NewInsert().
		Model(dao).
		Returning("id, status, created_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}

	app.ID = dao.ID
	app.Status = dao.Status
	app.CreatedAt = dao.CreatedAt
	return nil
}

func (s *pgStore) CreateScamReport(ctx context.Context, report *reputation.ScamReport) error {
	dao := toScamReportDao(report)

	_, err := s.db.NewInsert().
		Model(dao).
		Returning("id, status, created_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create scam report: %w", err)
	}

	report.ID = dao.ID
	report.Status = dao.Status
	report.CreatedAt = dao.CreatedAt
	return nil
}
