package repstore

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/cherrygram/reputation-api/pkg/pgutil"
	mghelper "github.com/cherrygram/reputation-api/pkg/pgutil/migrations"
	"github.com/cherrygram/reputation-api/pkg/reputation"
)

func setupStore(t *testing.T) (context.Context, *pgStore) {
	t.Helper()
	requireDockerAccess(t)

	ctx := context.Background()
	db, cleanup := pgutil.SetupTestDB(t)
	t.Cleanup(cleanup)

	if err := mghelper.CreateSchema(ctx, db,
		&ScamEntryDao{}, &WhitelistEntryDao{}, &ApplicationDao{}, &ScamReportDao{}); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	return ctx, NewStore(db)
}

func requireDockerAccess(t *testing.T) {
	t.Helper()

	candidates := []string{
		"/var/run/docker.sock",
		filepath.Join(os.Getenv("HOME"), ".docker/run/docker.sock"),
	}

	for _, sock := range candidates {
		if sock == "" {
			continue
		}
		if _, err := os.Stat(sock); err != nil {
			continue
		}
		conn, err := (&net.Dialer{}).DialContext(context.Background(), "unix", sock)
		if err == nil {
			_ = conn.Close()
			return
		}
	}

	t.Skip("docker daemon socket is not accessible; skipping testcontainer-backed repstore tests")
}

func insertScamEntry(t *testing.T, ctx context.Context, s *pgStore, username, reason string) {
	t.Helper()
	dao := &ScamEntryDao{Username: username}
	if reason != "" {
		dao.Reason = &reason
	}
	if _, err := s.db.NewInsert().Model(dao).Exec(ctx); err != nil {
		t.Fatalf("failed to insert scam entry: %v", err)
	}
}

func insertWhitelistEntry(t *testing.T, ctx context.Context, s *pgStore, username, image, description, badge string) {
	t.Helper()
	dao := &WhitelistEntryDao{Username: username}
	if image != "" {
		dao.ProfileImage = &image
	}
	if description != "" {
		dao.ProfileDescription = &description
	}
	if badge != "" {
		dao.ProfileBadge = &badge
	}
	if _, err := s.db.NewInsert().Model(dao).Exec(ctx); err != nil {
		t.Fatalf("failed to insert whitelist entry: %v", err)
	}
}

func TestRepPGStore_LookupReputation(t *testing.T) {
	ctx, s := setupStore(t)

	insertScamEntry(t, ctx, s, "scammer123", "Confirmed scammer")
	insertWhitelistEntry(t, ctx, s, "trusteduser",
		"https://example.com/avatar.png", "Verified guarantor", "Premium")

	scam, err := s.LookupReputation(ctx, "scammer123")
	if err != nil {
		t.Fatalf("LookupReputation(scam) failed: %v", err)
	}
	if scam.Verdict != reputation.VerdictScam {
		t.Fatalf("expected scam verdict, got %s", scam.Verdict)
	}
	if scam.Scam == nil || scam.Scam.Reason != "Confirmed scammer" {
		t.Fatalf("unexpected scam entry: %+v", scam.Scam)
	}
	if scam.Scam.AddedAt.IsZero() {
		t.Fatalf("expected added_at to be set")
	}
	if scam.Trusted != nil {
		t.Fatalf("scam result must not carry a whitelist entry")
	}

	trusted, err := s.LookupReputation(ctx, "trusteduser")
	if err != nil {
		t.Fatalf("LookupReputation(trusted) failed: %v", err)
	}
	if trusted.Verdict != reputation.VerdictTrusted {
		t.Fatalf("expected trusted verdict, got %s", trusted.Verdict)
	}
	if trusted.Trusted == nil || trusted.Trusted.ProfileBadge != "Premium" {
		t.Fatalf("unexpected whitelist entry: %+v", trusted.Trusted)
	}
	if trusted.Trusted.VerifiedAt.IsZero() {
		t.Fatalf("expected verified_at to be set")
	}

	unknown, err := s.LookupReputation(ctx, "nobody00")
	if err != nil {
		t.Fatalf("LookupReputation(unknown) failed: %v", err)
	}
	if unknown.Verdict != reputation.VerdictUnknown {
		t.Fatalf("expected unknown verdict, got %s", unknown.Verdict)
	}
	if unknown.Scam != nil || unknown.Trusted != nil {
		t.Fatalf("unknown result must carry no entries")
	}
}

func TestRepPGStore_ScamBeatsWhitelist(t *testing.T) {
	ctx, s := setupStore(t)

	insertScamEntry(t, ctx, s, "doubleagent", "Reported by multiple users")
	insertWhitelistEntry(t, ctx, s, "doubleagent", "", "Somehow also verified", "")

	result, err := s.LookupReputation(ctx, "doubleagent")
	if err != nil {
		t.Fatalf("LookupReputation() failed: %v", err)
	}
	if result.Verdict != reputation.VerdictScam {
		t.Fatalf("scam entry must win over whitelist, got %s", result.Verdict)
	}
}

func TestRepPGStore_GetEntryNotFound(t *testing.T) {
	ctx, s := setupStore(t)

	if _, err := s.GetScamEntry(ctx, "ghost_user"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.GetWhitelistEntry(ctx, "ghost_user"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRepPGStore_ScamUsernameUnique(t *testing.T) {
	ctx, s := setupStore(t)

	insertScamEntry(t, ctx, s, "repeated", "first")

	dup := &ScamEntryDao{Username: "repeated"}
	_, err := s.db.NewInsert().Model(dup).Exec(ctx)
	if err == nil {
		t.Fatalf("expected duplicate scam username to fail")
	}
	var pgErr pgdriver.Error
	if !errors.As(err, &pgErr) {
		t.Fatalf("expected postgres error type, got: %v", err)
	}
	if !pgErr.IntegrityViolation() {
		t.Fatalf("expected unique violation SQLSTATE=23505, got %s (%v)", pgErr.Field('C'), err)
	}
}

func TestRepPGStore_CreateApplication(t *testing.T) {
	ctx, s := setupStore(t)

	app := &reputation.Application{
		Username:    "applicant_one",
		Description: "I sell verified accounts and have references",
		Proof:       "https://example.com/proof",
	}
	if err := s.CreateApplication(ctx, app); err != nil {
		t.Fatalf("CreateApplication() failed: %v", err)
	}
	if app.ID == 0 {
		t.Fatalf("expected assigned id")
	}
	if app.Status != reputation.StatusPending {
		t.Fatalf("expected pending status, got %s", app.Status)
	}
	if app.CreatedAt.IsZero() {
		t.Fatalf("expected created_at to be set")
	}

	// Multiple applications from the same username are allowed
	again := &reputation.Application{
		Username:    "applicant_one",
		Description: "Second application with more details",
	}
	if err := s.CreateApplication(ctx, again); err != nil {
		t.Fatalf("CreateApplication(again) failed: %v", err)
	}
	if again.ID <= app.ID {
		t.Fatalf("expected increasing ids: first %d second %d", app.ID, again.ID)
	}

	dao := new(ApplicationDao)
	if err := s.db.NewSelect().Model(dao).Where("id = ?", again.ID).Scan(ctx); err != nil {
		t.Fatalf("failed to read back application: %v", err)
	}
	if dao.Proof != nil {
		t.Fatalf("expected NULL proof, got %q", *dao.Proof)
	}
}

func TestRepPGStore_CreateScamReport(t *testing.T) {
	ctx, s := setupStore(t)

	report := &reputation.ScamReport{
		ScammerUsername:  "suspicious_guy",
		Description:      "Took payment for an account and disappeared",
		ReporterUsername: "honest_user",
		ProofLinks:       "https://example.com/chat-log",
	}
	if err := s.CreateScamReport(ctx, report); err != nil {
		t.Fatalf("CreateScamReport() failed: %v", err)
	}
	if report.ID == 0 {
		t.Fatalf("expected assigned id")
	}
	if report.Status != reputation.StatusPending {
		t.Fatalf("expected pending status, got %s", report.Status)
	}

	// Reporter and proof links are optional
	anon := &reputation.ScamReport{
		ScammerUsername: "suspicious_guy",
		Description:     "Same scammer hit me as well, lost 50 USDT",
	}
	if err := s.CreateScamReport(ctx, anon); err != nil {
		t.Fatalf("CreateScamReport(anonymous) failed: %v", err)
	}

	dao := new(ScamReportDao)
	if err := s.db.NewSelect().Model(dao).Where("id = ?", anon.ID).Scan(ctx); err != nil {
		t.Fatalf("failed to read back report: %v", err)
	}
	if dao.ReporterUsername != nil {
		t.Fatalf("expected NULL reporter, got %q", *dao.ReporterUsername)
	}
	if dao.ProofLinks != nil {
		t.Fatalf("expected NULL proof links, got %q", *dao.ProofLinks)
	}
}

func TestRepPGStore_ConcurrentReportIDs(t *testing.T) {
	ctx, s := setupStore(t)

	const workers = 8
	ids := make([]int64, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			report := &reputation.ScamReport{
				ScammerUsername: "busy_scammer",
				Description:     strings.Repeat("x", 30),
			}
			errs[i] = s.CreateScamReport(ctx, report)
			ids[i] = report.ID
		}(i)
	}
	wg.Wait()

	seen := make(map[int64]bool, workers)
	for i := 0; i < workers; i++ {
		if errs[i] != nil {
			t.Fatalf("concurrent CreateScamReport() failed: %v", errs[i])
		}
		if seen[ids[i]] {
			t.Fatalf("duplicate report id %d", ids[i])
		}
		seen[ids[i]] = true
	}
}

func TestRepPGStore_OversizedDescription(t *testing.T) {
	ctx, s := setupStore(t)

	app := &reputation.Application{
		Username:    "too_chatty",
		Description: strings.Repeat("x", 501),
	}
	err := s.CreateApplication(ctx, app)
	if err == nil {
		t.Fatalf("expected oversized description to fail")
	}
	var pgErr pgdriver.Error
	if !errors.As(err, &pgErr) {
		t.Fatalf("expected postgres error type, got: %v", err)
	}
	if pgErr.Field('C') != "22001" {
		t.Fatalf("expected value-too-long SQLSTATE=22001, got %s (%v)", pgErr.Field('C'), err)
	}
}
