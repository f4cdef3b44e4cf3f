// Package service implements the reputation API business logic: reputation
// checks, verification applications, scam reports and screenshot forwarding.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"go.uber.org/zap"

	"github.com/cherrygram/reputation-api/internal/metrics"
	apperrors "github.com/cherrygram/reputation-api/pkg/app/errors"
	"github.com/cherrygram/reputation-api/pkg/notifier"
	"github.com/cherrygram/reputation-api/pkg/reputation"
	"github.com/cherrygram/reputation-api/pkg/validate"
)

// MaxScreenshotBytes is the upper bound for uploaded screenshots.
const MaxScreenshotBytes = 10 << 20

// Store is the narrow data-access interface for the reputation service.
// Defined here to keep the service decoupled from repstore implementation details.
type Store interface {
	LookupReputation(ctx context.Context, username string) (*reputation.CheckResult, error)
	CreateApplication(ctx context.Context, app *reputation.Application) error
	CreateScamReport(ctx context.Context, report *reputation.ScamReport) error
}

// ApplyRequest carries a verification application.
type ApplyRequest struct {
	Username    string
	Description string
	Proof       string
}

// ReportRequest carries a scam report. ReporterUsername is optional.
type ReportRequest struct {
	ReporterUsername string
	ScammerUsername  string
	Description      string
	ProofLinks       string
}

// ScreenshotRequest carries a screenshot to forward to the admin chat.
type ScreenshotRequest struct {
	ReportID    int64
	Caption     string
	ContentType string
	Data        []byte
}

// Service defines the interface for the reputation business logic
type Service interface {
	Check(ctx context.Context, username string) (*reputation.CheckResult, error)
	SubmitApplication(ctx context.Context, req *ApplyRequest) (*reputation.Application, error)
	ReportScam(ctx context.Context, req *ReportRequest) (*reputation.ScamReport, error)
	ForwardScreenshot(ctx context.Context, req *ScreenshotRequest) error
}

// Config bounds the notifier calls made from the request path.
type Config struct {
	NotifyTextTimeout  time.Duration `default:"10s"`
	NotifyPhotoTimeout time.Duration `default:"30s"`
}

type reputationService struct {
	store    Store
	notifier notifier.Notifier
	logger   *zap.Logger
	cfg      Config
}

// NewService creates a new reputation service
func NewService(store Store, n notifier.Notifier, logger *zap.Logger, cfg Config) Service {
	if err := defaults.Set(&cfg); err != nil {
		panic(err)
	}
	return &reputationService{
		store:    store,
		notifier: n,
		logger:   logger,
		cfg:      cfg,
	}
}

// Check resolves the reputation verdict for a username.
func (s *reputationService) Check(ctx context.Context, username string) (*reputation.CheckResult, error) {
	normalized, err := validate.NormalizeUsername(username)
	if err != nil {
		return nil, apperrors.BadRequestError(err, err.Error())
	}

	start := time.Now()
	result, err := s.store.LookupReputation(ctx, normalized)
	metrics.StoreDuration.WithLabelValues("lookup_reputation").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, apperrors.GeneralError(fmt.Errorf("reputation lookup failed: %w", err))
	}

	metrics.CheckVerdicts.WithLabelValues(string(result.Verdict)).Inc()
	return result, nil
}

// SubmitApplication validates and persists a verification application, then
// notifies the admin chat. The notification is best effort: its failure never
// fails the request.
func (s *reputationService) SubmitApplication(ctx context.Context, req *ApplyRequest) (*reputation.Application, error) {
	username, err := validate.NormalizeUsername(req.Username)
	if err != nil {
		return nil, apperrors.BadRequestError(err, err.Error())
	}
	description, err := validate.ApplicationDescription(req.Description)
	if err != nil {
		return nil, apperrors.BadRequestError(err, err.Error())
	}

	app := &reputation.Application{
		Username:    username,
		Description: description,
		Proof:       strings.TrimSpace(req.Proof),
	}

	start := time.Now()
	err = s.store.CreateApplication(ctx, app)
	metrics.StoreDuration.WithLabelValues("create_application").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, apperrors.GeneralError(fmt.Errorf("failed to persist application: %w", err))
	}

	s.notifyText(ctx, "application", notifier.ApplicationMessage(app))
	return app, nil
}

// ReportScam validates and persists a scam report, then notifies the admin
// chat under the same best-effort contract as SubmitApplication.
func (s *reputationService) ReportScam(ctx context.Context, req *ReportRequest) (*reputation.ScamReport, error) {
	scammer, err := validate.NormalizeUsername(req.ScammerUsername)
	if err != nil {
		return nil, apperrors.BadRequestError(err, err.Error())
	}
	description, err := validate.ReportDescription(req.Description)
	if err != nil {
		return nil, apperrors.BadRequestError(err, err.Error())
	}

	reporter := strings.TrimSpace(req.ReporterUsername)
	if reporter != "" {
		reporter, err = validate.NormalizeUsername(reporter)
		if err != nil {
			return nil, apperrors.BadRequestError(err, "invalid reporter username")
		}
	}

	report := &reputation.ScamReport{
		ReporterUsername: reporter,
		ScammerUsername:  scammer,
		Description:      description,
		ProofLinks:       strings.TrimSpace(req.ProofLinks),
	}

	start := time.Now()
	err = s.store.CreateScamReport(ctx, report)
	metrics.StoreDuration.WithLabelValues("create_scam_report").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, apperrors.GeneralError(fmt.Errorf("failed to persist scam report: %w", err))
	}

	s.notifyText(ctx, "report", notifier.ScamReportMessage(report))
	return report, nil
}

// ForwardScreenshot validates the payload and forwards it to the admin chat.
// Unlike the text notifications, delivery is the whole point of this
// operation, so a notifier failure is surfaced to the caller.
func (s *reputationService) ForwardScreenshot(ctx context.Context, req *ScreenshotRequest) error {
	if !strings.HasPrefix(req.ContentType, "image/") {
		return apperrors.BadRequestError(nil, "only image uploads are accepted")
	}
	if len(req.Data) > MaxScreenshotBytes {
		return apperrors.BadRequestError(nil, "file exceeds the 10 MiB limit")
	}

	caption := notifier.ScreenshotCaption(req.ReportID, strings.TrimSpace(req.Caption))

	notifyCtx, cancel := context.WithTimeout(ctx, s.cfg.NotifyPhotoTimeout)
	defer cancel()

	if err := s.notifier.NotifyPhoto(notifyCtx, req.Data, caption); err != nil {
		metrics.NotificationsTotal.WithLabelValues("photo", "error").Inc()
		return apperrors.GeneralError(fmt.Errorf("failed to forward screenshot: %w", err))
	}

	metrics.NotificationsTotal.WithLabelValues("photo", "ok").Inc()
	return nil
}

// notifyText delivers a text notification with a bounded timeout and
// swallows any failure.
func (s *reputationService) notifyText(ctx context.Context, kind, message string) {
	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.NotifyTextTimeout)
	defer cancel()

	if err := s.notifier.NotifyText(notifyCtx, message); err != nil {
		metrics.NotificationsTotal.WithLabelValues("text", "error").Inc()
		s.logger.Warn("admin notification failed",
			zap.String("kind", kind),
			zap.Error(err))
		return
	}
	metrics.NotificationsTotal.WithLabelValues("text", "ok").Inc()
}
