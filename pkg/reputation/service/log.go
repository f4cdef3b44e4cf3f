package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/cherrygram/reputation-api/internal/metrics"
	"github.com/cherrygram/reputation-api/pkg/reputation"
)

const serviceName = "ReputationService"

const logTextMaxLen = 80

// logService wraps Service with automatic logging of all method calls
type logService struct {
	svc    Service
	logger *zap.Logger
}

// NewLog creates a logging decorator for the reputation Service.
// It logs method entry/exit, duration and errors.
func NewLog(svc Service, logger *zap.Logger) Service {
	return &logService{
		svc:    svc,
		logger: logger,
	}
}

func (ls *logService) Check(ctx context.Context, username string) (result *reputation.CheckResult, err error) {
	start := time.Now()

	ls.logger.Info("Check started",
		zap.String("service", serviceName),
		zap.String("method", "Check"),
		zap.String("username", truncateString(username, logTextMaxLen)),
	)

	defer func() {
		duration := time.Since(start)
		metrics.RequestsTotal.WithLabelValues("check", outcomeLabel(err)).Inc()

		if err != nil {
			ls.logger.Error("Check failed",
				zap.String("service", serviceName),
				zap.String("method", "Check"),
				zap.Duration("duration", duration),
				zap.Error(err),
			)
		} else {
			ls.logger.Info("Check completed",
				zap.String("service", serviceName),
				zap.String("method", "Check"),
				zap.String("username", result.Username),
				zap.String("verdict", string(result.Verdict)),
				zap.Duration("duration", duration),
			)
		}
	}()

	return ls.svc.Check(ctx, username)
}

func (ls *logService) SubmitApplication(ctx context.Context, req *ApplyRequest) (app *reputation.Application, err error) {
	start := time.Now()

	ls.logger.Info("SubmitApplication started",
		zap.String("service", serviceName),
		zap.String("method", "SubmitApplication"),
		zap.String("username", truncateString(req.Username, logTextMaxLen)),
		zap.Int("description_len", len(req.Description)),
		zap.Bool("has_proof", req.Proof != ""),
	)

	defer func() {
		duration := time.Since(start)
		metrics.RequestsTotal.WithLabelValues("apply", outcomeLabel(err)).Inc()

		if err != nil {
			ls.logger.Error("SubmitApplication failed",
				zap.String("service", serviceName),
				zap.String("method", "SubmitApplication"),
				zap.Duration("duration", duration),
				zap.Error(err),
			)
		} else {
			ls.logger.Info("SubmitApplication completed",
				zap.String("service", serviceName),
				zap.String("method", "SubmitApplication"),
				zap.String("username", app.Username),
				zap.Int64("application_id", app.ID),
				zap.Duration("duration", duration),
			)
		}
	}()

	return ls.svc.SubmitApplication(ctx, req)
}

func (ls *logService) ReportScam(ctx context.Context, req *ReportRequest) (report *reputation.ScamReport, err error) {
	start := time.Now()

	ls.logger.Info("ReportScam started",
		zap.String("service", serviceName),
		zap.String("method", "ReportScam"),
		zap.String("scammer_username", truncateString(req.ScammerUsername, logTextMaxLen)),
		zap.Bool("anonymous", req.ReporterUsername == ""),
		zap.Int("description_len", len(req.Description)),
	)

	defer func() {
		duration := time.Since(start)
		metrics.RequestsTotal.WithLabelValues("report", outcomeLabel(err)).Inc()

		if err != nil {
			ls.logger.Error("ReportScam failed",
				zap.String("service", serviceName),
				zap.String("method", "ReportScam"),
				zap.Duration("duration", duration),
				zap.Error(err),
			)
		} else {
			ls.logger.Info("ReportScam completed",
				zap.String("service", serviceName),
				zap.String("method", "ReportScam"),
				zap.String("scammer_username", report.ScammerUsername),
				zap.Int64("report_id", report.ID),
				zap.Duration("duration", duration),
			)
		}
	}()

	return ls.svc.ReportScam(ctx, req)
}

func (ls *logService) ForwardScreenshot(ctx context.Context, req *ScreenshotRequest) (err error) {
	start := time.Now()

	ls.logger.Info("ForwardScreenshot started",
		zap.String("service", serviceName),
		zap.String("method", "ForwardScreenshot"),
		zap.Int64("report_id", req.ReportID),
		zap.String("content_type", req.ContentType),
		zap.Int("size_bytes", len(req.Data)),
	)

	defer func() {
		duration := time.Since(start)
		metrics.RequestsTotal.WithLabelValues("upload_screenshot", outcomeLabel(err)).Inc()

		if err != nil {
			ls.logger.Error("ForwardScreenshot failed",
				zap.String("service", serviceName),
				zap.String("method", "ForwardScreenshot"),
				zap.Int64("report_id", req.ReportID),
				zap.Duration("duration", duration),
				zap.Error(err),
			)
		} else {
			ls.logger.Info("ForwardScreenshot completed",
				zap.String("service", serviceName),
				zap.String("method", "ForwardScreenshot"),
				zap.Int64("report_id", req.ReportID),
				zap.Duration("duration", duration),
			)
		}
	}()

	return ls.svc.ForwardScreenshot(ctx, req)
}

func outcomeLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// truncateString limits string length for logging to prevent log spam
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
