package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	apperrors "github.com/cherrygram/reputation-api/pkg/app/errors"
	apphttp "github.com/cherrygram/reputation-api/pkg/app/http"
	"github.com/cherrygram/reputation-api/pkg/reputation"
	"github.com/cherrygram/reputation-api/pkg/validate"
)

// jsonBodyLimit bounds the JSON endpoints; multipart uploads are bounded
// separately by MaxScreenshotBytes.
const jsonBodyLimit = 64 << 10

// HTTP wraps the Service to provide HTTP endpoints
type HTTP struct {
	service  Service
	validate *validator.Validate
	logger   *zap.Logger
}

type checkRequest struct {
	Username string `json:"username" validate:"required,tg_username"`
}

type checkResponse struct {
	Status             string `json:"status"`
	Username           string `json:"username"`
	Reason             string `json:"reason,omitempty"`
	Date               string `json:"date,omitempty"`
	VerifiedAt         string `json:"verified_at,omitempty"`
	ProfileImage       string `json:"profile_image,omitempty"`
	ProfileDescription string `json:"profile_description,omitempty"`
	ProfileBadge       string `json:"profile_badge,omitempty"`
	Message            string `json:"message,omitempty"`
}

type applyRequest struct {
	Username    string `json:"username" validate:"required,tg_username"`
	Description string `json:"description" validate:"required"`
	Proof       string `json:"proof"`
}

type applyResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	ApplicationID int64  `json:"application_id"`
}

type reportRequest struct {
	ReporterUsername string `json:"reporter_username" validate:"omitempty,tg_username"`
	ScammerUsername  string `json:"scammer_username" validate:"required,tg_username"`
	Description      string `json:"description" validate:"required"`
	ProofLinks       string `json:"proof_links"`
}

type reportResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	ReportID int64  `json:"report_id"`
}

type ackResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// RegisterRoutes registers the reputation endpoints on the given chi router.
// rateLimit guards the JSON endpoints; screenshot uploads are bounded by
// payload size instead.
func RegisterRoutes(r chi.Router, svc Service, rateLimit func(http.Handler) http.Handler, logger *zap.Logger) {
	h := &HTTP{
		service:  svc,
		validate: validate.New(),
		logger:   logger,
	}

	r.Group(func(r chi.Router) {
		r.Use(rateLimit)
		r.Post("/check", apphttp.HandleError(h.check))
		r.Post("/apply", apphttp.HandleError(h.apply))
		r.Post("/report", apphttp.HandleError(h.report))
	})
	r.Post("/upload-screenshot", apphttp.HandleError(h.uploadScreenshot))

	r.Get("/", apphttp.HandleError(h.root))
	r.Get("/health", apphttp.HandleError(h.health))
}

func (h *HTTP) check(w http.ResponseWriter, r *http.Request) error {
	var req checkRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	if err := h.validateRequest(&req); err != nil {
		return err
	}

	result, err := h.service.Check(r.Context(), req.Username)
	if err != nil {
		return err
	}

	resp := checkResponse{
		Status:   string(result.Verdict),
		Username: result.Username,
	}
	switch result.Verdict {
	case reputation.VerdictScam:
		resp.Reason = result.Scam.Reason
		resp.Date = result.Scam.AddedAt.Format(time.RFC3339)
	case reputation.VerdictTrusted:
		resp.VerifiedAt = result.Trusted.VerifiedAt.Format(time.RFC3339)
		resp.ProfileImage = result.Trusted.ProfileImage
		resp.ProfileDescription = result.Trusted.ProfileDescription
		resp.ProfileBadge = result.Trusted.ProfileBadge
	default:
		resp.Message = "Пользователь не найден в базе"
	}

	h.writeJSON(w, http.StatusOK, resp)
	return nil
}

func (h *HTTP) apply(w http.ResponseWriter, r *http.Request) error {
	var req applyRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	if err := h.validateRequest(&req); err != nil {
		return err
	}

	app, err := h.service.SubmitApplication(r.Context(), &ApplyRequest{
		Username:    req.Username,
		Description: req.Description,
		Proof:       req.Proof,
	})
	if err != nil {
		return err
	}

	h.writeJSON(w, http.StatusOK, applyResponse{
		Success:       true,
		Message:       "Заявка отправлена на рассмотрение",
		ApplicationID: app.ID,
	})
	return nil
}

func (h *HTTP) report(w http.ResponseWriter, r *http.Request) error {
	var req reportRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	// A blank reporter means anonymous, so trim before omitempty kicks in
	req.ReporterUsername = strings.TrimSpace(req.ReporterUsername)
	if err := h.validateRequest(&req); err != nil {
		return err
	}

	report, err := h.service.ReportScam(r.Context(), &ReportRequest{
		ReporterUsername: req.ReporterUsername,
		ScammerUsername:  req.ScammerUsername,
		Description:      req.Description,
		ProofLinks:       req.ProofLinks,
	})
	if err != nil {
		return err
	}

	h.writeJSON(w, http.StatusOK, reportResponse{
		Success:  true,
		Message:  "Жалоба отправлена на рассмотрение",
		ReportID: report.ID,
	})
	return nil
}

func (h *HTTP) uploadScreenshot(w http.ResponseWriter, r *http.Request) error {
	// One extra byte over the cap keeps the size check in the service
	// authoritative while still bounding memory. The extra 64 KiB covers
	// the non-file form fields and multipart framing.
	r.Body = http.MaxBytesReader(w, r.Body, MaxScreenshotBytes+1+(64<<10))
	if err := r.ParseMultipartForm(MaxScreenshotBytes + 1); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return apperrors.BadRequestError(err, "file exceeds the 10 MiB limit")
		}
		return apperrors.BadRequestError(err, "invalid multipart form")
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return apperrors.BadRequestError(err, "file field is required")
	}
	defer file.Close()

	reportID, err := strconv.ParseInt(r.FormValue("report_id"), 10, 64)
	if err != nil {
		return apperrors.BadRequestError(err, "report_id must be an integer")
	}

	data, err := io.ReadAll(io.LimitReader(file, MaxScreenshotBytes+1))
	if err != nil {
		return apperrors.BadRequestError(err, "failed to read file")
	}

	err = h.service.ForwardScreenshot(r.Context(), &ScreenshotRequest{
		ReportID:    reportID,
		Caption:     r.FormValue("caption"),
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		return err
	}

	h.writeJSON(w, http.StatusOK, ackResponse{
		Success: true,
		Message: "Скриншот отправлен",
	})
	return nil
}

func (h *HTTP) root(w http.ResponseWriter, _ *http.Request) error {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "Reputation Checker API",
	})
	return nil
}

func (h *HTTP) health(w http.ResponseWriter, _ *http.Request) error {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	return nil
}

// validateRequest runs struct validation on a decoded request body and maps
// the first failure to a client-facing 400.
func (h *HTTP) validateRequest(req any) error {
	err := h.validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required":
			return apperrors.BadRequestError(err, fmt.Sprintf("%s is required", fe.Field()))
		case "tg_username":
			return apperrors.BadRequestError(err, fmt.Sprintf("%s: %s", fe.Field(), validate.ErrInvalidUsername.Error()))
		}
	}
	return apperrors.BadRequestError(err, "invalid request payload")
}

func decodeJSON(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, jsonBodyLimit))
	if err != nil {
		return apperrors.BadRequestError(err, "failed to read request")
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return apperrors.BadRequestError(err, "invalid JSON")
	}
	return nil
}

func (h *HTTP) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
