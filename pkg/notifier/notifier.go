// Package notifier delivers admin notifications about new applications,
// scam reports and screenshots to a Telegram chat. Delivery is best effort:
// a single attempt with a bounded timeout and no retries.
package notifier

import (
	"context"
	"fmt"

	"github.com/cherrygram/reputation-api/pkg/reputation"
)

// Notifier sends human readable summaries to the admin channel.
type Notifier interface {
	NotifyText(ctx context.Context, text string) error
	NotifyPhoto(ctx context.Context, photo []byte, caption string) error
}

const timeLayout = "02.01.2006 15:04"

// ApplicationMessage renders the admin notification for a new
// verification application.
func ApplicationMessage(app *reputation.Application) string {
	proof := app.Proof
	if proof == "" {
		proof = "Не предоставлены"
	}
	return fmt.Sprintf(`
🆕 <b>НОВАЯ ЗАЯВКА НА ВЕРИФИКАЦИЮ</b>

👤 Username: @%s
📝 Описание: %s
🔗 Доказательства: %s

ID заявки: #%d
⏰ %s
`, app.Username, app.Description, proof, app.ID, app.CreatedAt.Format(timeLayout))
}

// ScamReportMessage renders the admin notification for a new scam report.
func ScamReportMessage(report *reputation.ScamReport) string {
	reporter := "Аноним"
	if report.ReporterUsername != "" {
		reporter = "@" + report.ReporterUsername
	}
	proofLinks := report.ProofLinks
	if proofLinks == "" {
		proofLinks = "Не предоставлены"
	}
	return fmt.Sprintf(`
🚨 <b>НОВАЯ ЖАЛОБА НА МОШЕННИКА!</b>

⚠️ Мошенник: @%s
👤 Отправитель: %s

📄 <b>Описание:</b>
%s

🔗 <b>Доказательства:</b>
%s

ID жалобы: #%d
⏰ %s
`, report.ScammerUsername, reporter, report.Description, proofLinks,
		report.ID, report.CreatedAt.Format(timeLayout))
}

// ScreenshotCaption renders the caption attached to a forwarded screenshot.
func ScreenshotCaption(reportID int64, caption string) string {
	if caption == "" {
		caption = "Без описания"
	}
	return fmt.Sprintf("📎 <b>Скриншот к жалобе #%d</b>\n\n%s", reportID, caption)
}
