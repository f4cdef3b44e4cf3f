package repstore

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/cherrygram/reputation-api/pkg/reputation"
)

// ScamEntryDao is a data access object that maps directly to the 'scam_list' table in PostgreSQL.
type ScamEntryDao struct {
	bun.BaseModel `bun:"table:scam_list,alias:s"`
	ID            int64     `bun:"id,pk,autoincrement"`
	Username      string    `bun:"username,unique,notnull,type:varchar(32)"`
	Reason        *string   `bun:"reason,type:text"`
	AddedAt       time.Time `bun:"added_at,nullzero,default:current_timestamp"`
}

// WhitelistEntryDao is a data access object that maps directly to the 'whitelist' table in PostgreSQL.
type WhitelistEntryDao struct {
	bun.BaseModel      `bun:"table:whitelist,alias:w"`
	ID                 int64     `bun:"id,pk,autoincrement"`
	Username           string    `bun:"username,unique,notnull,type:varchar(32)"`
	VerifiedAt         time.Time `bun:"verified_at,nullzero,default:current_timestamp"`
	ProfileImage       *string   `bun:"profile_image,type:text"`
	ProfileDescription *string   `bun:"profile_description,type:text"`
	ProfileBadge       *string   `bun:"profile_badge,type:varchar(255)"`
}

// ApplicationDao is a data access object that maps directly to the 'applications' table in PostgreSQL.
type ApplicationDao struct {
	bun.BaseModel `bun:"table:applications,alias:a"`
	ID            int64     `bun:"id,pk,autoincrement"`
	Username      string    `bun:"username,notnull,type:varchar(32)"`
	Description   string    `bun:"description,notnull,type:varchar(500)"`
	Proof         *string   `bun:"proof,type:text"`
	Status        string    `bun:"status,notnull,default:'pending',type:varchar(20)"`
	CreatedAt     time.Time `bun:"created_at,nullzero,default:current_timestamp"`
}

// ScamReportDao is a data access object that maps directly to the 'scam_reports' table in PostgreSQL.
type ScamReportDao struct {
	bun.BaseModel    `bun:"table:scam_reports,alias:r"`
	ID               int64     `bun:"id,pk,autoincrement"`
	ReporterUsername *string   `bun:"reporter_username,type:varchar(32)"`
	ScammerUsername  string    `bun:"scammer_username,notnull,type:varchar(32)"`
	Description      string    `bun:"description,notnull,type:varchar(1000)"`
	ProofLinks       *string   `bun:"proof_links,type:text"`
	Status           string    `bun:"status,notnull,default:'pending',type:varchar(20)"`
	CreatedAt        time.Time `bun:"created_at,nullzero,default:current_timestamp"`
}

func toScamEntry(dao *ScamEntryDao) *reputation.ScamEntry {
	entry := &reputation.ScamEntry{
		ID:       dao.ID,
		Username: dao.Username,
		AddedAt:  dao.AddedAt,
	}
	if dao.Reason != nil {
		entry.Reason = *dao.Reason
	}
	return entry
}

func toWhitelistEntry(dao *WhitelistEntryDao) *reputation.WhitelistEntry {
	entry := &reputation.WhitelistEntry{
		ID:         dao.ID,
		Username:   dao.Username,
		VerifiedAt: dao.VerifiedAt,
	}
	if dao.ProfileImage != nil {
		entry.ProfileImage = *dao.ProfileImage
	}
	if dao.ProfileDescription != nil {
		entry.ProfileDescription = *dao.ProfileDescription
	}
	if dao.ProfileBadge != nil {
		entry.ProfileBadge = *dao.ProfileBadge
	}
	return entry
}

func toApplicationDao(app *reputation.Application) *ApplicationDao {
	dao := &ApplicationDao{
		Username:    app.Username,
		Description: app.Description,
		Status:      app.Status,
	}
	if app.Proof != "" {
		dao.Proof = &app.Proof
	}
	if dao.Status == "" {
		dao.Status = reputation.StatusPending
	}
	return dao
}

func toScamReportDao(report *reputation.ScamReport) *ScamReportDao {
	dao := &ScamReportDao{
		ScammerUsername: report.ScammerUsername,
		Description:     report.Description,
		Status:          report.Status,
	}
	if report.ReporterUsername != "" {
		dao.ReporterUsername = &report.ReporterUsername
	}
	if report.ProofLinks != "" {
		dao.ProofLinks = &report.ProofLinks
	}
	if dao.Status == "" {
		dao.Status = reputation.StatusPending
	}
	return dao
}
