// Package reputation contains the domain model for the Telegram username
// reputation service: scam-list entries, whitelist entries, whitelist
// applications and scam reports.
package reputation

import "time"

// Status values for applications and scam reports. The service only ever
// creates pending records; review transitions happen out of band.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Verdict classifies a username after a reputation lookup.
type Verdict string

const (
	// VerdictScam means the username is present on the scam list.
	VerdictScam Verdict = "scam"
	// VerdictTrusted means the username is whitelisted and not on the scam list.
	VerdictTrusted Verdict = "trusted"
	// VerdictUnknown means the username is on neither list.
	VerdictUnknown Verdict = "unknown"
)

// ScamEntry is a confirmed scammer record, seeded administratively.
type ScamEntry struct {
	ID       int64
	Username string
	Reason   string
	AddedAt  time.Time
}

// WhitelistEntry is a verified trusted user record, seeded administratively.
type WhitelistEntry struct {
	ID                 int64
	Username           string
	VerifiedAt         time.Time
	ProfileImage       string
	ProfileDescription string
	ProfileBadge       string
}

// Application is a pending verification application submitted via the API.
type Application struct {
	ID          int64
	Username    string
	Description string
	Proof       string
	Status      string
	CreatedAt   time.Time
}

// ScamReport is a scam complaint submitted via the API. ReporterUsername
// is empty for anonymous reports.
type ScamReport struct {
	ID               int64
	ReporterUsername string
	ScammerUsername  string
	Description      string
	ProofLinks       string
	Status           string
	CreatedAt        time.Time
}

// CheckResult is the outcome of a reputation lookup. At most one of Scam
// and Trusted is set; scam takes priority if the username somehow appears
// on both lists.
type CheckResult struct {
	Username string
	Verdict  Verdict
	Scam     *ScamEntry
	Trusted  *WhitelistEntry
}
