package models

import "time"

// Audit actions recorded for write operations.
const (
	AuditActionUpsertStudent = "upsert_student"
	AuditActionUpsertIncome  = "upsert_income"
	AuditActionRollCall      = "submit_rollcall"
	AuditActionLogin         = "login"
)

// AuditEntry is one row of the optional Postgres audit trail. The
// spreadsheet stays the system of record; this is a best-effort journal
// of who wrote what.
type AuditEntry struct {
	ID        string    `db:"id" json:"id"`
	Actor     string    `db:"actor" json:"actor"`
	Action    string    `db:"action" json:"action"`
	Resource  string    `db:"resource" json:"resource"`
	RecordKey string    `db:"record_key" json:"record_key,omitempty"`
	Outcome   string    `db:"outcome" json:"outcome,omitempty"`
	Payload   []byte    `db:"payload" json:"payload,omitempty"`
	IPAddress string    `db:"ip_address" json:"ip_address,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
