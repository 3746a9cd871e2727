// Package audit records which profile fields were handed out to whom.
// Events carry field names only, never values.
package audit

import (
	"time"

	id "formprefill/pkg/domain"
)

type AuditEvent string

const (
	EventPrefillDataExposed AuditEvent = "prefill_data_exposed"
	EventPrefillDenied      AuditEvent = "prefill_denied"
)

// Event is emitted by the HTTP layer after a data request was answered.
type Event struct {
	Action    AuditEvent `json:"action"`
	Timestamp time.Time  `json:"timestamp"`
	UserID    id.UserID  `json:"user_id,omitempty"`
	Site      string     `json:"site,omitempty"`
	// Fields are the names of the exposed fields, sorted.
	Fields []string `json:"fields,omitempty"`
	// AllowListSource names the allow-list layer that decided.
	AllowListSource string `json:"allow_list_source,omitempty"`
	Reason          string `json:"reason,omitempty"`
	RequestID       string `json:"request_id,omitempty"`
	ClientIP        string `json:"client_ip,omitempty"`
}
