package order

import "time"

// Payload carries the optional data attached to a transition request.
// Guards read from it: requirement submission needs Requirements, deliveries
// need Description, revision requests and cancellations need Reason. Deadline
// extensions record ExtensionDays in their audit entry.
type Payload struct {
	Requirements  string
	Description   string
	Reason        string
	ExtensionDays int
	Attachments   []string
}

// HistoryEntry is one record of the order's append-only audit log. Entries
// are immutable once appended; the history is only ever extended, never
// rewritten. Deadline extensions append an entry carrying the unchanged
// status, so the log also audits non-status mutations.
type HistoryEntry struct {
	status    Status
	actor     Actor
	timestamp time.Time
	payload   Payload
}

// NewHistoryEntry creates an audit record of a transition (or timeline
// extension) performed by actor at timestamp.
func NewHistoryEntry(status Status, actor Actor, timestamp time.Time, payload Payload) HistoryEntry {
	payload.Attachments = cloneAttachments(payload.Attachments)
	return HistoryEntry{
		status:    status,
		actor:     actor,
		timestamp: timestamp,
		payload:   payload,
	}
}

// Status returns the status the order held after this entry.
func (e HistoryEntry) Status() Status {
	return e.status
}

// Actor returns who performed the recorded action.
func (e HistoryEntry) Actor() Actor {
	return e.actor
}

// Timestamp returns when the action was recorded.
func (e HistoryEntry) Timestamp() time.Time {
	return e.timestamp
}

// Payload returns a copy of the data attached to the recorded action.
func (e HistoryEntry) Payload() Payload {
	p := e.payload
	p.Attachments = cloneAttachments(p.Attachments)
	return p
}

func cloneAttachments(attachments []string) []string {
	if len(attachments) == 0 {
		return nil
	}
	cloned := make([]string, len(attachments))
	copy(cloned, attachments)
	return cloned
}
