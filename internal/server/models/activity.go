package models

import "time"

// Activity action tags.
const (
	ActionSignup  = "signup"
	ActionLogin   = "login"
	ActionLogout  = "logout"
	ActionUpload  = "upload"
	ActionRename  = "rename"
	ActionDelete  = "delete"
	ActionSupport = "support"
)

// ActivityRecord is one append-only audit entry. UserID is nil for events
// without an identity (guest support requests); Details may be nil.
type ActivityRecord struct {
	ID      int64     `db:"id"`
	UserID  *string   `db:"userid"`
	Action  string    `db:"action"`
	Details *string   `db:"details"`
	TS      time.Time `db:"ts"`
}

// UserIDOrEmpty returns the userid or "" when the record has none.
func (r *ActivityRecord) UserIDOrEmpty() string {
	if r.UserID == nil {
		return ""
	}
	return *r.UserID
}

// DetailsOrEmpty returns the details or "".
func (r *ActivityRecord) DetailsOrEmpty() string {
	if r.Details == nil {
		return ""
	}
	return *r.Details
}
