// Package proto declares the securevault.Vault gRPC service: request and
// response messages, the service descriptor and a typed client. Messages are
// carried with a JSON codec registered under the "json" content subtype.
package proto

import "time"

// MaxMessageSize bounds a single request or response, uploads included.
const MaxMessageSize = 64 << 20

type Empty struct{}

type SessionInfo struct {
	Identity string `json:"identity,omitempty"`
	Role     string `json:"role"`
	CaptchaA int    `json:"captcha_a"`
	CaptchaB int    `json:"captcha_b"`
}

type SessionResponse struct {
	Session SessionInfo `json:"session"`
}

type SignupRequest struct {
	UserID   string `json:"userid"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	UserID        string `json:"userid"`
	Password      string `json:"password"`
	CaptchaAnswer string `json:"captcha_answer"`
}

type UploadRequest struct {
	Filename string `json:"filename"`
	Content  []byte `json:"content"`
}

type ListFilesRequest struct {
	Search string `json:"search,omitempty"`
}

type ListFilesResponse struct {
	Files []string `json:"files"`
}

type DownloadRequest struct {
	Filename string `json:"filename"`
}

type DownloadResponse struct {
	Filename string `json:"filename"`
	Content  []byte `json:"content"`
}

type RenameRequest struct {
	OldName string `json:"old_name"`
	NewName string `json:"new_name"`
}

type DeleteRequest struct {
	Filename string `json:"filename"`
}

type ActivityEntry struct {
	UserID  string    `json:"userid,omitempty"`
	Action  string    `json:"action"`
	Details string    `json:"details,omitempty"`
	TS      time.Time `json:"ts"`
}

type AccountResponse struct {
	UserID      string           `json:"userid"`
	Email       string           `json:"email"`
	FileCount   int              `json:"file_count"`
	UsedMB      float64          `json:"used_mb"`
	LimitMB     float64          `json:"limit_mb"`
	UsedPercent float64          `json:"used_percent"`
	Recent      []*ActivityEntry `json:"recent"`
}

// Export formats.
const (
	FormatCSV      = "csv"
	FormatDocument = "document"
)

type ExportActivityRequest struct {
	Format string `json:"format"`
	All    bool   `json:"all,omitempty"`
	UserID string `json:"userid,omitempty"`
}

type ExportActivityResponse struct {
	Content     []byte `json:"content"`
	ContentType string `json:"content_type"`
	Extension   string `json:"extension"`
	Substituted bool   `json:"substituted,omitempty"`
}

type SupportRequest struct {
	IssueType string `json:"issue_type"`
	Message   string `json:"message"`
}

// AdminBrowseRequest lists all owners when Owner is empty, otherwise the
// files of Owner.
type AdminBrowseRequest struct {
	Owner string `json:"owner,omitempty"`
}

type AdminBrowseResponse struct {
	Owners []string `json:"owners,omitempty"`
	Files  []string `json:"files,omitempty"`
}
