// Package export renders the activity log as CSV or as a printable report
// and enforces who may export whose records.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/securevault/internal/common"
	"github.com/dmitrijs2005/securevault/internal/logging"
	"github.com/dmitrijs2005/securevault/internal/server/metrics"
	"github.com/dmitrijs2005/securevault/internal/server/models"
	"github.com/dmitrijs2005/securevault/internal/server/session"
)

const (
	ReportTitle = "SecureVault - User Activity Log"
	TimeLayout  = "2006-01-02 15:04:05"

	// MaxLineRunes bounds one report line.
	MaxLineRunes = 120

	ContentTypeCSV = "text/csv"
)

// Scope selects whose records are exported.
type Scope struct {
	all    bool
	userID string
}

// Own is the requester's own records.
func Own() Scope { return Scope{} }

// All is every record, admin only.
func All() Scope { return Scope{all: true} }

// Of is the records of one user.
func Of(userID string) Scope { return Scope{userID: userID} }

func (s Scope) IsAll() bool { return s.all }

type ActivityQuerier interface {
	Query(ctx context.Context, userID *string, limit int) ([]*models.ActivityRecord, error)
}

type Authorizer interface {
	IsAdmin(s session.Session) bool
}

// Renderer lays out report lines into a document.
type Renderer interface {
	Render(title string, generated time.Time, lines []string) ([]byte, error)
	ContentType() string
	Extension() string
}

type Document struct {
	Content     []byte
	ContentType string
	Extension   string
	// Substituted is set when the CSV was returned instead of the
	// requested document.
	Substituted bool
}

type Exporter struct {
	activity ActivityQuerier
	authz    Authorizer
	renderer Renderer
	logger   logging.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

// NewExporter builds an exporter. A nil renderer means documents are always
// substituted with CSV.
func NewExporter(a ActivityQuerier, authz Authorizer, r Renderer, logger logging.Logger, mtr *metrics.Metrics) *Exporter {
	return &Exporter{
		activity: a,
		authz:    authz,
		renderer: r,
		logger:   logger.With("module", "export"),
		metrics:  mtr,
		now:      time.Now,
	}
}

func (e *Exporter) authorize(requester session.Session, scope Scope) (*string, error) {
	if !requester.LoggedIn() {
		return nil, common.ErrorUnauthorized
	}
	if scope.all {
		if !e.authz.IsAdmin(requester) {
			return nil, common.ErrorForbidden
		}
		return nil, nil
	}

	id := scope.userID
	if id == "" {
		id = requester.Identity
	}
	if id != requester.Identity && !e.authz.IsAdmin(requester) {
		return nil, common.ErrorForbidden
	}
	return &id, nil
}

func (e *Exporter) records(ctx context.Context, requester session.Session, scope Scope) ([]*models.ActivityRecord, error) {
	filter, err := e.authorize(requester, scope)
	if err != nil {
		return nil, err
	}
	return e.activity.Query(ctx, filter, 0)
}

// CSV returns the records with header userid,action,details,ts, newest
// first.
func (e *Exporter) CSV(ctx context.Context, requester session.Session, scope Scope) ([]byte, error) {
	recs, err := e.records(ctx, requester, scope)
	if err != nil {
		return nil, err
	}
	return EncodeCSV(recs)
}

// Document renders the report. When the renderer is missing or fails the CSV
// is returned with Substituted set.
func (e *Exporter) Document(ctx context.Context, requester session.Session, scope Scope) (*Document, error) {
	recs, err := e.records(ctx, requester, scope)
	if err != nil {
		return nil, err
	}

	if e.renderer != nil {
		content, err := e.renderer.Render(ReportTitle, e.now(), ReportLines(recs))
		if err == nil {
			return &Document{
				Content:     content,
				ContentType: e.renderer.ContentType(),
				Extension:   e.renderer.Extension(),
			}, nil
		}
		e.logger.Warn(ctx, "document renderer failed, falling back to csv", "error", err)
	}

	content, err := EncodeCSV(recs)
	if err != nil {
		return nil, err
	}
	e.metrics.ExportSubstituted()

	return &Document{
		Content:     content,
		ContentType: ContentTypeCSV,
		Extension:   "csv",
		Substituted: true,
	}, nil
}

func EncodeCSV(recs []*models.ActivityRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"userid", "action", "details", "ts"}); err != nil {
		return nil, err
	}
	for _, r := range recs {
		row := []string{r.UserIDOrEmpty(), r.Action, r.DetailsOrEmpty(), r.TS.Format(TimeLayout)}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("csv: %w", err)
	}

	return buf.Bytes(), nil
}

// ReportLines formats one line per record as "ts | userid | action | details".
func ReportLines(recs []*models.ActivityRecord) []string {
	lines := make([]string, 0, len(recs))
	for _, r := range recs {
		line := fmt.Sprintf("%s | %s | %s | %s", r.TS.Format(TimeLayout), r.UserIDOrEmpty(), r.Action, r.DetailsOrEmpty())
		lines = append(lines, truncate(line, MaxLineRunes))
	}
	return lines
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// RendererByName maps a configured renderer name to a Renderer. "none"
// yields nil.
func RendererByName(name string) (Renderer, error) {
	switch strings.ToLower(name) {
	case "pdf":
		return PDFRenderer{}, nil
	case "text":
		return TextRenderer{}, nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown document renderer %q: %w", name, common.ErrorInvalidInput)
	}
}
