// Package activitylog writes and queries the append-only audit trail.
package activitylog

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sekolah-web/core/internal/models"
	"github.com/sekolah-web/core/internal/pkg/morph"
	"github.com/sekolah-web/core/internal/pkg/pagination"
	"github.com/sekolah-web/core/internal/pkg/requestctx"
)

const (
	writeTimeout = 3 * time.Second
	userAgentMax = 500
)

// Entry is what a caller knows about an action. Actor, IP and user agent
// come from the request context.
type Entry struct {
	Action      models.ActivityAction
	Description string
	Subject     models.Subject
	OldValues   map[string]interface{}
	NewValues   map[string]interface{}
	Metadata    map[string]interface{}
}

// Logger records activity. A nil *Logger is valid and records nothing.
type Logger struct {
	db       *gorm.DB
	registry *morph.Registry
	logger   *zap.Logger
}

func New(db *gorm.DB, registry *morph.Registry, logger *zap.Logger) *Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Logger{db: db, registry: registry, logger: logger.Named("activity")}
}

// Log writes e and returns the stored row. Failures are logged and yield nil;
// they never fail the operation being audited.
func (l *Logger) Log(ctx context.Context, e Entry) *models.ActivityLogModel {
	if l == nil || l.db == nil {
		return nil
	}
	info := requestctx.FromContext(ctx)

	row := &models.ActivityLogModel{
		Action:      e.Action,
		Description: e.Description,
		ActorID:     info.ActorID,
		ActorName:   info.ActorName,
		OldValues:   models.JSONMap(e.OldValues),
		NewValues:   models.JSONMap(e.NewValues),
		Metadata:    models.JSONMap(e.Metadata),
		IPAddress:   info.IP,
		UserAgent:   truncate(info.UserAgent, userAgentMax),
	}
	if info.RequestID != "" {
		if row.Metadata == nil {
			row.Metadata = models.JSONMap{}
		}
		row.Metadata["request_id"] = info.RequestID
	}
	if e.Subject != nil && !isNil(e.Subject) {
		typ, id := e.Subject.MorphType(), e.Subject.GetID()
		row.SubjectType, row.SubjectID = &typ, &id
	}

	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
	defer cancel()
	if err := l.db.WithContext(wctx).Create(row).Error; err != nil {
		l.logger.Warn("write activity log failed",
			zap.String("action", string(e.Action)),
			zap.String("description", e.Description),
			zap.Error(err),
		)
		return nil
	}
	return row
}

func (l *Logger) Created(ctx context.Context, subject models.Subject, description string) *models.ActivityLogModel {
	return l.Log(ctx, Entry{
		Action:      models.ActionCreate,
		Description: description,
		Subject:     subject,
		NewValues:   toMap(subject),
	})
}

// Updated records only the fields that differ between before and after.
// Nothing is written when nothing changed.
func (l *Logger) Updated(ctx context.Context, subject models.Subject, before, after interface{}, description string) *models.ActivityLogModel {
	oldValues, newValues := Diff(before, after)
	if len(newValues) == 0 {
		return nil
	}
	return l.Log(ctx, Entry{
		Action:      models.ActionUpdate,
		Description: description,
		Subject:     subject,
		OldValues:   oldValues,
		NewValues:   newValues,
	})
}

func (l *Logger) Deleted(ctx context.Context, subject models.Subject, description string) *models.ActivityLogModel {
	return l.Log(ctx, Entry{
		Action:      models.ActionDelete,
		Description: description,
		Subject:     subject,
		OldValues:   toMap(subject),
	})
}

func (l *Logger) Restored(ctx context.Context, subject models.Subject, description string) *models.ActivityLogModel {
	return l.Log(ctx, Entry{Action: models.ActionRestore, Description: description, Subject: subject})
}

// Filter narrows List. Zero fields match everything.
type Filter struct {
	Action      models.ActivityAction
	SubjectType models.MorphType
	ActorID     *uint
	Since       *time.Time
	Until       *time.Time
}

// List returns entries newest first.
func (l *Logger) List(ctx context.Context, f Filter, page pagination.Query) ([]models.ActivityLogModel, pagination.Meta, error) {
	tx := l.db.WithContext(ctx).Model(&models.ActivityLogModel{})
	if f.Action != "" {
		tx = tx.Where("action = ?", f.Action)
	}
	if f.SubjectType != "" {
		tx = tx.Where("subject_type = ?", f.SubjectType)
	}
	if f.ActorID != nil {
		tx = tx.Where("actor_id = ?", *f.ActorID)
	}
	if f.Since != nil {
		tx = tx.Where("created_at >= ?", *f.Since)
	}
	if f.Until != nil {
		tx = tx.Where("created_at < ?", *f.Until)
	}

	var rows []models.ActivityLogModel
	meta, err := pagination.Paginate(tx.Order("created_at DESC, id DESC"), page, &rows)
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("list activity: %w", err)
	}
	return rows, meta, nil
}

// ForSubject returns the history of one record, newest first.
func (l *Logger) ForSubject(ctx context.Context, subject models.Subject, limit int) ([]models.ActivityLogModel, error) {
	tx := l.db.WithContext(ctx).
		Where("subject_type = ? AND subject_id = ?", subject.MorphType(), subject.GetID()).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	var rows []models.ActivityLogModel
	if err := tx.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("activity of %s %d: %w", subject.MorphType(), subject.GetID(), err)
	}
	return rows, nil
}

// Subject loads the record an entry refers to, or nil when it has none.
func (l *Logger) Subject(ctx context.Context, entry models.ActivityLogModel) (models.Subject, error) {
	if entry.SubjectType == nil || entry.SubjectID == nil {
		return nil, nil
	}
	if l.registry == nil {
		return nil, fmt.Errorf("no subject registry")
	}
	return l.registry.Load(ctx, *entry.SubjectType, *entry.SubjectID)
}

var ignoredFields = map[string]bool{"updated_at": true, "created_at": true}

// Diff compares the JSON forms of before and after and returns the old and
// new values of every changed top-level field.
func Diff(before, after interface{}) (map[string]interface{}, map[string]interface{}) {
	a, b := toMap(before), toMap(after)
	oldValues, newValues := map[string]interface{}{}, map[string]interface{}{}
	for k, nv := range b {
		if ignoredFields[k] {
			continue
		}
		if ov, ok := a[k]; !ok || !reflect.DeepEqual(ov, nv) {
			oldValues[k] = a[k]
			newValues[k] = nv
		}
	}
	for k, ov := range a {
		if _, ok := b[k]; !ok && !ignoredFields[k] {
			oldValues[k] = ov
			newValues[k] = nil
		}
	}
	return oldValues, newValues
}

func toMap(v interface{}) map[string]interface{} {
	if v == nil || isNil(v) {
		return nil
	}
	if m, ok := v.(map[string]interface{}); ok {
		return m
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

func isNil(v interface{}) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Ptr && rv.IsNil()
}

// truncate cuts s to at most n bytes without splitting a rune. Invalid
// bytes are dropped first so the result is always valid UTF-8.
func truncate(s string, n int) string {
	s = strings.ToValidUTF8(s, "")
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
