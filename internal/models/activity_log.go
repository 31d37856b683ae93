package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// ActivityAction is what an activity log entry records.
type ActivityAction string

const (
	ActionCreate    ActivityAction = "create"
	ActionUpdate    ActivityAction = "update"
	ActionDelete    ActivityAction = "delete"
	ActionLogin     ActivityAction = "login"
	ActionLogout    ActivityAction = "logout"
	ActionUpload    ActivityAction = "upload"
	ActionDownload  ActivityAction = "download"
	ActionPublish   ActivityAction = "publish"
	ActionUnpublish ActivityAction = "unpublish"
	ActionArchive   ActivityAction = "archive"
	ActionRestore   ActivityAction = "restore"
)

// ErrImmutableLog is returned when something tries to change a written log entry.
var ErrImmutableLog = errors.New("activity log entries are immutable")

// ActivityLogModel is an append-only audit record.
type ActivityLogModel struct {
	ID          uint           `json:"id"           gorm:"primaryKey;autoIncrement"`
	Action      ActivityAction `json:"action"       gorm:"size:20;index;not null"`
	Description string         `json:"description"  gorm:"type:text"`
	SubjectType *MorphType     `json:"subject_type" gorm:"size:40;index:idx_activity_subject"`
	SubjectID   *uint          `json:"subject_id"   gorm:"index:idx_activity_subject"`
	ActorID     *uint          `json:"actor_id"     gorm:"index"`
	ActorName   string         `json:"actor_name"   gorm:"size:150"`
	OldValues   JSONMap        `json:"old_values"`
	NewValues   JSONMap        `json:"new_values"`
	Metadata    JSONMap        `json:"metadata"`
	IPAddress   string         `json:"ip_address"   gorm:"size:45"`
	UserAgent   string         `json:"user_agent"   gorm:"size:500"`
	CreatedAt   time.Time      `json:"created_at"   gorm:"index"`
}

func (ActivityLogModel) TableName() string { return "activity_logs" }

func (ActivityLogModel) BeforeUpdate(tx *gorm.DB) error { return ErrImmutableLog }

func (ActivityLogModel) BeforeDelete(tx *gorm.DB) error { return ErrImmutableLog }
