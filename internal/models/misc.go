package models

import "time"

// SlugTrackerModel remembers slugs a record used to have, so old links keep resolving.
type SlugTrackerModel struct {
	ID        uint      `json:"id"        gorm:"primaryKey;autoIncrement"`
	Slug      string    `json:"slug"      gorm:"size:191;index;not null"`
	Type      MorphType `json:"type"      gorm:"size:40;index;not null"`
	TargetID  uint      `json:"target_id" gorm:"index;not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (SlugTrackerModel) TableName() string { return "slug_trackers" }

// All lists every persisted model, in dependency order.
func All() []interface{} {
	return []interface{}{
		&CategoryModel{},
		&PostModel{},
		&AnnouncementModel{},
		&MediaModel{},
		&GalleryModel{},
		&GalleryItemModel{},
		&StaffModel{},
		&FacilityModel{},
		&ExtraModel{},
		&AlumniModel{},
		&AchievementModel{},
		&SliderModel{},
		&ScheduleModel{},
		&SettingModel{},
		&ActivityLogModel{},
		&SlugTrackerModel{},
	}
}
