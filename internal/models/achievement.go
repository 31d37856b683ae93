package models

import "gorm.io/datatypes"

// AchievementModel is a competition result or award.
type AchievementModel struct {
	Base
	SlugField
	Listing
	Title        string          `json:"title"        gorm:"size:255;not null"`
	Description  string          `json:"description"  gorm:"type:text"`
	Category     string          `json:"category"     gorm:"size:40;index"`
	Level        string          `json:"level"        gorm:"size:40;index"`
	Rank         string          `json:"rank"         gorm:"size:100"`
	AchievedAt   *datatypes.Date `json:"achieved_at"  gorm:"index"`
	Organizer    string          `json:"organizer"    gorm:"size:200"`
	Participants StringArray     `json:"participants"`
	ImagePath    string          `json:"image_path"   gorm:"column:image;size:500"`
	Images       StringArray     `json:"images"`
	IsFeatured   bool            `json:"is_featured"  gorm:"index;not null"`

	Image ImageSet `json:"image" gorm:"-"`
}

func (AchievementModel) TableName() string { return "achievements" }

func (AchievementModel) MorphType() MorphType { return MorphAchievement }

func (a AchievementModel) SlugSource() string { return a.Title }

func (AchievementModel) MediaCollection() string { return CollectionImage }

func (a AchievementModel) LegacyImage() string { return a.ImagePath }

func (a *AchievementModel) SetImage(v ImageSet) { a.Image = v }

func (a AchievementModel) CategoryLabel() Label { return AchievementCategories.Lookup(a.Category) }

func (a AchievementModel) LevelLabel() Label { return AchievementLevels.Lookup(a.Level) }
