package models

import (
	"time"

	"gorm.io/datatypes"
)

// GalleryModel is a photo album, usually of one school event.
type GalleryModel struct {
	Base
	SlugField
	Listing
	Title       string          `json:"title"       gorm:"size:255;not null"`
	Description string          `json:"description" gorm:"type:text"`
	Category    string          `json:"category"    gorm:"size:40;index"`
	EventDate   *datatypes.Date `json:"event_date"`
	Thumbnail   string          `json:"thumbnail"   gorm:"size:500"`
	IsFeatured  bool            `json:"is_featured" gorm:"index;not null"`

	Items []GalleryItemModel `json:"items,omitempty" gorm:"foreignKey:GalleryID"`
	Image ImageSet           `json:"image"           gorm:"-"`
}

func (GalleryModel) TableName() string { return "galleries" }

func (GalleryModel) MorphType() MorphType { return MorphGallery }

func (g GalleryModel) SlugSource() string { return g.Title }

func (GalleryModel) MediaCollection() string { return CollectionThumbnail }

func (g GalleryModel) LegacyImage() string { return g.Thumbnail }

func (g *GalleryModel) SetImage(s ImageSet) { g.Image = s }

// GalleryItemModel is one picture of a gallery. It points either at a media
// asset or, for rows imported from the old site, at a legacy image path.
type GalleryItemModel struct {
	ID        uint        `json:"id"         gorm:"primaryKey;autoIncrement"`
	GalleryID uint        `json:"gallery_id" gorm:"index;not null"`
	MediaID   *uint       `json:"media_id"   gorm:"index"`
	Media     *MediaModel `json:"-"          gorm:"foreignKey:MediaID"`
	Image     string      `json:"image"      gorm:"size:500"`
	Caption   string      `json:"caption"    gorm:"size:500"`
	Order     int         `json:"order"      gorm:"column:sort_order;index;not null;default:0"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`

	Resolved ImageSet `json:"resolved" gorm:"-"`
}

func (GalleryItemModel) TableName() string { return "gallery_items" }
