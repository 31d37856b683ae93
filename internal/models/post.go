package models

import "gorm.io/gorm"

// PostModel is a news article.
type PostModel struct {
	Base
	SlugField
	Publication
	Body
	Title         string         `json:"title"          gorm:"size:255;not null"`
	CategoryID    *uint          `json:"category_id"    gorm:"index"`
	Category      *CategoryModel `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	AuthorID      *uint          `json:"author_id"      gorm:"index"`
	AuthorName    string         `json:"author_name"    gorm:"size:120"`
	Tags          StringArray    `json:"tags"`
	FeaturedImage string         `json:"featured_image" gorm:"size:500"`
	IsFeatured    bool           `json:"is_featured"    gorm:"index;not null"`
	Views         int64          `json:"views"          gorm:"not null;default:0"`

	Summary string   `json:"excerpt" gorm:"-"`
	Image   ImageSet `json:"image"   gorm:"-"`
}

func (PostModel) TableName() string { return "posts" }

func (PostModel) MorphType() MorphType { return MorphPost }

func (p PostModel) SlugSource() string { return p.Title }

func (PostModel) MediaCollection() string { return CollectionFeaturedImage }

func (p PostModel) LegacyImage() string { return p.FeaturedImage }

func (p *PostModel) SetImage(s ImageSet) { p.Image = s }

func (PostModel) CounterColumns() []string { return []string{"views"} }

func (p *PostModel) BeforeSave(tx *gorm.DB) error {
	p.Publication.normalize()
	return nil
}

func (p *PostModel) AfterFind(tx *gorm.DB) error {
	p.Summary = p.Excerpt()
	return nil
}
