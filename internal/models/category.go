package models

// CategoryModel groups posts.
type CategoryModel struct {
	Base
	SlugField
	Name        string `json:"name"        gorm:"size:120;not null"`
	Description string `json:"description" gorm:"type:text"`
	Color       string `json:"color"       gorm:"size:20"`

	Posts []PostModel `json:"posts,omitempty" gorm:"foreignKey:CategoryID"`
}

func (CategoryModel) TableName() string { return "categories" }

func (CategoryModel) MorphType() MorphType { return MorphCategory }

func (c CategoryModel) SlugSource() string { return c.Name }
