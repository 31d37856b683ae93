package models

// FacilityModel is a room or building shown on the facilities page.
type FacilityModel struct {
	Base
	SlugField
	Listing
	Name        string      `json:"name"        gorm:"size:150;not null"`
	Description string      `json:"description" gorm:"type:text"`
	Category    string      `json:"category"    gorm:"size:40;index"`
	Location    string      `json:"location"    gorm:"size:200"`
	Capacity    *int        `json:"capacity"`
	Features    StringArray `json:"features"`
	ImagePath   string      `json:"image_path"  gorm:"column:image;size:500"`
	IsFeatured  bool        `json:"is_featured" gorm:"index;not null"`

	Image ImageSet `json:"image" gorm:"-"`
}

func (FacilityModel) TableName() string { return "facilities" }

func (FacilityModel) MorphType() MorphType { return MorphFacility }

func (f FacilityModel) SlugSource() string { return f.Name }

func (FacilityModel) MediaCollection() string { return CollectionImage }

func (f FacilityModel) LegacyImage() string { return f.ImagePath }

func (f *FacilityModel) SetImage(v ImageSet) { f.Image = v }

func (f FacilityModel) CategoryLabel() Label { return FacilityCategories.Lookup(f.Category) }
