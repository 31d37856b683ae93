package models

// SliderModel is a hero banner slide on the home page.
type SliderModel struct {
	Base
	SlugField
	Listing
	Title       string `json:"title"       gorm:"size:255;not null"`
	Subtitle    string `json:"subtitle"    gorm:"size:255"`
	Description string `json:"description" gorm:"type:text"`
	ImagePath   string `json:"image_path"  gorm:"column:image;size:500"`
	ButtonText  string `json:"button_text" gorm:"size:80"`
	ButtonURL   string `json:"button_url"  gorm:"size:500"`

	Image ImageSet `json:"image" gorm:"-"`
}

func (SliderModel) TableName() string { return "sliders" }

func (SliderModel) MorphType() MorphType { return MorphSlider }

func (s SliderModel) SlugSource() string { return s.Title }

func (SliderModel) MediaCollection() string { return CollectionImage }

func (s SliderModel) LegacyImage() string { return s.ImagePath }

func (s *SliderModel) SetImage(v ImageSet) { s.Image = v }
