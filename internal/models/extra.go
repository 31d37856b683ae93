package models

// UnlimitedSlots is reported as the free slot count of an extra without a capacity.
const UnlimitedSlots = 999999

// ExtraModel is an extracurricular activity students can join.
type ExtraModel struct {
	Base
	SlugField
	Listing
	Name            string      `json:"name"             gorm:"size:150;not null"`
	Description     string      `json:"description"      gorm:"type:text"`
	Category        string      `json:"category"         gorm:"size:40;index"`
	Supervisor      string      `json:"supervisor"       gorm:"size:150"`
	MeetingSchedule string      `json:"meeting_schedule" gorm:"size:200"`
	Location        string      `json:"location"         gorm:"size:200"`
	Capacity        *int        `json:"capacity"`
	MemberCount     int         `json:"member_count"     gorm:"not null;default:0"`
	Requirements    StringArray `json:"requirements"`
	Achievements    StringArray `json:"achievements"`
	ImagePath       string      `json:"image_path"       gorm:"column:image;size:500"`
	IsFeatured      bool        `json:"is_featured"      gorm:"index;not null"`

	Image ImageSet `json:"image" gorm:"-"`
}

func (ExtraModel) TableName() string { return "extras" }

func (ExtraModel) MorphType() MorphType { return MorphExtra }

func (e ExtraModel) SlugSource() string { return e.Name }

func (ExtraModel) MediaCollection() string { return CollectionImage }

func (e ExtraModel) LegacyImage() string { return e.ImagePath }

func (e *ExtraModel) SetImage(v ImageSet) { e.Image = v }

func (ExtraModel) CounterColumns() []string { return []string{"member_count"} }

func (e ExtraModel) CategoryLabel() Label { return ExtraCategories.Lookup(e.Category) }

// HasAvailableSlots holds when there is no capacity or members are below it.
func (e ExtraModel) HasAvailableSlots() bool {
	return e.Capacity == nil || e.MemberCount < *e.Capacity
}

// AvailableSlots is the number of free places, never negative.
func (e ExtraModel) AvailableSlots() int {
	if e.Capacity == nil {
		return UnlimitedSlots
	}
	if free := *e.Capacity - e.MemberCount; free > 0 {
		return free
	}
	return 0
}
