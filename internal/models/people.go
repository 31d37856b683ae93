package models

// StaffModel is a teacher or employee profile.
type StaffModel struct {
	Base
	SlugField
	Listing
	Name           string  `json:"name"            gorm:"size:150;not null"`
	EmployeeNumber *string `json:"employee_number" gorm:"size:40;uniqueIndex"`
	Position       string  `json:"position"        gorm:"size:150"`
	Category       string  `json:"category"        gorm:"size:40;index"`
	Department     string  `json:"department"      gorm:"size:150"`
	Subject        string  `json:"subject"         gorm:"size:150"`
	Education      string  `json:"education"       gorm:"size:255"`
	Email          string  `json:"email"           gorm:"size:150"`
	Phone          string  `json:"phone"           gorm:"size:40"`
	Bio            string  `json:"bio"             gorm:"type:text"`
	Photo          string  `json:"photo"           gorm:"size:500"`
	SocialMedia    JSONMap `json:"social_media"`

	Image ImageSet `json:"image" gorm:"-"`
}

func (StaffModel) TableName() string { return "staff" }

func (StaffModel) MorphType() MorphType { return MorphStaff }

func (s StaffModel) SlugSource() string { return s.Name }

func (StaffModel) MediaCollection() string { return CollectionPhoto }

func (s StaffModel) LegacyImage() string { return s.Photo }

func (s *StaffModel) SetImage(v ImageSet) { s.Image = v }

func (s StaffModel) CategoryLabel() Label { return StaffCategories.Lookup(s.Category) }

// AlumniModel is a graduate profile with an optional testimonial.
type AlumniModel struct {
	Base
	SlugField
	Listing
	Name           string  `json:"name"            gorm:"size:150;not null"`
	GraduationYear int     `json:"graduation_year" gorm:"index"`
	Major          string  `json:"major"           gorm:"size:150"`
	Category       string  `json:"category"        gorm:"size:40;index"`
	Occupation     string  `json:"occupation"      gorm:"size:150"`
	Institution    string  `json:"institution"     gorm:"size:200"`
	Testimonial    string  `json:"testimonial"     gorm:"type:text"`
	Photo          string  `json:"photo"           gorm:"size:500"`
	SocialMedia    JSONMap `json:"social_media"`
	IsFeatured     bool    `json:"is_featured"     gorm:"index;not null"`

	Image ImageSet `json:"image" gorm:"-"`
}

func (AlumniModel) TableName() string { return "alumni" }

func (AlumniModel) MorphType() MorphType { return MorphAlumni }

func (a AlumniModel) SlugSource() string { return a.Name }

func (AlumniModel) MediaCollection() string { return CollectionPhoto }

func (a AlumniModel) LegacyImage() string { return a.Photo }

func (a *AlumniModel) SetImage(v ImageSet) { a.Image = v }

func (a AlumniModel) CategoryLabel() Label { return AlumniCategories.Lookup(a.Category) }
