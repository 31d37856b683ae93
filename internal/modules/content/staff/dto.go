package staff

type CreateStaffDTO struct {
	Name           string                 `json:"name"            validate:"required,max=150"`
	Slug           string                 `json:"slug"            validate:"omitempty,slug,max=160"`
	EmployeeNumber *string                `json:"employee_number" validate:"omitempty,max=40"`
	Position       string                 `json:"position"        validate:"max=150"`
	Category       string                 `json:"category"        validate:"omitempty,oneof=leadership teacher administration support"`
	Department     string                 `json:"department"      validate:"max=150"`
	Subject        string                 `json:"subject"         validate:"max=150"`
	Education      string                 `json:"education"       validate:"max=255"`
	Email          string                 `json:"email"           validate:"omitempty,email,max=150"`
	Phone          string                 `json:"phone"           validate:"max=40"`
	Bio            string                 `json:"bio"`
	Photo          string                 `json:"photo"           validate:"max=500"`
	SocialMedia    map[string]interface{} `json:"social_media"`
	IsActive       *bool                  `json:"is_active"`
	Order          int                    `json:"order"`
}

type UpdateStaffDTO struct {
	Name           *string                `json:"name"            validate:"omitempty,min=1,max=150"`
	EmployeeNumber *string                `json:"employee_number" validate:"omitempty,max=40"`
	Position       *string                `json:"position"        validate:"omitempty,max=150"`
	Category       *string                `json:"category"        validate:"omitempty,oneof=leadership teacher administration support"`
	Department     *string                `json:"department"      validate:"omitempty,max=150"`
	Subject        *string                `json:"subject"         validate:"omitempty,max=150"`
	Education      *string                `json:"education"       validate:"omitempty,max=255"`
	Email          *string                `json:"email"           validate:"omitempty,email,max=150"`
	Phone          *string                `json:"phone"           validate:"omitempty,max=40"`
	Bio            *string                `json:"bio"`
	Photo          *string                `json:"photo"           validate:"omitempty,max=500"`
	SocialMedia    map[string]interface{} `json:"social_media"`
	IsActive       *bool                  `json:"is_active"`
	Order          *int                   `json:"order"`
}
