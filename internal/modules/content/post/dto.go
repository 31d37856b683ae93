package post

import "time"

// CreatePostDTO is the input for creating a post.
type CreatePostDTO struct {
	Title         string     `json:"title"          validate:"required,max=255"`
	Slug          string     `json:"slug"           validate:"omitempty,slug,max=160"`
	Content       string     `json:"content"        validate:"required"`
	ContentFormat string     `json:"content_format" validate:"omitempty,oneof=html markdown"`
	Excerpt       *string    `json:"excerpt"        validate:"omitempty,max=500"`
	Status        string     `json:"status"         validate:"omitempty,oneof=draft published archived"`
	PublishedAt   *time.Time `json:"published_at"`
	CategoryID    *uint      `json:"category_id"`
	Tags          []string   `json:"tags"           validate:"omitempty,dive,max=50"`
	FeaturedImage string     `json:"featured_image" validate:"max=500"`
	IsFeatured    bool       `json:"is_featured"`
	AuthorName    string     `json:"author_name"    validate:"max=120"`
}

// UpdatePostDTO changes only the fields that are set. The slug is changed
// through UpdateSlug, never here.
type UpdatePostDTO struct {
	Title         *string    `json:"title"          validate:"omitempty,min=1,max=255"`
	Content       *string    `json:"content"        validate:"omitempty,min=1"`
	ContentFormat *string    `json:"content_format" validate:"omitempty,oneof=html markdown"`
	Excerpt       *string    `json:"excerpt"        validate:"omitempty,max=500"`
	CategoryID    *uint      `json:"category_id"`
	ClearCategory bool       `json:"clear_category"`
	Tags          []string   `json:"tags"           validate:"omitempty,dive,max=50"`
	FeaturedImage *string    `json:"featured_image" validate:"omitempty,max=500"`
	IsFeatured    *bool      `json:"is_featured"`
	PublishedAt   *time.Time `json:"published_at"`
}

// ListQuery narrows the public post listing.
type ListQuery struct {
	Category string `json:"category"`
	Tag      string `json:"tag"`
	Search   string `json:"search"`
}
