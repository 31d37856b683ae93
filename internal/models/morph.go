package models

// MorphType tags the table side of a polymorphic (type, id) reference.
type MorphType string

const (
	MorphPost         MorphType = "post"
	MorphAnnouncement MorphType = "announcement"
	MorphGallery      MorphType = "gallery"
	MorphStaff        MorphType = "staff"
	MorphFacility     MorphType = "facility"
	MorphExtra        MorphType = "extra"
	MorphAlumni       MorphType = "alumni"
	MorphAchievement  MorphType = "achievement"
	MorphSlider       MorphType = "slider"
	MorphSchedule     MorphType = "schedule"
	MorphCategory     MorphType = "category"
	MorphSetting      MorphType = "setting"
)

// Media collection names.
const (
	CollectionFeaturedImage = "featured_image"
	CollectionThumbnail     = "thumbnail"
	CollectionImage         = "image"
	CollectionPhoto         = "photo"
	CollectionGalleryImages = "gallery_images"
)

// SingleFileCollection reports whether a collection holds at most one asset
// per owner, so a new upload replaces the previous one.
func SingleFileCollection(name string) bool {
	switch name {
	case CollectionFeaturedImage, CollectionThumbnail, CollectionImage, CollectionPhoto:
		return true
	}
	return false
}

// Subject is anything addressable through a polymorphic reference.
type Subject interface {
	MorphType() MorphType
	GetID() uint
}

// MediaOwner is a record whose display image is resolved from an attached
// media asset and a legacy image path column.
type MediaOwner interface {
	Subject
	MediaCollection() string
	LegacyImage() string
	SetImage(ImageSet)
}
