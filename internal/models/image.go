package models

// ImageSet is the resolved set of display URLs for one image slot.
// Any member may be nil when nothing could be resolved for it.
type ImageSet struct {
	Webp     *string `json:"webp"`
	Jpg      *string `json:"jpg"`
	Original *string `json:"original"`
	Thumb    *string `json:"thumb"`
}

// Best returns the preferred URL: webp, then jpg, then the original.
func (s ImageSet) Best() *string {
	switch {
	case s.Webp != nil:
		return s.Webp
	case s.Jpg != nil:
		return s.Jpg
	default:
		return s.Original
	}
}

// Empty reports whether no URL was resolved at all.
func (s ImageSet) Empty() bool {
	return s.Webp == nil && s.Jpg == nil && s.Original == nil && s.Thumb == nil
}
