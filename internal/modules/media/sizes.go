package media

import "strings"

// Size names a generated variant by the box it was scaled into.
type Size string

const (
	SizeThumb  Size = "thumb"
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

// Sizes lists every size in ascending order.
var Sizes = []Size{SizeThumb, SizeSmall, SizeMedium, SizeLarge}

// Format is an encoding of a generated variant.
type Format string

const (
	FormatWebp Format = "webp"
	FormatJpg  Format = "jpg"
)

var Formats = []Format{FormatWebp, FormatJpg}

// ConversionName is the key of a variant in models.MediaModel.GeneratedConversions.
func ConversionName(s Size, f Format) string { return string(s) + "-" + string(f) }

// ParseSize accepts a size name case-insensitively.
func ParseSize(s string) (Size, bool) {
	v := Size(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Sizes {
		if v == known {
			return v, true
		}
	}
	return "", false
}

// conversionExt returns the file extension of a conversion name such as "medium-webp".
func conversionExt(name string) string {
	i := strings.LastIndexByte(name, '-')
	if i < 0 {
		return ""
	}
	return name[i+1:]
}
