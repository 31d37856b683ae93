package media

import (
	"strings"

	"github.com/sekolah-web/core/internal/models"
	"github.com/sekolah-web/core/internal/pkg/storage"
)

// Source is everything known about one image slot of a record.
type Source struct {
	Asset    *models.MediaModel
	Legacy   string
	Children []Source
}

// Resolver turns a Source into display URLs. It never touches storage
// beyond building URLs and never fails.
type Resolver struct {
	disks      *storage.Manager
	publicDisk string
}

func NewResolver(disks *storage.Manager, publicDisk string) *Resolver {
	return &Resolver{disks: disks, publicDisk: publicDisk}
}

// Resolve picks URLs for size in this order: generated conversions of the
// asset, the legacy path, the asset original, the first resolvable child.
func (r *Resolver) Resolve(src Source, size Size) models.ImageSet {
	if a := src.Asset; a != nil && a.GeneratedConversions.Any() {
		original := r.assetURL(a, a.OriginalPath())
		set := models.ImageSet{
			Webp:     r.conversionURL(a, size, FormatWebp, original),
			Jpg:      r.conversionURL(a, size, FormatJpg, original),
			Original: original,
		}
		set.Thumb = r.conversionURL(a, SizeThumb, FormatJpg, nil)
		if set.Thumb == nil {
			set.Thumb = r.conversionURL(a, SizeThumb, FormatWebp, original)
		}
		return set
	}

	if legacy := strings.TrimSpace(src.Legacy); legacy != "" {
		return same(r.legacyURL(legacy))
	}

	if a := src.Asset; a != nil {
		return same(r.assetURL(a, a.OriginalPath()))
	}

	for _, child := range src.Children {
		if set := r.Resolve(child, size); !set.Empty() {
			return set
		}
	}
	return models.ImageSet{}
}

// Default is the single URL shown when a caller does not care about formats.
func (r *Resolver) Default(src Source) *string {
	return r.Resolve(src, SizeLarge).Best()
}

// LegacyURL maps a stored legacy value to a URL.
func (r *Resolver) LegacyURL(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return r.legacyURL(v)
}

func (r *Resolver) legacyURL(v string) *string {
	lower := strings.ToLower(v)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return &v
	}
	p := strings.TrimPrefix(v, "/")
	p = strings.TrimPrefix(p, "storage/")
	return nonEmpty(r.disks.URL(r.publicDisk, p))
}

func (r *Resolver) conversionURL(a *models.MediaModel, size Size, f Format, fallback *string) *string {
	name := ConversionName(size, f)
	if !a.GeneratedConversions.Has(name) {
		return fallback
	}
	if u := r.assetURL(a, a.ConversionPath(name, string(f))); u != nil {
		return u
	}
	return fallback
}

func (r *Resolver) assetURL(a *models.MediaModel, p string) *string {
	return nonEmpty(r.disks.URL(a.Disk, p))
}

func same(u *string) models.ImageSet {
	if u == nil {
		return models.ImageSet{}
	}
	return models.ImageSet{Webp: u, Jpg: u, Original: u, Thumb: u}
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
