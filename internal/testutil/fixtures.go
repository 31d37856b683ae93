package testutil

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/sekolah-web/core/internal/models"
	"github.com/sekolah-web/core/internal/pkg/slug"
)

// PNG encodes a solid w×h image.
func PNG(tb testing.TB, w, h int) []byte {
	tb.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: 120, B: uint8(y % 256), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		tb.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func create(tb testing.TB, db *gorm.DB, v interface{}) {
	tb.Helper()
	if err := db.Create(v).Error; err != nil {
		tb.Fatalf("seed %T: %v", v, err)
	}
}

func SeedStaff(tb testing.TB, db *gorm.DB, name string) *models.StaffModel {
	tb.Helper()
	s := &models.StaffModel{
		Name:      name,
		Position:  "Guru Mata Pelajaran",
		Category:  "teacher",
		SlugField: models.SlugField{Slug: slug.Make(name)},
		Listing:   models.Listing{IsActive: true},
	}
	create(tb, db, s)
	return s
}

func SeedExtra(tb testing.TB, db *gorm.DB, name string, capacity *int, members int) *models.ExtraModel {
	tb.Helper()
	e := &models.ExtraModel{
		Name:        name,
		Category:    "sports",
		Capacity:    capacity,
		MemberCount: members,
		SlugField:   models.SlugField{Slug: slug.Make(name)},
		Listing:     models.Listing{IsActive: true},
	}
	create(tb, db, e)
	return e
}

func SeedSchedule(tb testing.TB, db *gorm.DB, class string, day int, start, end string) *models.ScheduleModel {
	tb.Helper()
	s := &models.ScheduleModel{
		ClassName:    class,
		Subject:      "Matematika",
		DayOfWeek:    day,
		StartTime:    start,
		EndTime:      end,
		AcademicYear: "2024/2025",
		Semester:     1,
		IsActive:     true,
	}
	create(tb, db, s)
	return s
}

func SeedSetting(tb testing.TB, db *gorm.DB, key string, typ models.SettingType, value, group string, public bool) *models.SettingModel {
	tb.Helper()
	s := &models.SettingModel{Key: key, Type: typ, Value: value, Group: group, IsPublic: public}
	create(tb, db, s)
	return s
}

func SeedPost(tb testing.TB, db *gorm.DB, title string, status models.PublishStatus, publishedAt *time.Time) *models.PostModel {
	tb.Helper()
	p := &models.PostModel{
		Title:       title,
		SlugField:   models.SlugField{Slug: slug.Make(title)},
		Publication: models.Publication{Status: status, PublishedAt: publishedAt},
		Body:        models.Body{Content: "<p>" + title + "</p>", ContentFormat: "html"},
	}
	create(tb, db, p)
	return p
}
