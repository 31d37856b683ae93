package media

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/sekolah-web/core/internal/models"
	"github.com/sekolah-web/core/internal/pkg/apperr"
	"github.com/sekolah-web/core/internal/pkg/storage"
	"github.com/sekolah-web/core/internal/testutil"
)

type fixture struct {
	svc   *Service
	root  string
	db    *gorm.DB
	disks *storage.Manager
	local *storage.Local
}

func newFixture(t *testing.T) (fixture, *models.StaffModel) {
	t.Helper()
	db := testutil.DB(t)
	disks, local := testutil.Storage(t)
	svc := NewService(db, disks, "public", NewResolver(disks, "public"), NewConverter(nil, 80), testutil.Logger(t))
	f := fixture{svc: svc, root: local.Root(), db: db, disks: disks, local: local}
	return f, testutil.SeedStaff(t, db, "Siti Rahmawati")
}

func (f fixture) exists(p string) bool {
	_, err := os.Stat(filepath.Join(f.root, filepath.FromSlash(p)))
	return err == nil
}

// files lists every file under the disk root, slash separated and sorted.
func (f fixture) files(t *testing.T) []string {
	t.Helper()
	var out []string
	err := filepath.WalkDir(f.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(f.root, p)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		t.Fatalf("walk disk: %v", err)
	}
	sort.Strings(out)
	return out
}

// refusingDisk fails every write.
type refusingDisk struct {
	storage.Disk
}

func (refusingDisk) Put(context.Context, string, []byte, string) error {
	return errors.New("disk full")
}

func TestAttachStaffPhotoResolvesMediumWebp(t *testing.T) {
	ctx := context.Background()
	f, staff := newFixture(t)

	m, err := f.svc.Attach(ctx, staff, models.CollectionPhoto, Upload{FileName: "Foto Siti.PNG", Data: testutil.PNG(t, 400, 300)})
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	if m.FileName != "foto-siti.png" || m.MimeType != "image/png" {
		t.Fatalf("asset = %s (%s)", m.FileName, m.MimeType)
	}
	for _, s := range Sizes {
		for _, fm := range Formats {
			name := ConversionName(s, fm)
			if !m.GeneratedConversions.Has(name) {
				t.Fatalf("conversion %s not generated", name)
			}
			if !f.exists(m.ConversionPath(name, string(fm))) {
				t.Fatalf("conversion %s missing on disk", name)
			}
		}
	}

	staff.Photo = "staff/lama.jpg"
	if err := f.svc.Decorate(ctx, SizeMedium, staff); err != nil {
		t.Fatalf("decorate: %v", err)
	}
	want := url(m.UUID + "/conversions/foto-siti-medium-webp.webp")
	if deref(staff.Image.Webp) != want {
		t.Fatalf("medium webp = %s, want %s", deref(staff.Image.Webp), want)
	}

	if _, err := f.svc.ClearConversions(ctx, m.ID); err != nil {
		t.Fatalf("clear conversions: %v", err)
	}
	if f.exists(m.ConversionPath("medium-webp", "webp")) {
		t.Fatalf("conversion file left after clear")
	}
	if err := f.svc.Decorate(ctx, SizeMedium, staff); err != nil {
		t.Fatalf("decorate: %v", err)
	}
	legacy := url("staff/lama.jpg")
	for label, got := range map[string]*string{
		"webp": staff.Image.Webp, "jpg": staff.Image.Jpg,
		"original": staff.Image.Original, "thumb": staff.Image.Thumb,
	} {
		if deref(got) != legacy {
			t.Fatalf("%s = %s, want legacy %s", label, deref(got), legacy)
		}
	}

	again, err := f.svc.Regenerate(ctx, m.ID)
	if err != nil {
		t.Fatalf("regenerate: %v", err)
	}
	if !again.GeneratedConversions.Has("thumb-jpg") || !f.exists(again.ConversionPath("thumb-jpg", "jpg")) {
		t.Fatalf("regenerate did not rebuild thumb-jpg")
	}
}

func TestAttachReplacesSingleFileCollection(t *testing.T) {
	ctx := context.Background()
	f, staff := newFixture(t)

	first, err := f.svc.Attach(ctx, staff, models.CollectionPhoto, Upload{FileName: "a.png", Data: testutil.PNG(t, 50, 50)})
	if err != nil {
		t.Fatalf("attach first: %v", err)
	}
	second, err := f.svc.Attach(ctx, staff, models.CollectionPhoto, Upload{FileName: "b.png", Data: testutil.PNG(t, 60, 60)})
	if err != nil {
		t.Fatalf("attach second: %v", err)
	}

	assets, err := f.svc.ForOwner(ctx, staff, models.CollectionPhoto)
	if err != nil {
		t.Fatalf("for owner: %v", err)
	}
	if len(assets) != 1 || assets[0].ID != second.ID {
		t.Fatalf("assets after replace = %+v", assets)
	}
	if f.exists(first.OriginalPath()) || f.exists(first.ConversionPath("thumb-jpg", "jpg")) {
		t.Fatalf("replaced asset files still on disk")
	}
	if !f.exists(second.OriginalPath()) {
		t.Fatalf("new asset file missing")
	}
	if _, err := f.svc.Get(ctx, first.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("replaced row still present: %v", err)
	}
}

func TestFailedReplaceKeepsCurrentPhoto(t *testing.T) {
	failMediaInsert := func(t *testing.T, f fixture, before func()) {
		t.Helper()
		err := f.db.Callback().Create().Before("gorm:create").Register("media:fail_insert", func(tx *gorm.DB) {
			if tx.Statement.Schema != nil && tx.Statement.Schema.Table == "media" {
				before()
				_ = tx.AddError(errors.New("database is locked"))
			}
		})
		if err != nil {
			t.Fatalf("register callback: %v", err)
		}
	}

	tests := []struct {
		name    string
		arrange func(t *testing.T, f fixture, cancel context.CancelFunc)
	}{
		{
			name: "original write fails",
			arrange: func(t *testing.T, f fixture, _ context.CancelFunc) {
				f.disks.Register("public", refusingDisk{Disk: f.local})
			},
		},
		{
			name: "insert fails after files are written",
			arrange: func(t *testing.T, f fixture, _ context.CancelFunc) {
				failMediaInsert(t, f, func() {})
			},
		},
		{
			name: "request cancelled during insert",
			arrange: func(t *testing.T, f fixture, cancel context.CancelFunc) {
				failMediaInsert(t, f, cancel)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			f, staff := newFixture(t)

			current, err := f.svc.Attach(ctx, staff, models.CollectionPhoto, Upload{FileName: "lama.png", Data: testutil.PNG(t, 80, 60)})
			if err != nil {
				t.Fatalf("attach current: %v", err)
			}
			if !current.GeneratedConversions.Any() {
				t.Fatalf("current photo has no conversions")
			}
			before := f.files(t)

			tt.arrange(t, f, cancel)
			if _, err := f.svc.Attach(ctx, staff, models.CollectionPhoto, Upload{FileName: "baru.png", Data: testutil.PNG(t, 90, 90)}); err == nil {
				t.Fatalf("replacement attach succeeded")
			}

			bg := context.Background()
			assets, err := f.svc.ForOwner(bg, staff, models.CollectionPhoto)
			if err != nil {
				t.Fatalf("for owner: %v", err)
			}
			if len(assets) != 1 || assets[0].ID != current.ID {
				t.Fatalf("assets after failed replace = %+v", assets)
			}
			if !f.exists(current.OriginalPath()) {
				t.Fatalf("current original removed")
			}
			for name := range current.GeneratedConversions {
				if !f.exists(current.ConversionPath(name, conversionExt(name))) {
					t.Fatalf("current conversion %s removed", name)
				}
			}
			if after := f.files(t); strings.Join(after, "\n") != strings.Join(before, "\n") {
				t.Fatalf("files after failed replace:\n%s\nwant:\n%s", strings.Join(after, "\n"), strings.Join(before, "\n"))
			}
		})
	}
}

func TestAttachMultiFileCollectionOrders(t *testing.T) {
	ctx := context.Background()
	f, staff := newFixture(t)

	for i, want := range []int{1, 2, 3} {
		m, err := f.svc.Attach(ctx, staff, models.CollectionGalleryImages, Upload{FileName: "x.txt", Data: []byte("catatan")})
		if err != nil {
			t.Fatalf("attach #%d: %v", i, err)
		}
		if m.OrderColumn != want {
			t.Fatalf("attach #%d order = %d, want %d", i, m.OrderColumn, want)
		}
		if m.GeneratedConversions.Any() {
			t.Fatalf("non-image got conversions")
		}
	}

	if err := f.svc.DeleteForOwner(ctx, staff); err != nil {
		t.Fatalf("delete for owner: %v", err)
	}
	left, err := f.svc.ForOwner(ctx, staff, "")
	if err != nil || len(left) != 0 {
		t.Fatalf("assets left = %d, %v", len(left), err)
	}
}

func TestAttachRejectsEmptyUpload(t *testing.T) {
	f, staff := newFixture(t)
	_, err := f.svc.Attach(context.Background(), staff, models.CollectionPhoto, Upload{FileName: "a.png"})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("empty upload err = %v", err)
	}
}

func TestUndecodableImageKeepsOriginal(t *testing.T) {
	ctx := context.Background()
	f, staff := newFixture(t)

	m, err := f.svc.Attach(ctx, staff, models.CollectionPhoto, Upload{FileName: "rusak.jpg", Data: []byte("bukan gambar")})
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	if m.GeneratedConversions.Any() {
		t.Fatalf("conversions generated for broken image")
	}
	if err := f.svc.Decorate(ctx, SizeLarge, staff); err != nil {
		t.Fatalf("decorate: %v", err)
	}
	if deref(staff.Image.Webp) != url(m.UUID+"/rusak.jpg") {
		t.Fatalf("webp = %s", deref(staff.Image.Webp))
	}
}
