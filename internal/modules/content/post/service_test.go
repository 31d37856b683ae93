package post

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sekolah-web/core/internal/models"
	"github.com/sekolah-web/core/internal/modules/content/contenttest"
	"github.com/sekolah-web/core/internal/pkg/apperr"
	"github.com/sekolah-web/core/internal/pkg/pagination"
	"github.com/sekolah-web/core/internal/pkg/softdelete"
	"github.com/sekolah-web/core/internal/testutil"
)

var firstPage = pagination.Query{Page: 1, Size: 10}

func TestPublishScenario(t *testing.T) {
	env := contenttest.New(t)
	svc := NewService(env.Deps)
	ctx := testutil.Ctx(t)

	body := "<p>Ujian akhir semester ganjil dimulai hari <strong>Senin</strong>. " +
		strings.Repeat("Siswa wajib hadir tepat waktu. ", 10) + "</p>"
	p, err := svc.Create(ctx, &CreatePostDTO{Title: "Ujian Akhir Semester", Content: body})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Slug != "ujian-akhir-semester" {
		t.Fatalf("slug = %q", p.Slug)
	}
	if p.Status != models.StatusDraft || p.AuthorName != "Admin Sekolah" {
		t.Fatalf("status/author = %s/%s", p.Status, p.AuthorName)
	}

	if rows, _, err := svc.ListPublished(ctx, ListQuery{}, firstPage); err != nil || len(rows) != 0 {
		t.Fatalf("draft listed: %d, %v", len(rows), err)
	}
	if _, err := svc.GetPublishedBySlug(ctx, p.Slug); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("draft visible by slug: %v", err)
	}

	if _, err := svc.Publish(ctx, p.ID, nil); err != nil {
		t.Fatalf("publish: %v", err)
	}
	got, err := svc.GetPublishedBySlug(ctx, "ujian-akhir-semester")
	if err != nil {
		t.Fatalf("published post not found: %v", err)
	}
	if !got.PublishedAt.Equal(env.Clock.T) {
		t.Fatalf("published_at = %v, want %v", got.PublishedAt, env.Clock.T)
	}
	if !strings.HasPrefix(got.Summary, "Ujian akhir semester ganjil dimulai hari Senin.") {
		t.Fatalf("excerpt = %q", got.Summary)
	}
	if !strings.HasSuffix(got.Summary, "...") || len([]rune(got.Summary)) != 203 {
		t.Fatalf("excerpt not truncated to 200 runes: %d %q", len([]rune(got.Summary)), got.Summary)
	}

	rows, meta, err := svc.ListPublished(ctx, ListQuery{}, firstPage)
	if err != nil || meta.Total != 1 || rows[0].ID != p.ID {
		t.Fatalf("published listing = %d, %v", meta.Total, err)
	}

	title := "Jadwal Ujian Akhir Semester Ganjil 2024/2025"
	updated, err := svc.Update(ctx, p.ID, &UpdatePostDTO{Title: &title})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Slug != "ujian-akhir-semester" {
		t.Fatalf("slug regenerated on edit: %q", updated.Slug)
	}

	var actions []models.ActivityAction
	env.DB.Model(&models.ActivityLogModel{}).Order("id ASC").Pluck("action", &actions)
	want := []models.ActivityAction{models.ActionCreate, models.ActionPublish, models.ActionUpdate}
	if len(actions) != len(want) {
		t.Fatalf("activity = %v, want %v", actions, want)
	}
	for i := range want {
		if actions[i] != want[i] {
			t.Fatalf("activity = %v, want %v", actions, want)
		}
	}
}

func TestScheduledAndArchivedPostsAreHidden(t *testing.T) {
	env := contenttest.New(t)
	svc := NewService(env.Deps)
	ctx := testutil.Ctx(t)

	future := env.Clock.T.Add(48 * time.Hour)
	p, err := svc.Create(ctx, &CreatePostDTO{
		Title: "Pengumuman Libur", Content: "libur", Status: "published", PublishedAt: &future,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.GetPublishedBySlug(ctx, p.Slug); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("scheduled post visible: %v", err)
	}

	env.Clock.Advance(72 * time.Hour)
	if _, err := svc.GetPublishedBySlug(ctx, p.Slug); err != nil {
		t.Fatalf("post not visible after its time: %v", err)
	}

	if _, err := svc.Archive(ctx, p.ID); err != nil {
		t.Fatalf("archive: %v", err)
	}
	if _, err := svc.GetPublishedBySlug(ctx, p.Slug); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("archived post visible: %v", err)
	}
}

func TestMarkdownExcerptAndTags(t *testing.T) {
	env := contenttest.New(t)
	svc := NewService(env.Deps)
	ctx := testutil.Ctx(t)

	p, err := svc.Create(ctx, &CreatePostDTO{
		Title:         "Juara Olimpiade",
		Content:       "# Selamat\n\nTim **robotik** meraih juara.",
		ContentFormat: "markdown",
		Status:        "published",
		Tags:          []string{"Prestasi", " prestasi ", "Robotik"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Summary != "Selamat Tim robotik meraih juara." {
		t.Fatalf("markdown excerpt = %q", p.Summary)
	}
	if len(p.Tags) != 2 {
		t.Fatalf("tags = %v", p.Tags)
	}

	rows, _, err := svc.ListPublished(ctx, ListQuery{Tag: "Robotik"}, firstPage)
	if err != nil || len(rows) != 1 {
		t.Fatalf("tag filter = %d, %v", len(rows), err)
	}
	rows, _, err = svc.ListPublished(ctx, ListQuery{Tag: "Seni"}, firstPage)
	if err != nil || len(rows) != 0 {
		t.Fatalf("unknown tag matched %d rows, %v", len(rows), err)
	}
}

func TestCreateSanitizesAndValidates(t *testing.T) {
	env := contenttest.New(t)
	svc := NewService(env.Deps)
	ctx := testutil.Ctx(t)

	p, err := svc.Create(ctx, &CreatePostDTO{Title: "Aman", Content: `<p onclick="x()">Halo<script>alert(1)</script></p>`})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if strings.Contains(p.Content, "script") || strings.Contains(p.Content, "onclick") {
		t.Fatalf("content not sanitized: %q", p.Content)
	}

	missing := uint(999)
	_, err = svc.Create(ctx, &CreatePostDTO{Title: "X", Content: "y", CategoryID: &missing})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("unknown category err = %v", err)
	}
	if _, err := svc.Create(ctx, &CreatePostDTO{Content: "tanpa judul"}); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("missing title err = %v", err)
	}
}

func TestViewsAndTrash(t *testing.T) {
	env := contenttest.New(t)
	svc := NewService(env.Deps)
	ctx := testutil.Ctx(t)

	p, err := svc.Create(ctx, &CreatePostDTO{Title: "Kunjungan", Content: "isi", Status: "published"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := svc.IncrementViews(ctx, p.ID); err != nil {
			t.Fatalf("increment: %v", err)
		}
	}
	got, err := svc.Find(ctx, p.ID)
	if err != nil || got.Views != 3 {
		t.Fatalf("views = %d, %v", got.Views, err)
	}

	if err := svc.Delete(ctx, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetPublishedBySlug(ctx, p.Slug); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("trashed post visible: %v", err)
	}
	_, meta, err := svc.ListAll(ctx, softdelete.OnlyTrashed, "", "", firstPage)
	if err != nil || meta.Total != 1 {
		t.Fatalf("trash listing = %d, %v", meta.Total, err)
	}
	if err := svc.Restore(ctx, p.ID); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if _, err := svc.GetPublishedBySlug(ctx, p.Slug); err != nil {
		t.Fatalf("restored post hidden: %v", err)
	}
}

func TestFutureDatedPostLeavesPublishedListing(t *testing.T) {
	env := contenttest.New(t)
	svc := NewService(env.Deps)
	ctx := testutil.Ctx(t)

	p, err := svc.Create(ctx, &CreatePostDTO{Title: "Ujian Akhir Semester", Content: "<p>Jadwal ujian.</p>"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Slug != "ujian-akhir-semester" {
		t.Fatalf("slug = %q", p.Slug)
	}
	if _, err := svc.Publish(ctx, p.ID, testutil.Ptr(env.Clock.T.Add(-time.Hour))); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if rows, _, _ := svc.ListPublished(ctx, ListQuery{}, firstPage); len(rows) != 1 {
		t.Fatalf("published listing = %d, want 1", len(rows))
	}

	tomorrow := env.Clock.T.Add(24 * time.Hour)
	if _, err := svc.Update(ctx, p.ID, &UpdatePostDTO{PublishedAt: &tomorrow}); err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	if rows, _, _ := svc.ListPublished(ctx, ListQuery{}, firstPage); len(rows) != 0 {
		t.Fatalf("future-dated post still listed")
	}
}

func TestPublishedAtInOtherZoneIsListed(t *testing.T) {
	env := contenttest.New(t)
	svc := NewService(env.Deps)
	ctx := testutil.Ctx(t)
	wib := time.FixedZone("WIB", 7*3600)

	hourAgo := env.Clock.T.Add(-time.Hour).In(wib)
	p, err := svc.Create(ctx, &CreatePostDTO{
		Title: "Pembagian Rapor", Content: "<p>Rapor dibagikan.</p>",
		Status: "published", PublishedAt: &hourAgo,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !p.IsPublished(env.Clock.T) {
		t.Fatalf("post is not published at %v", env.Clock.T)
	}
	rows, _, err := svc.ListPublished(ctx, ListQuery{}, firstPage)
	if err != nil || len(rows) != 1 {
		t.Fatalf("published listing = %d, %v", len(rows), err)
	}
	if _, err := svc.GetPublishedBySlug(ctx, p.Slug); err != nil {
		t.Fatalf("by slug: %v", err)
	}

	// Thirty minutes ahead, written as a +07:00 wall clock.
	soon := env.Clock.T.Add(30 * time.Minute).In(wib)
	if _, err := svc.Update(ctx, p.ID, &UpdatePostDTO{PublishedAt: &soon}); err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	if rows, _, _ := svc.ListPublished(ctx, ListQuery{}, firstPage); len(rows) != 0 {
		t.Fatalf("post scheduled in +07:00 is listed early")
	}

	var stored models.PostModel
	if err := env.DB.First(&stored, p.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if _, off := stored.PublishedAt.Zone(); off != 0 {
		t.Fatalf("published_at stored with offset %d", off)
	}
}
