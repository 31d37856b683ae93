package facility

import (
	"errors"
	"testing"

	"github.com/sekolah-web/core/internal/modules/content/contenttest"
	"github.com/sekolah-web/core/internal/pkg/apperr"
	"github.com/sekolah-web/core/internal/pkg/pagination"
	"github.com/sekolah-web/core/internal/pkg/softdelete"
	"github.com/sekolah-web/core/internal/testutil"
)

func TestFacilityLifecycle(t *testing.T) {
	env := contenttest.New(t)
	svc := NewService(env.Deps)
	ctx := testutil.Ctx(t)

	lab, err := svc.Create(ctx, &CreateFacilityDTO{
		Name: "Laboratorium Komputer", Category: "laboratory",
		Capacity: testutil.Ptr(36), Features: []string{"AC", "Proyektor"}, IsFeatured: true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if lab.CategoryLabel().Text != "Laboratorium" {
		t.Fatalf("label = %q", lab.CategoryLabel().Text)
	}
	if _, err := svc.Create(ctx, &CreateFacilityDTO{Name: "Masjid Sekolah", Category: "worship"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, &CreateFacilityDTO{Name: "Kolam", Category: "pool"}); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("unknown category: %v", err)
	}

	got, err := svc.GetActiveBySlug(ctx, "laboratorium-komputer")
	if err != nil {
		t.Fatalf("by slug: %v", err)
	}
	if len(got.Features) != 2 || got.Features[1] != "Proyektor" || *got.Capacity != 36 {
		t.Fatalf("round trip = %+v", got)
	}

	labs, _ := svc.ListActive(ctx, "laboratory")
	if len(labs) != 1 {
		t.Fatalf("laboratories = %d", len(labs))
	}
	featured, _ := svc.ListFeatured(ctx, 5)
	if len(featured) != 1 || featured[0].ID != lab.ID {
		t.Fatalf("featured = %d", len(featured))
	}

	updated, err := svc.Update(ctx, lab.ID, &UpdateFacilityDTO{ClearCapacity: true, IsActive: testutil.Ptr(false)})
	if err != nil || updated.Capacity != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := svc.GetActiveBySlug(ctx, lab.Slug); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("inactive by slug: %v", err)
	}

	if err := svc.Delete(ctx, lab.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	page := pagination.Query{Page: 1, Size: 10}
	if _, meta, _ := svc.ListAll(ctx, softdelete.OnlyTrashed, "", page); meta.Total != 1 {
		t.Fatalf("trashed = %d", meta.Total)
	}
	if err := svc.Restore(ctx, lab.ID); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if _, meta, _ := svc.ListAll(ctx, softdelete.WithoutTrashed, "komputer", page); meta.Total != 1 {
		t.Fatalf("search after restore = %d", meta.Total)
	}
}
