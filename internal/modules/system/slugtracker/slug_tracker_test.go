package slugtracker

import (
	"context"
	"testing"

	"github.com/sekolah-web/core/internal/models"
	"github.com/sekolah-web/core/internal/testutil"
)

func TestTrackFindDelete(t *testing.T) {
	ctx := context.Background()
	svc := NewService(testutil.DB(t))

	if _, ok, err := svc.Find(ctx, "lama", models.MorphPost); err != nil || ok {
		t.Fatalf("Find on empty table = %v, %v", ok, err)
	}
	if err := svc.Track(ctx, "lama", models.MorphPost, 7); err != nil {
		t.Fatalf("Track: %v", err)
	}
	if err := svc.Track(ctx, "lama", models.MorphPost, 9); err != nil {
		t.Fatalf("re-Track: %v", err)
	}
	id, ok, err := svc.Find(ctx, "lama", models.MorphPost)
	if err != nil || !ok || id != 9 {
		t.Fatalf("Find = %d, %v, %v; want 9", id, ok, err)
	}
	if _, ok, _ := svc.Find(ctx, "lama", models.MorphStaff); ok {
		t.Fatalf("slug leaked across types")
	}

	if err := svc.DeleteByTarget(ctx, models.MorphPost, 9); err != nil {
		t.Fatalf("DeleteByTarget: %v", err)
	}
	if _, ok, _ := svc.Find(ctx, "lama", models.MorphPost); ok {
		t.Fatalf("slug still tracked after DeleteByTarget")
	}
}
