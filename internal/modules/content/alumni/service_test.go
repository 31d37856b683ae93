package alumni

import (
	"testing"

	"github.com/sekolah-web/core/internal/modules/content/contenttest"
	"github.com/sekolah-web/core/internal/pkg/pagination"
	"github.com/sekolah-web/core/internal/testutil"
)

func TestAlumniListingAndYears(t *testing.T) {
	env := contenttest.New(t)
	svc := NewService(env.Deps)
	ctx := testutil.Ctx(t)

	seed := []CreateAlumniDTO{
		{Name: "Rina Kartika", GraduationYear: 2018, Category: "university", Institution: "Universitas Indonesia",
			Testimonial: "Sekolah ini membentuk karakter saya.", IsFeatured: true,
			SocialMedia: map[string]interface{}{"instagram": "@rinak"}},
		{Name: "Andi Pratama", GraduationYear: 2020, Category: "entrepreneur", Occupation: "Pemilik Kedai Kopi"},
		{Name: "Yusuf Hakim", GraduationYear: 2020, Category: "public", IsFeatured: true},
	}
	for i := range seed {
		if _, err := svc.Create(ctx, &seed[i]); err != nil {
			t.Fatalf("create %s: %v", seed[i].Name, err)
		}
	}

	rows, meta, err := svc.ListActive(ctx, ListQuery{}, pagination.Query{Page: 1, Size: 10})
	if err != nil || meta.Total != 3 {
		t.Fatalf("list = %d, %v", meta.Total, err)
	}
	if rows[0].Name != "Andi Pratama" || rows[2].Name != "Rina Kartika" {
		t.Fatalf("order = %s, %s, %s", rows[0].Name, rows[1].Name, rows[2].Name)
	}
	if rows[2].SocialMedia["instagram"] != "@rinak" {
		t.Fatalf("social media = %v", rows[2].SocialMedia)
	}

	_, meta, _ = svc.ListActive(ctx, ListQuery{Year: 2020, Search: "kopi"}, pagination.Query{Page: 1, Size: 10})
	if meta.Total != 1 {
		t.Fatalf("filtered = %d", meta.Total)
	}

	quotes, err := svc.Testimonials(ctx, 5)
	if err != nil || len(quotes) != 1 || quotes[0].Name != "Rina Kartika" {
		t.Fatalf("testimonials = %d, %v", len(quotes), err)
	}

	years, err := svc.GraduationYears(ctx)
	if err != nil || len(years) != 2 || years[0] != 2020 || years[1] != 2018 {
		t.Fatalf("years = %v, %v", years, err)
	}
}
