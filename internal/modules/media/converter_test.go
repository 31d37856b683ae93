package media

import (
	"bytes"
	"image"
	"testing"

	"github.com/chai2010/webp"

	"github.com/sekolah-web/core/internal/testutil"
)

func TestConvertBoxes(t *testing.T) {
	c := NewConverter(map[string]int{"small": 100, "bogus": 5}, 0)
	variants, err := c.Convert(testutil.PNG(t, 400, 200))
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if len(variants) != len(Sizes)*len(Formats) {
		t.Fatalf("got %d variants", len(variants))
	}

	bounds := map[string]image.Point{}
	for _, v := range variants {
		var cfg image.Config
		if v.Format == FormatWebp {
			cfg, err = webp.DecodeConfig(bytes.NewReader(v.Data))
		} else {
			cfg, _, err = image.DecodeConfig(bytes.NewReader(v.Data))
		}
		if err != nil {
			t.Fatalf("decode %s: %v", v.Name, err)
		}
		bounds[v.Name] = image.Pt(cfg.Width, cfg.Height)
	}

	want := map[string]image.Point{
		"thumb-jpg":  image.Pt(200, 200),
		"small-webp": image.Pt(100, 50),
		"medium-jpg": image.Pt(400, 200),
		"large-webp": image.Pt(400, 200),
	}
	for name, p := range want {
		if bounds[name] != p {
			t.Errorf("%s = %v, want %v", name, bounds[name], p)
		}
	}
}

func TestConvertRejectsGarbage(t *testing.T) {
	if _, err := NewConverter(nil, 80).Convert([]byte("not an image")); err == nil {
		t.Fatalf("expected decode error")
	}
}
