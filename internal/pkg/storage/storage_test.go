package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sekolah-web/core/internal/config"
)

func TestLocalPutGetDelete(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	d := NewLocal(root, "http://localhost/storage")

	if err := d.Put(ctx, "abc/photo.jpg", []byte("jpeg"), "image/jpeg"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	b, err := d.Get(ctx, "abc/photo.jpg")
	if err != nil || string(b) != "jpeg" {
		t.Fatalf("Get = %q, %v", b, err)
	}
	if got := d.URL("abc/photo.jpg"); got != "http://localhost/storage/abc/photo.jpg" {
		t.Fatalf("URL = %q", got)
	}

	if err := d.Delete(ctx, "abc/photo.jpg"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := d.Get(ctx, "abc/photo.jpg"); !errors.Is(err, ErrNotExist) {
		t.Fatalf("Get after delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "abc")); !os.IsNotExist(err) {
		t.Fatalf("empty directory left behind: %v", err)
	}
	if err := d.Delete(ctx, "abc/photo.jpg"); err != nil {
		t.Fatalf("deleting a missing file should succeed: %v", err)
	}
}

func TestCleanPath(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "a/b.jpg", want: "a/b.jpg"},
		{in: "/a//b.jpg", want: "a/b.jpg"},
		{in: `a\b.jpg`, want: "a/b.jpg"},
		{in: "../etc/passwd", wantErr: true},
		{in: "a/../../b", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := CleanPath(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("CleanPath(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestURLEscapesSegments(t *testing.T) {
	d := NewLocal(t.TempDir(), "/storage/")
	if got := d.URL("x/foto guru.jpg"); got != "/storage/x/foto%20guru.jpg" {
		t.Fatalf("URL = %q", got)
	}
}

func TestS3URL(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		dc   config.DiskConfig
		want string
	}{
		{
			name: "virtual host",
			dc:   config.DiskConfig{Driver: "s3", Bucket: "media", Region: "ap-southeast-1"},
			want: "https://media.s3.ap-southeast-1.amazonaws.com/a/b.jpg",
		},
		{
			name: "custom endpoint with prefix",
			dc:   config.DiskConfig{Driver: "s3", Bucket: "media", Endpoint: "http://minio:9000/", PathStyle: true, Prefix: "site"},
			want: "http://minio:9000/media/site/a/b.jpg",
		},
		{
			name: "cdn base url",
			dc:   config.DiskConfig{Driver: "s3", Bucket: "media", BaseURL: "https://cdn.sch.id"},
			want: "https://cdn.sch.id/a/b.jpg",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewS3(ctx, tt.dc)
			if err != nil {
				t.Fatalf("NewS3: %v", err)
			}
			if got := d.URL("a/b.jpg"); got != tt.want {
				t.Fatalf("URL = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestManagerFromConfig(t *testing.T) {
	root := t.TempDir()
	m, err := FromConfig(context.Background(), config.StorageConfig{
		DefaultDisk: "public",
		Disks: map[string]config.DiskConfig{
			"public":  {Driver: config.DiskLocal, Root: root, BaseURL: "/storage"},
			"archive": {Driver: config.DiskS3, Bucket: "arsip"},
		},
	})
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	if got := m.Names(); len(got) != 2 || got[0] != "archive" || got[1] != "public" {
		t.Fatalf("Names = %v", got)
	}
	if got := m.URL("public", "a.png"); got != "/storage/a.png" {
		t.Fatalf("URL = %q", got)
	}
	if got := m.URL("missing", "a.png"); got != "" {
		t.Fatalf("unknown disk should give empty URL, got %q", got)
	}
}

func TestDetectContentType(t *testing.T) {
	if got := DetectContentType("a.webp", nil); got != "image/webp" {
		t.Errorf("webp: %q", got)
	}
	png := []byte("\x89PNG\r\n\x1a\n0000")
	if got := DetectContentType("upload", png); got != "image/png" {
		t.Errorf("sniffed png: %q", got)
	}
}
