package requestctx

import (
	"context"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	id := uint(42)
	ctx := With(context.Background(), Info{ActorID: &id, ActorName: "Bu Sari", IP: "10.0.0.8"})
	got := FromContext(ctx)
	if got.ActorID == nil || *got.ActorID != 42 || got.ActorName != "Bu Sari" || got.IP != "10.0.0.8" {
		t.Fatalf("unexpected info %+v", got)
	}
}

func TestMissing(t *testing.T) {
	if got := FromContext(context.Background()); got.ActorID != nil || got.ActorName != "" {
		t.Fatalf("expected zero info, got %+v", got)
	}
	if got := FromContext(System(context.Background(), "schoolctl")); got.ActorName != "schoolctl" {
		t.Fatalf("System actor = %q", got.ActorName)
	}
}
