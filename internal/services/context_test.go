package services_test

import (
	"context"
	"testing"

	"framescan/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithVideo(ctx, "race.mp4")
	ctx = services.WithRunID(ctx, "run-1")
	ctx = services.WithRequestID(ctx, "req-123")

	if video, ok := services.VideoFromContext(ctx); !ok || video != "race.mp4" {
		t.Fatalf("unexpected video: %v %v", video, ok)
	}
	if id, ok := services.RunIDFromContext(ctx); !ok || id != "run-1" {
		t.Fatalf("unexpected run id: %v %v", id, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
}

func TestVideoBlankPreservesContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithVideo(ctx, "")
	if _, ok := services.VideoFromContext(ctx); ok {
		t.Fatal("expected no video value")
	}
}
