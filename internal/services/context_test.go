package services_test

import (
	"context"
	"testing"

	"winnow/internal/services"
)

func TestRunIDRoundTrip(t *testing.T) {
	ctx := context.Background()
	if _, ok := services.RunIDFromContext(ctx); ok {
		t.Fatal("expected no run id on fresh context")
	}
	ctx = services.WithRunID(ctx, "run-1")
	if id, ok := services.RunIDFromContext(ctx); !ok || id != "run-1" {
		t.Fatalf("unexpected run id: %q ok=%v", id, ok)
	}
}

func TestEmptyIdentifiersAreNotStored(t *testing.T) {
	ctx := services.WithRequestID(context.Background(), "")
	if _, ok := services.RequestIDFromContext(ctx); ok {
		t.Fatal("expected empty request id to be dropped")
	}
}
