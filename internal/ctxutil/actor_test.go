package ctxutil

import (
	"context"
	"testing"
)

func TestActorRoundTrip(t *testing.T) {
	ctx := WithActorID(context.Background(), "user-1")
	if got := ActorFromContext(ctx); got != "user-1" {
		t.Errorf("ActorFromContext = %q, want user-1", got)
	}
}

func TestActorMissing(t *testing.T) {
	if got := ActorFromContext(context.Background()); got != "" {
		t.Errorf("expected empty actor, got %q", got)
	}
	if got := ActorFromContext(WithActorID(context.Background(), "")); got != "" {
		t.Errorf("empty actor should not be stored, got %q", got)
	}
}

func TestRequestID(t *testing.T) {
	ctx := WithRequestID(WithActorID(context.Background(), "user-1"), "req-42")
	if got := RequestIDFromContext(ctx); got != "req-42" {
		t.Errorf("RequestIDFromContext = %q, want req-42", got)
	}
	if got := ActorFromContext(ctx); got != "user-1" {
		t.Errorf("actor lost next to the request ID, got %q", got)
	}
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Errorf("expected empty request ID, got %q", got)
	}
}
