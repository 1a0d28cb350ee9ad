package db

import (
	"context"
	"testing"
)

func TestQuerierFromContext_Empty(t *testing.T) {
	if q := QuerierFromContext(context.Background()); q != nil {
		t.Errorf("expected nil querier, got %v", q)
	}
}

func TestQuerierFromContext_WrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), querierKey{}, "not a querier")
	if q := QuerierFromContext(ctx); q != nil {
		t.Errorf("expected nil for wrong type, got %v", q)
	}
}
