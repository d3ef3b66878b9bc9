package usecase

import (
	"context"
	"testing"
)

func TestUsecaseSpanName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "QueryService.Load", want: "aflstats.QueryService.Load"},
		{in: "aflstats.MergeService.Merge", want: "aflstats.MergeService.Merge"},
	}
	for _, tt := range tests {
		if got := usecaseSpanName(tt.in); got != tt.want {
			t.Fatalf("usecaseSpanName(%q)=%q want=%q", tt.in, got, tt.want)
		}
	}
}

func TestStartUsecaseSpan_WithoutParentIsNotRecorded(t *testing.T) {
	ctx := context.Background()
	got, span := startUsecaseSpan(ctx, "QueryService.Load", datasetAttrs("ds", 3)...)
	defer span.End()

	if span.IsRecording() {
		t.Fatalf("expected a non-recording span without a parent")
	}
	if got != ctx {
		t.Fatalf("expected the context to be returned unchanged")
	}
}
