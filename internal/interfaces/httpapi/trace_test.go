package httpapi

import (
	"context"
	"net/http/httptest"
	"testing"
)

func TestIsHandlerSpan(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{name: "handler span", in: "aflstats.http.Aggregate", want: true},
		{name: "bare prefix", in: "aflstats.http.", want: false},
		{name: "usecase span", in: "aflstats.QueryService.Load", want: false},
		{name: "middleware span", in: "httpapi.RequestLogging", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isHandlerSpan(tt.in); got != tt.want {
				t.Fatalf("isHandlerSpan(%q)=%v want=%v", tt.in, got, tt.want)
			}
		})
	}
}

func TestStartHandlerSpan_WithoutParentIsNotRecorded(t *testing.T) {
	req := httptest.NewRequest("GET", "/v1/aggregate", nil)

	ctx, span := startHandlerSpan(req, "Aggregate")
	defer span.End()

	if span.IsRecording() {
		t.Fatalf("expected a non-recording span without a request span")
	}
	if ctx != req.Context() {
		t.Fatalf("expected the request context to be returned unchanged")
	}
	if _, span := startSpan(context.Background(), ""); span.SpanContext().IsValid() {
		t.Fatalf("expected an invalid span context for an empty name")
	}
}
