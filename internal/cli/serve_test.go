package cli

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/unitconv/pkg/observability"
)

func TestLogHTTPHooks(t *testing.T) {
	tests := []struct {
		status  int
		want    string
		wantLog bool
	}{
		{http.StatusOK, "", false},
		{http.StatusNotFound, "request rejected", true},
		{http.StatusInternalServerError, "request failed", true},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			var buf bytes.Buffer
			h := logHTTPHooks{newLogger(&buf, log.DebugLevel)}
			h.OnRequest(context.Background(), "GET", "/v1/convert")
			h.OnResponse(context.Background(), "GET", "/v1/convert", tt.status, time.Millisecond)

			if got := buf.Len() > 0; got != tt.wantLog {
				t.Fatalf("logged = %v, want %v: %q", got, tt.wantLog, buf.String())
			}
			if tt.wantLog && !strings.Contains(buf.String(), tt.want) {
				t.Errorf("log = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestInstallLogHooks(t *testing.T) {
	defer observability.Reset()
	var buf bytes.Buffer
	installLogHooks(newLogger(&buf, log.DebugLevel))

	if _, ok := observability.HTTP().(logHTTPHooks); !ok {
		t.Errorf("HTTP hooks = %T, want logHTTPHooks", observability.HTTP())
	}
	if _, ok := observability.Pipeline().(logPipelineHooks); !ok {
		t.Errorf("pipeline hooks = %T, want logPipelineHooks", observability.Pipeline())
	}
	if _, ok := observability.Cache().(logCacheHooks); !ok {
		t.Errorf("cache hooks = %T, want logCacheHooks", observability.Cache())
	}

	observability.HTTP().OnResponse(context.Background(), "GET", "/missing", http.StatusNotFound, time.Millisecond)
	if !strings.Contains(buf.String(), "/missing") {
		t.Errorf("log = %q", buf.String())
	}
}
