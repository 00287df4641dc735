package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

// The buffer is read only after Stop, once the spinner goroutine has exited.
func TestSpinnerDrawsAndClears(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(context.Background(), &buf, "Rendering SVG...")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	out := buf.String()
	if !strings.Contains(out, "Rendering SVG...") {
		t.Errorf("output %q should contain the message", out)
	}
	if !strings.HasSuffix(out, "\r") {
		t.Errorf("output should end by clearing the line, got %q", out)
	}
	if s.Cancelled() {
		t.Error("Stop should not count as cancellation")
	}
}

func TestSpinnerSetMessage(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(context.Background(), &buf, "Laying out...")
	s.Start()
	s.SetMessage("Rendering...")
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	if !strings.Contains(buf.String(), "Rendering...") {
		t.Errorf("updated message not drawn: %q", buf.String())
	}
}

func TestSpinnerWithContext(t *testing.T) {
	tests := []struct {
		name string
		ctx  func() (context.Context, context.CancelFunc)
	}{
		{"cancel", func() (context.Context, context.CancelFunc) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			return ctx, cancel
		}},
		{"timeout", func() (context.Context, context.CancelFunc) {
			return context.WithTimeout(context.Background(), 20*time.Millisecond)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := tt.ctx()
			defer cancel()

			var buf bytes.Buffer
			s := newSpinner(ctx, &buf, "Waiting...")
			s.Start()
			time.Sleep(100 * time.Millisecond)
			s.Stop()

			if !s.Cancelled() {
				t.Error("spinner should report cancellation by its context")
			}
		})
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(context.Background(), &buf, "Testing idempotent stop...")
	s.Start()

	s.Stop()
	s.Stop()
	s.StopWithError("Failed!")
}
