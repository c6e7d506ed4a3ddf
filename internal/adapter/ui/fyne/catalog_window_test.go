package fyne

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tejashwikalptaru/dreamtune/internal/domain"
)

func TestCatalogWindow_ReportLogsFailures(t *testing.T) {
	var buf bytes.Buffer
	w := &CatalogWindow{logger: slog.New(slog.NewTextHandler(&buf, nil))}

	w.report("play track", nil)
	w.report("play track", fmt.Errorf("%w: Sign in to listen", domain.ErrAccessDenied))
	assert.Empty(t, buf.String(), "locks are shown by the view, not logged")

	w.report("play track", fmt.Errorf("album dp1 track 9: %w", domain.ErrTrackNotFound))
	assert.Contains(t, buf.String(), "catalog command failed")
	assert.Contains(t, buf.String(), "op=\"play track\"")

	buf.Reset()
	w.report("queue track", context.Canceled)
	assert.Contains(t, buf.String(), "context canceled")
}
