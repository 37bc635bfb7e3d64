// Package reconcile periodically cross-checks image records against the
// files on disk. The upload path compensates its own failures, so a
// record without a file should only exist for the short window while a
// transform is running; anything older is an orphan worth surfacing.
package reconcile

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"time"

	"imageconv/internal/repository"
)

// Locator maps an image id to the path its file is expected at.
type Locator func(id string) string

// Sweep lists all image records and reports, as JSON log lines, every
// record whose file is missing. It never deletes anything: an id being
// swept may belong to an upload still in flight.
func Sweep(ctx context.Context, repo repository.ImageRepository, locate Locator, logw io.Writer) (orphans int, err error) {
	ids, err := repo.ListIDs(ctx)
	if err != nil {
		return 0, err
	}

	enc := json.NewEncoder(logw)
	for _, id := range ids {
		if _, statErr := os.Stat(locate(id)); statErr != nil {
			orphans++
			_ = enc.Encode(map[string]any{
				"ts":       time.Now().UTC().Format(time.RFC3339),
				"level":    "warn",
				"msg":      "image record has no file on disk",
				"image_id": id,
			})
		}
	}
	return orphans, nil
}

// RunPeriodic runs Sweep immediately and then on every tick until the
// context is cancelled. Sweep errors are logged and do not stop the
// loop.
func RunPeriodic(ctx context.Context, repo repository.ImageRepository, locate Locator, interval time.Duration, logw io.Writer) {
	enc := json.NewEncoder(logw)
	sweep := func() {
		if _, err := Sweep(ctx, repo, locate, logw); err != nil {
			_ = enc.Encode(map[string]any{
				"ts":    time.Now().UTC().Format(time.RFC3339),
				"level": "error",
				"msg":   "reconcile sweep failed",
				"error": err.Error(),
			})
		}
	}

	sweep()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweep()
		}
	}
}
