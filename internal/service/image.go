package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"imageconv/internal/converter"
	"imageconv/internal/intake"
	"imageconv/internal/repository"
)

var (
	// ErrEmptyPayload means the upload carried no binary content.
	ErrEmptyPayload = errors.New("empty image payload")
	// ErrNotFound covers both an unknown record id and a record whose backing
	// file is missing — the caller cannot tell the difference and should not.
	ErrNotFound = errors.New("image not found")
	// ErrTransformFailed means the conversion failed and the placeholder
	// record was successfully compensated away.
	ErrTransformFailed = errors.New("image transform failed")
	// ErrCompensateFailed means the conversion failed AND the compensating
	// delete failed too: an orphan record is now in the database. This is the
	// more severe condition and is reported as such.
	ErrCompensateFailed = errors.New("placeholder compensation failed")
)

// Transformer is the conversion engine as the orchestrator sees it: bytes in,
// file on disk out, plus the by-convention location of that file.
type Transformer interface {
	Process(ctx context.Context, raw []byte, id string, opts *converter.ResizeOptions) error
	FilePath(id string) string
}

// ImageService defines the use cases for handling images.
type ImageService interface {
	// Upload runs the whole intake sequence: validate the payload, create a
	// placeholder record, run the transform, and compensate the record away if
	// the transform fails. Returns the generated id on success.
	Upload(ctx context.Context, payload []byte, params intake.Params) (string, error)

	// Fetch resolves an id to the on-disk path of its converted file.
	Fetch(ctx context.Context, id string) (string, error)
}

type imageService struct {
	conv Transformer
	repo repository.ImageRepository
	logw io.Writer
}

// NewImageService constructs a new ImageService. Orchestration events that no
// middleware can see (compensation outcomes) are logged to logw as JSON lines.
func NewImageService(conv Transformer, repo repository.ImageRepository, logw io.Writer) ImageService {
	if logw == nil {
		logw = os.Stdout
	}
	return &imageService{conv: conv, repo: repo, logw: logw}
}

func (s *imageService) Upload(ctx context.Context, payload []byte, params intake.Params) (string, error) {
	if len(payload) == 0 {
		return "", ErrEmptyPayload
	}

	// A partial parameter set is treated identically to none: convert-only.
	var opts *converter.ResizeOptions
	if quality, x, y, ok := params.Resize(); ok {
		opts = &converter.ResizeOptions{Quality: quality, Width: x, Height: y}
	}

	// Placeholder first: the row exists before the file does. Between here and
	// transform completion "record exists, file missing" is a legal transient
	// state.
	rec, err := s.repo.Create(ctx)
	if err != nil {
		return "", fmt.Errorf("create placeholder: %w", err)
	}

	if err := s.conv.Process(ctx, payload, rec.ID, opts); err != nil {
		if delErr := s.repo.Delete(ctx, rec.ID); delErr != nil {
			// The record can no longer be removed: an orphan row is left
			// behind, which is worse than the failed transform itself.
			s.log("error", "compensating delete failed, orphan image record left", rec.ID, delErr)
			return "", fmt.Errorf("%w: image %s: %v", ErrCompensateFailed, rec.ID, delErr)
		}
		s.log("info", "placeholder record compensated after failed transform", rec.ID, err)
		return "", fmt.Errorf("%w: %v", ErrTransformFailed, err)
	}

	return rec.ID, nil
}

func (s *imageService) Fetch(ctx context.Context, id string) (string, error) {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}

	path := s.conv.FilePath(rec.ID)
	if _, err := os.Stat(path); err != nil {
		// Orphan record or still-converting upload; either way there is
		// nothing to stream yet.
		s.log("warn", "image record has no backing file", rec.ID, nil)
		return "", ErrNotFound
	}
	return path, nil
}

func (s *imageService) log(level, msg, imageID string, err error) {
	entry := map[string]any{
		"ts":       time.Now().UTC().Format(time.RFC3339Nano),
		"level":    level,
		"msg":      msg,
		"image_id": imageID,
	}
	if err != nil {
		entry["error"] = err.Error()
	}
	_ = json.NewEncoder(s.logw).Encode(entry)
}
