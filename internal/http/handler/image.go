package handler

import (
	"errors"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"imageconv/internal/intake"
	"imageconv/internal/service"
)

// allowedImageTypes is the upload allow-list. Any other binary part
// content type aborts the request.
var allowedImageTypes = map[string]struct{}{
	"image/gif":  {},
	"image/jpeg": {},
	"image/png":  {},
	"image/tiff": {},
}

// UploadImage handles POST /. The body must be multipart; an optional
// text/plain part carries conversion parameters and the last allowed
// image part carries the payload. On success the response body is the
// new image id.
//
// The body is consumed from the request stream, never via c.Body():
// fasthttp eagerly parses multipart forms and re-marshals the parsed
// body without per-part Content-Type headers, which the allow-list
// needs. Requires StreamRequestBody on the app.
func UploadImage(svc service.ImageService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		mediaType, ctParams, err := mime.ParseMediaType(c.Get(fiber.HeaderContentType))
		if err != nil || !strings.HasPrefix(mediaType, "multipart/") || ctParams["boundary"] == "" {
			return respondStatus(c, fiber.StatusUnsupportedMediaType)
		}

		mr := multipart.NewReader(c.Context().RequestBodyStream(), ctParams["boundary"])
		params, payload, err := intake.Parse(mr, allowedImageTypes)
		if err != nil {
			// Disallowed part types and malformed bodies are the same
			// client fault here.
			return respondStatus(c, fiber.StatusUnsupportedMediaType)
		}

		id, err := svc.Upload(c.UserContext(), payload, params)
		switch {
		case errors.Is(err, service.ErrEmptyPayload):
			return respondStatus(c, fiber.StatusUnsupportedMediaType)
		case errors.Is(err, service.ErrTransformFailed):
			return respondStatus(c, fiber.StatusUnprocessableEntity)
		case err != nil:
			return respondStatus(c, fiber.StatusInternalServerError)
		}

		return c.SendString(id)
	}
}

// GetImage handles GET /:id, streaming the stored file as an
// attachment. A record without a backing file is indistinguishable
// from an unknown id.
func GetImage(svc service.ImageService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path, err := svc.Fetch(c.UserContext(), c.Params("id"))
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return respondStatus(c, fiber.StatusNotFound)
			}
			return respondStatus(c, fiber.StatusInternalServerError)
		}

		return c.Download(path, filepath.Base(path))
	}
}
