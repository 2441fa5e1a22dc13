package api

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/http"

	"github.com/gin-gonic/gin"
)

const imageField = "image"

// errImageDecode marks an uploaded file that is not a readable JPEG or PNG.
var errImageDecode = errors.New("image could not be decoded")

// readFrame returns the uploaded frame. provided reports whether a file was
// sent at all, so callers can tell "no image" from "unreadable image".
func readFrame(c *gin.Context) (frame image.Image, provided bool, err error) {
	fh, err := c.FormFile(imageField)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	f, err := fh.Open()
	if err != nil {
		return nil, true, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	frame, format, err := image.Decode(f)
	if err != nil {
		return nil, true, fmt.Errorf("%w: %s: %v", errImageDecode, fh.Filename, err)
	}
	if format != "jpeg" && format != "png" {
		return nil, true, fmt.Errorf("%w: unsupported format %q", errImageDecode, format)
	}
	return frame, true, nil
}
