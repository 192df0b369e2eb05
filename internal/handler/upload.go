package handler

import (
	"io"

	"github.com/gin-gonic/gin"
)

const maxImageSize = 10 << 20

// readImageFile pulls the optional "image" part out of a multipart form.
// A missing part returns a nil slice and no error; a part over the size
// limit is rejected, never truncated.
func readImageFile(c *gin.Context) ([]byte, error) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return nil, nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	// Read one byte past the limit so an exactly-at-limit image passes and
	// anything larger is detected without buffering the whole part.
	image, err := io.ReadAll(io.LimitReader(file, maxImageSize+1))
	if err != nil {
		return nil, err
	}
	if len(image) > maxImageSize {
		return nil, errImageTooLarge
	}

	return image, nil
}
