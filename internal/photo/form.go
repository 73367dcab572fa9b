package photo

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// FromForm opens the optional photo file field of a multipart request.
// The returned close func is always safe to call; a missing field is not an
// error, it just means no photo.
func FromForm(c *gin.Context, field string) (*Blob, func(), error) {
	noop := func() {}

	header, err := c.FormFile(field)
	if err != nil {
		return nil, noop, nil
	}

	f, err := header.Open()
	if err != nil {
		return nil, noop, fmt.Errorf("can't read uploaded photo: %w", err)
	}

	return &Blob{
		ContentType: header.Header.Get("Content-Type"),
		Reader:      f,
	}, func() { _ = f.Close() }, nil
}
