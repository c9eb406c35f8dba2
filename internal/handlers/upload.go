package handlers

import (
	"mime/multipart"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/gravadigital/convite-api/internal/response"
	"github.com/gravadigital/convite-api/internal/services"
)

// imageUpload opens the "file" part of an image form. The caller closes
// the returned file.
func imageUpload(c *gin.Context, l *log.Logger) (services.Upload, multipart.File, bool) {
	header, err := c.FormFile("file")
	if err != nil {
		l.Warn("upload without file", "error", err)
		response.BadRequestError(c, "An image must be sent in the file field")
		return services.Upload{}, nil, false
	}

	file, err := header.Open()
	if err != nil {
		l.Error("failed to open upload", "error", err)
		response.InternalServerError(c, "Failed to read upload")
		return services.Upload{}, nil, false
	}

	return services.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}, file, true
}
