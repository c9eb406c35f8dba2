package handlers

import (
	"mime/multipart"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/gravadigital/convite-api/internal/importer"
	"github.com/gravadigital/convite-api/internal/response"
)

// importUpload reads the "file" part and the repeated "map" fields
// (field=header) of an import form
func importUpload(c *gin.Context, l *log.Logger) (*multipart.FileHeader, map[importer.Field]string, bool) {
	header, err := c.FormFile("file")
	if err != nil {
		l.Warn("import without file", "error", err)
		response.BadRequestError(c, "A spreadsheet must be sent in the file field")
		return nil, nil, false
	}

	override, err := importer.ParseOverride(c.PostFormArray("map"))
	if err != nil {
		response.BadRequestError(c, err.Error())
		return nil, nil, false
	}
	return header, override, true
}
