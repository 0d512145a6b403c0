package controllers

import (
	"bytes"
	"log"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/modamedidas-api/ficha"
)

// DownloadFicha handles GET /api/v1/clients/:id/measures/:measureId/ficha - renders
// the measurement sheet as a PDF attachment
func DownloadFicha(c *gin.Context) {
	designer, ok := principal(c)
	if !ok {
		return
	}
	client, ok := findClient(c, designer.ID, "id")
	if !ok {
		return
	}
	measure, ok := findMeasure(c, client)
	if !ok {
		return
	}

	sheet := ficha.Build(client, measure, ficha.StudioFromDesigner(designer), now())

	var buf bytes.Buffer
	if err := ficha.Render(&buf, sheet); err != nil {
		log.Printf("Failed to render measurement sheet %s: %v", measure.ID, err)
		respondError(c, http.StatusInternalServerError, "RENDER_ERROR", "Failed to generate measurement sheet")
		return
	}

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": sheet.Filename}))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
