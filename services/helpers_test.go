package services

import (
	"mime"
	"mime/multipart"
	"testing"

	"github.com/kendall-kelly/modamedidas-api/testutil"
)

func fileHeader(t *testing.T, field, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body, contentType := testutil.MultipartFile(t, field, filename, content)
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		t.Fatalf("Failed to parse content type: %v", err)
	}
	form, err := multipart.NewReader(body, params["boundary"]).ReadForm(1 << 20)
	if err != nil {
		t.Fatalf("Failed to read form: %v", err)
	}
	return form.File[field][0]
}
