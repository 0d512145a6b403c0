package controllers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/modamedidas-api/models"
	"github.com/kendall-kelly/modamedidas-api/testutil"
	"gorm.io/gorm"
)

// setupControllerTest prepares an in-memory database, the test configuration
// and a designer acting as the request principal
func setupControllerTest(t *testing.T) (*gorm.DB, *models.User) {
	t.Helper()

	db := testutil.NewTestDB(t)
	testutil.NewTestConfig()
	designer := testutil.CreateDesigner(t, db, "designer@example.com")
	return db, designer
}

// authedRouter returns a router whose requests run as designer
func authedRouter(designer *models.User) (*gin.Engine, *gin.RouterGroup) {
	router := testutil.NewTestRouter()
	group := router.Group("/api/v1", testutil.MockAuthMiddleware(designer))
	return router, group
}

// performRequest sends a JSON request and decodes the JSON response
func performRequest(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var response map[string]interface{}
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &response)
	}
	return w, response
}

func dataOf(response map[string]interface{}) map[string]interface{} {
	data, _ := response["data"].(map[string]interface{})
	return data
}

func listOf(response map[string]interface{}) []interface{} {
	list, _ := response["data"].([]interface{})
	return list
}

func errorCode(response map[string]interface{}) string {
	e, _ := response["error"].(map[string]interface{})
	code, _ := e["code"].(string)
	return code
}
