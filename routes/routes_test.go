package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/modamedidas-api/config"
	"github.com/kendall-kelly/modamedidas-api/middleware"
	"github.com/kendall-kelly/modamedidas-api/models"
	"github.com/kendall-kelly/modamedidas-api/services"
	"github.com/kendall-kelly/modamedidas-api/testutil"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type RoutesSuite struct {
	suite.Suite
	db     *gorm.DB
	cfg    *config.Config
	tokens *services.TokenService
}

func TestRoutesSuite(t *testing.T) {
	suite.Run(t, new(RoutesSuite))
}

func (s *RoutesSuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.cfg = testutil.NewTestConfig()
	s.tokens = services.NewTokenService(s.cfg)
}

func (s *RoutesSuite) router(limiters Limiters) *gin.Engine {
	router := testutil.NewTestRouter()
	Setup(router, s.cfg, limiters)
	return router
}

func (s *RoutesSuite) token(user *models.User) string {
	token, err := s.tokens.Generate(user)
	s.Require().NoError(err)
	return token
}

func (s *RoutesSuite) do(router *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var response map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &response)
	return w, response
}

func errorCode(response map[string]interface{}) string {
	e, _ := response["error"].(map[string]interface{})
	code, _ := e["code"].(string)
	return code
}

func (s *RoutesSuite) TestProtectedRoutesRequireToken() {
	router := s.router(Limiters{})

	for _, path := range []string{"/api/v1/clients", "/api/v1/auth/me", "/api/v1/orders/kanban", "/api/v1/templates"} {
		w, response := s.do(router, "GET", path, "", nil)
		s.Equal(http.StatusUnauthorized, w.Code, path)
		s.Equal("INVALID_TOKEN", errorCode(response), path)
	}

	w, response := s.do(router, "GET", "/api/v1/clients", "not.a.token", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal("INVALID_TOKEN", errorCode(response))
}

func (s *RoutesSuite) TestValidTokenReachesHandlers() {
	designer := testutil.CreateDesigner(s.T(), s.db, "designer@example.com")
	testutil.CreateClient(s.T(), s.db, designer, "Lucia")
	router := s.router(Limiters{})

	w, response := s.do(router, "GET", "/api/v1/clients", s.token(designer), nil)

	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Len(response["data"], 1)
	s.Equal("nosniff", w.Header().Get("X-Content-Type-Options"))
	s.Equal("DENY", w.Header().Get("X-Frame-Options"))
}

func (s *RoutesSuite) TestDisabledAccountIsRejected() {
	designer := testutil.CreateDesigner(s.T(), s.db, "designer@example.com")
	token := s.token(designer)
	s.Require().NoError(s.db.Model(designer).Update("is_active", false).Error)

	w, response := s.do(s.router(Limiters{}), "GET", "/api/v1/auth/me", token, nil)

	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal("ACCOUNT_DISABLED", errorCode(response))
}

func (s *RoutesSuite) TestInitSystemRequiresAdmin() {
	designer := testutil.CreateDesigner(s.T(), s.db, "designer@example.com")
	admin := testutil.CreateAdmin(s.T(), s.db, "admin@example.com")
	router := s.router(Limiters{})

	w, response := s.do(router, "POST", "/api/v1/templates/init-system", s.token(designer), nil)
	s.Equal(http.StatusForbidden, w.Code)
	s.Equal("FORBIDDEN", errorCode(response))

	w, response = s.do(router, "POST", "/api/v1/templates/init-system", s.token(admin), nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	data := response["data"].(map[string]interface{})
	s.Equal(true, data["seeded"])

	w, response = s.do(router, "GET", "/api/v1/templates", s.token(designer), nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Len(response["data"], len(models.SystemTemplateCatalog()))
}

func (s *RoutesSuite) TestAuthRoutesAreRateLimited() {
	router := s.router(Limiters{
		Global: middleware.NewMemoryLimiter(100, time.Minute),
		Auth:   middleware.NewMemoryLimiter(2, time.Minute),
	})
	credentials := map[string]string{"email": "nobody@example.com", "password": "wrong-password"}

	for i := 0; i < 2; i++ {
		w, response := s.do(router, "POST", "/api/v1/auth/login", "", credentials)
		s.Equal(http.StatusUnauthorized, w.Code)
		s.Equal("INVALID_CREDENTIALS", errorCode(response))
	}

	w, response := s.do(router, "POST", "/api/v1/auth/login", "", credentials)
	s.Equal(http.StatusTooManyRequests, w.Code)
	s.Equal("RATE_LIMITED", errorCode(response))

	w, _ = s.do(router, "GET", "/api/v1/health", "", nil)
	s.Equal(http.StatusOK, w.Code)
}

func (s *RoutesSuite) TestGlobalRateLimit() {
	router := s.router(Limiters{Global: middleware.NewMemoryLimiter(1, time.Minute)})

	w, _ := s.do(router, "GET", "/api/v1/health", "", nil)
	s.Equal(http.StatusOK, w.Code)

	w, response := s.do(router, "GET", "/api/v1/health", "", nil)
	s.Equal(http.StatusTooManyRequests, w.Code)
	s.Equal("RATE_LIMITED", errorCode(response))
}

func (s *RoutesSuite) TestPublicGalleryNeedsNoToken() {
	designer := testutil.CreateDesigner(s.T(), s.db, "designer@example.com")
	s.Require().NoError(s.db.Create(&models.GalleryItem{
		DesignerID: designer.ID,
		ImageURL:   "https://cdn.example.com/look.jpg",
		Category:   "gala",
		IsPublic:   true,
	}).Error)
	router := s.router(Limiters{})

	w, response := s.do(router, "GET", "/api/v1/gallery/public", "", nil)

	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Len(response["data"], 1)

	w, _ = s.do(router, "GET", "/api/v1/gallery", "", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *RoutesSuite) TestNewLimitersInMemory() {
	limiters, err := NewLimiters(s.cfg)

	s.Require().NoError(err)
	s.IsType(&middleware.MemoryLimiter{}, limiters.Global)
	s.IsType(&middleware.MemoryLimiter{}, limiters.Auth)
}
