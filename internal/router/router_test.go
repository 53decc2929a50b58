package router_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"docvet/internal/domain"
	"docvet/internal/handler"
	"docvet/internal/router"
	"docvet/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setup(opts router.Options) (*gin.Engine, *mocks.MockValidationService) {
	svc := new(mocks.MockValidationService)
	repo := new(mocks.MockRunRepo)
	repo.On("Ping", mock.Anything).Return(nil).Maybe()
	r := router.Setup(opts,
		handler.NewValidationHandler(svc, 1<<20),
		handler.NewRunHandler(svc),
		handler.NewHealthHandler(repo),
	)
	return r, svc
}

func TestSetup_PublicEndpoints(t *testing.T) {
	r, _ := setup(router.Options{})

	for _, path := range []string{"/healthz", "/readyz", "/metrics"} {
		t.Run(path, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, path, http.NoBody)
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
}

func TestSetup_ValidateRoute(t *testing.T) {
	r, svc := setup(router.Options{})
	svc.On("ValidateBytes", mock.Anything, "openapi", "request", []byte("openapi: 3.0.0")).
		Return(&domain.ValidationReport{DocumentID: "request", Kind: "openapi", Passed: true}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/validate/openapi", strings.NewReader("openapi: 3.0.0"))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	svc.AssertExpectations(t)
}

func TestSetup_AuthGuardsAPI(t *testing.T) {
	auth := new(mocks.MockAuthService)
	r, svc := setup(router.Options{AuthService: auth})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/kinds", http.NoBody)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	svc.AssertNotCalled(t, "Kinds")

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/healthz", http.NoBody)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
