package handler_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"testing"

	"event-checkin/config"
	"event-checkin/internal/handler"
	"event-checkin/internal/middleware"
	"event-checkin/internal/service/mocks"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const (
	adminToken = "admin-token"
	staffToken = "staff-token"
)

var InvalidJSON = `{"invalid": json}`

type testServices struct {
	events   *mocks.MockEventService
	checkins *mocks.MockCheckinService
	activity *mocks.MockActivityService
}

func setupTestRouter(t *testing.T, maxUpload int64) (*gin.Engine, *testServices) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	svc := &testServices{
		events:   mocks.NewMockEventService(t),
		checkins: mocks.NewMockCheckinService(t),
		activity: mocks.NewMockActivityService(t),
	}
	auth := middleware.NewAuthenticator(config.AuthConfig{Tokens: map[string]string{
		adminToken: config.RoleAdmin,
		staffToken: config.RoleCheckInStaff,
	}})

	handler.NewEventHandler(svc.events, svc.activity, maxUpload).RegisterRoutes(router, auth)
	handler.NewCheckinHandler(svc.checkins).RegisterRoutes(router, auth)
	return router, svc
}

func newRequest(t *testing.T, method, url, token string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

// newUploadRequest builds a multipart request; an empty filename omits the file part.
func newUploadRequest(t *testing.T, url, filename, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	} else {
		require.NoError(t, w.WriteField("note", "no file"))
	}
	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPost, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+adminToken)
	return req
}

func decode(t *testing.T, body *bytes.Buffer, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(body.Bytes(), out))
}
