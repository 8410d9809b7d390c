package handler_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"event-checkin/internal/model"
	apperrors "event-checkin/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestListEvents(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		router, svc := setupTestRouter(t, 0)
		events := []*model.Event{{ID: uuid.New(), Name: "Gala", People: []*model.Person{{ID: uuid.New(), Name: "Alice", Email: "a@x.com"}}}}
		svc.events.On("List", mock.Anything).Return(events, nil).Once()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, newRequest(t, http.MethodGet, "/api/event", staffToken, nil))

		require.Equal(t, http.StatusOK, w.Code)
		var got []map[string]interface{}
		decode(t, w.Body, &got)
		require.Len(t, got, 1)
		assert.Equal(t, "Gala", got[0]["name"])
		people := got[0]["people"].([]interface{})
		assert.Equal(t, false, people[0].(map[string]interface{})["checkedIn"])
	})

	t.Run("Failed - no token", func(t *testing.T) {
		router, _ := setupTestRouter(t, 0)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, newRequest(t, http.MethodGet, "/api/event", "", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Failed - internal error", func(t *testing.T) {
		router, svc := setupTestRouter(t, 0)
		svc.events.On("List", mock.Anything).Return(nil, errors.New("db down")).Once()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, newRequest(t, http.MethodGet, "/api/event", staffToken, nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "Internal server error")
	})
}

func TestGetEvent(t *testing.T) {
	eventID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		router, svc := setupTestRouter(t, 0)
		svc.events.On("Get", mock.Anything, eventID).Return(&model.Event{ID: eventID, Name: "Gala", People: []*model.Person{}}, nil).Once()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, newRequest(t, http.MethodGet, "/api/event/"+eventID.String(), staffToken, nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"people":[]`)
	})

	t.Run("Failed - ErrEventNotFound", func(t *testing.T) {
		router, svc := setupTestRouter(t, 0)
		svc.events.On("Get", mock.Anything, eventID).Return(nil, apperrors.ErrEventNotFound).Once()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, newRequest(t, http.MethodGet, "/api/event/"+eventID.String(), staffToken, nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Failed - malformed id", func(t *testing.T) {
		router, _ := setupTestRouter(t, 0)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, newRequest(t, http.MethodGet, "/api/event/not-a-uuid", staffToken, nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCreateEvent(t *testing.T) {
	t.Run("Success - 201 with Location", func(t *testing.T) {
		router, svc := setupTestRouter(t, 0)
		newID := uuid.New()
		date := time.Date(2026, 6, 1, 19, 0, 0, 0, time.UTC)
		svc.events.On("Create", mock.Anything, mock.MatchedBy(func(e *model.Event) bool {
			return e.Name == "Launch" && e.Date.Equal(date) && e.Description == "Party"
		})).Return(&model.Event{ID: newID, Name: "Launch", Date: date, Description: "Party", People: []*model.Person{}}, nil).Once()

		body := map[string]interface{}{"id": uuid.New().String(), "name": "Launch", "date": date, "description": "Party"}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, newRequest(t, http.MethodPost, "/api/event", adminToken, body))

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "/api/event/"+newID.String(), w.Header().Get("Location"))
	})

	t.Run("Failed - staff is forbidden", func(t *testing.T) {
		router, _ := setupTestRouter(t, 0)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, newRequest(t, http.MethodPost, "/api/event", staffToken, map[string]string{"name": "X"}))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Failed - missing name", func(t *testing.T) {
		router, _ := setupTestRouter(t, 0)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, newRequest(t, http.MethodPost, "/api/event", adminToken, map[string]string{"description": "x"}))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Failed - name too long", func(t *testing.T) {
		router, _ := setupTestRouter(t, 0)

		body := map[string]string{"name": strings.Repeat("n", model.MaxEventNameLength+1)}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, newRequest(t, http.MethodPost, "/api/event", adminToken, body))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Failed - invalid JSON", func(t *testing.T) {
		router, _ := setupTestRouter(t, 0)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, newRequest(t, http.MethodPost, "/api/event", adminToken, InvalidJSON))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDeleteEvent(t *testing.T) {
	eventID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		router, svc := setupTestRouter(t, 0)
		svc.events.On("Delete", mock.Anything, eventID).Return(nil).Once()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, newRequest(t, http.MethodDelete, "/api/event/"+eventID.String(), adminToken, nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("Failed - ErrEventNotFound", func(t *testing.T) {
		router, svc := setupTestRouter(t, 0)
		svc.events.On("Delete", mock.Anything, eventID).Return(apperrors.ErrEventNotFound).Once()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, newRequest(t, http.MethodDelete, "/api/event/"+eventID.String(), adminToken, nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestUploadCSV(t *testing.T) {
	eventID := uuid.New()
	url := "/api/event/" + eventID.String() + "/upload-csv"
	csv := "Name,Email\nAlice,alice@x.com\nBob,bob@x.com\n"

	t.Run("Success", func(t *testing.T) {
		router, svc := setupTestRouter(t, 0)
		svc.events.On("EnsureExists", mock.Anything, eventID).Return(nil).Once()
		svc.events.On("ReplaceAttendees", mock.Anything, eventID, csv).Return(2, nil).Once()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, newUploadRequest(t, url, "people.CSV", csv))

		require.Equal(t, http.StatusOK, w.Code)
		var got map[string]interface{}
		decode(t, w.Body, &got)
		assert.Equal(t, "Successfully replaced attendees with 2 people from the CSV", got["message"])
		assert.Equal(t, float64(2), got["count"])
	})

	t.Run("Failed - unknown event before file checks", func(t *testing.T) {
		router, svc := setupTestRouter(t, 0)
		svc.events.On("EnsureExists", mock.Anything, eventID).Return(apperrors.ErrEventNotFound).Once()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, newUploadRequest(t, url, "", ""))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Failed - missing file", func(t *testing.T) {
		router, svc := setupTestRouter(t, 0)
		svc.events.On("EnsureExists", mock.Anything, eventID).Return(nil).Once()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, newUploadRequest(t, url, "", ""))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "No file uploaded")
	})

	t.Run("Failed - empty file", func(t *testing.T) {
		router, svc := setupTestRouter(t, 0)
		svc.events.On("EnsureExists", mock.Anything, eventID).Return(nil).Once()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, newUploadRequest(t, url, "people.csv", ""))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Failed - not a csv", func(t *testing.T) {
		router, svc := setupTestRouter(t, 0)
		svc.events.On("EnsureExists", mock.Anything, eventID).Return(nil).Once()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, newUploadRequest(t, url, "people.txt", csv))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Only CSV files are supported")
	})

	t.Run("Failed - ErrUploadInProgress", func(t *testing.T) {
		router, svc := setupTestRouter(t, 0)
		svc.events.On("EnsureExists", mock.Anything, eventID).Return(nil).Once()
		svc.events.On("ReplaceAttendees", mock.Anything, eventID, csv).Return(0, apperrors.ErrUploadInProgress).Once()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, newUploadRequest(t, url, "people.csv", csv))

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Failed - ErrCSVParse", func(t *testing.T) {
		router, svc := setupTestRouter(t, 0)
		svc.events.On("EnsureExists", mock.Anything, eventID).Return(nil).Once()
		svc.events.On("ReplaceAttendees", mock.Anything, eventID, csv).Return(0, apperrors.ErrCSVParse).Once()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, newUploadRequest(t, url, "people.csv", csv))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "Error processing CSV file")
	})

	t.Run("Failed - over-length field is ErrInvalidInput", func(t *testing.T) {
		router, svc := setupTestRouter(t, 0)
		svc.events.On("EnsureExists", mock.Anything, eventID).Return(nil).Once()
		svc.events.On("ReplaceAttendees", mock.Anything, eventID, csv).Return(0, apperrors.ErrInvalidInput).Once()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, newUploadRequest(t, url, "people.csv", csv))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Failed - body too large", func(t *testing.T) {
		router, svc := setupTestRouter(t, 64)
		svc.events.On("EnsureExists", mock.Anything, eventID).Return(nil).Once()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, newUploadRequest(t, url, "people.csv", strings.Repeat("a,b\n", 100)))

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}

func TestListByCheckInStatus(t *testing.T) {
	eventID := uuid.New()

	t.Run("Success - checked in", func(t *testing.T) {
		router, svc := setupTestRouter(t, 0)
		svc.events.On("ListCheckedIn", mock.Anything, eventID).Return([]*model.Person{{ID: uuid.New(), Name: "Bob", CheckedIn: true}}, nil).Once()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, newRequest(t, http.MethodGet, "/api/event/"+eventID.String()+"/checked-in", staffToken, nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Bob")
	})

	t.Run("Failed - not checked in for unknown event", func(t *testing.T) {
		router, svc := setupTestRouter(t, 0)
		svc.events.On("ListNotCheckedIn", mock.Anything, eventID).Return(nil, apperrors.ErrEventNotFound).Once()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, newRequest(t, http.MethodGet, "/api/event/"+eventID.String()+"/not-checked-in", staffToken, nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestRemovePerson(t *testing.T) {
	eventID := uuid.New()
	personID := uuid.New()
	url := "/api/event/" + eventID.String() + "/person/" + personID.String()

	t.Run("Success", func(t *testing.T) {
		router, svc := setupTestRouter(t, 0)
		svc.events.On("RemovePerson", mock.Anything, eventID, personID).Return(nil).Once()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, newRequest(t, http.MethodDelete, url, adminToken, nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Person removed successfully")
	})

	t.Run("Failed - ErrPersonNotFound", func(t *testing.T) {
		router, svc := setupTestRouter(t, 0)
		svc.events.On("RemovePerson", mock.Anything, eventID, personID).Return(apperrors.ErrPersonNotFound).Once()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, newRequest(t, http.MethodDelete, url, adminToken, nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Person not found in this event")
	})

	t.Run("Failed - malformed person id", func(t *testing.T) {
		router, _ := setupTestRouter(t, 0)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, newRequest(t, http.MethodDelete, "/api/event/"+eventID.String()+"/person/42", adminToken, nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestActivity(t *testing.T) {
	eventID := uuid.New()
	url := "/api/event/" + eventID.String() + "/activity"

	t.Run("Success - default limit", func(t *testing.T) {
		router, svc := setupTestRouter(t, 0)
		svc.activity.On("List", mock.Anything, eventID, 0).Return([]*model.CheckinActivity{
			{ID: uuid.New(), EventID: eventID, Action: model.ActivityCheckedIn, PersonName: "Alice"},
		}, nil).Once()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, newRequest(t, http.MethodGet, url, adminToken, nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"action":"checked_in"`)
	})

	t.Run("Success - explicit limit", func(t *testing.T) {
		router, svc := setupTestRouter(t, 0)
		svc.activity.On("List", mock.Anything, eventID, 10).Return([]*model.CheckinActivity{}, nil).Once()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, newRequest(t, http.MethodGet, url+"?limit=10", adminToken, nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Failed - invalid limit", func(t *testing.T) {
		router, _ := setupTestRouter(t, 0)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, newRequest(t, http.MethodGet, url+"?limit=abc", adminToken, nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Failed - staff is forbidden", func(t *testing.T) {
		router, _ := setupTestRouter(t, 0)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, newRequest(t, http.MethodGet, url, staffToken, nil))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
