package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"event-checkin/internal/middleware"
	"event-checkin/internal/model"
	"event-checkin/internal/service"
	apperrors "event-checkin/pkg/app_errors"

	"github.com/gin-gonic/gin"
)

const uploadField = "file"

type EventHandler struct {
	service        service.EventService
	activity       service.ActivityService
	maxUploadBytes int64
}

func NewEventHandler(service service.EventService, activity service.ActivityService, maxUploadBytes int64) *EventHandler {
	return &EventHandler{service: service, activity: activity, maxUploadBytes: maxUploadBytes}
}

func (h *EventHandler) RegisterRoutes(r gin.IRouter, auth *middleware.Authenticator) {
	router := r.Group("/api/event")
	{
		router.GET("", auth.CheckInStaff(), h.List)
		router.GET(":id", auth.CheckInStaff(), h.Get)
		router.POST("", auth.AdminOnly(), h.Create)
		router.DELETE(":id", auth.AdminOnly(), h.Delete)
		router.POST(":id/upload-csv", auth.AdminOnly(), h.UploadCSV)
		router.GET(":id/checked-in", auth.CheckInStaff(), h.ListCheckedIn)
		router.GET(":id/not-checked-in", auth.CheckInStaff(), h.ListNotCheckedIn)
		router.DELETE(":id/person/:personId", auth.AdminOnly(), h.RemovePerson)
		router.GET(":id/activity", auth.AdminOnly(), h.Activity)
	}
}

type activityQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1"`
}

func (h *EventHandler) List(c *gin.Context) {
	events, err := h.service.List(c)
	if err != nil {
		handleError(c, err, "List")
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *EventHandler) Get(c *gin.Context) {
	eventID, ok := ParamUUID(c, "id", "event")
	if !ok {
		return
	}
	event, err := h.service.Get(c, eventID)
	if err != nil {
		handleError(c, err, "Get")
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) Create(c *gin.Context) {
	var req model.CreateEventRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	created, err := h.service.Create(c, &model.Event{
		Name:        req.Name,
		Date:        req.Date,
		Description: req.Description,
	})
	if err != nil {
		handleError(c, err, "Create")
		return
	}
	c.Header("Location", fmt.Sprintf("/api/event/%s", created.ID))
	c.JSON(http.StatusCreated, created)
}

func (h *EventHandler) Delete(c *gin.Context) {
	eventID, ok := ParamUUID(c, "id", "event")
	if !ok {
		return
	}
	if err := h.service.Delete(c, eventID); err != nil {
		handleError(c, err, "Delete")
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadCSV replaces the event's roster with the attendees in the uploaded file.
func (h *EventHandler) UploadCSV(c *gin.Context) {
	eventID, ok := ParamUUID(c, "id", "event")
	if !ok {
		return
	}
	if err := h.service.EnsureExists(c, eventID); err != nil {
		handleError(c, err, "UploadCSV")
		return
	}

	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}
	file, header, err := c.Request.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
			return
		}
		handleError(c, apperrors.ErrMissingFile, "UploadCSV")
		return
	}
	defer file.Close()

	if header.Size == 0 {
		handleError(c, apperrors.ErrMissingFile, "UploadCSV")
		return
	}
	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		handleError(c, apperrors.ErrInvalidFileType, "UploadCSV")
		return
	}

	count, err := h.service.ReplaceAttendees(c, eventID, file)
	if err != nil {
		handleError(c, err, "UploadCSV")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Successfully replaced attendees with %d people from the CSV", count),
		"count":   count,
	})
}

func (h *EventHandler) ListCheckedIn(c *gin.Context) {
	eventID, ok := ParamUUID(c, "id", "event")
	if !ok {
		return
	}
	people, err := h.service.ListCheckedIn(c, eventID)
	if err != nil {
		handleError(c, err, "ListCheckedIn")
		return
	}
	c.JSON(http.StatusOK, people)
}

func (h *EventHandler) ListNotCheckedIn(c *gin.Context) {
	eventID, ok := ParamUUID(c, "id", "event")
	if !ok {
		return
	}
	people, err := h.service.ListNotCheckedIn(c, eventID)
	if err != nil {
		handleError(c, err, "ListNotCheckedIn")
		return
	}
	c.JSON(http.StatusOK, people)
}

func (h *EventHandler) RemovePerson(c *gin.Context) {
	eventID, ok := ParamUUID(c, "id", "event")
	if !ok {
		return
	}
	personID, ok := ParamUUID(c, "personId", "person")
	if !ok {
		return
	}
	if err := h.service.RemovePerson(c, eventID, personID); err != nil {
		handleError(c, err, "RemovePerson")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Person removed successfully"})
}

func (h *EventHandler) Activity(c *gin.Context) {
	eventID, ok := ParamUUID(c, "id", "event")
	if !ok {
		return
	}
	var q activityQuery
	if err := BindQuery(c, &q); err != nil {
		return
	}
	activities, err := h.activity.List(c, eventID, q.Limit)
	if err != nil {
		handleError(c, err, "Activity")
		return
	}
	c.JSON(http.StatusOK, activities)
}
