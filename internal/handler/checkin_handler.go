package handler

import (
	"net/http"

	"event-checkin/internal/middleware"
	"event-checkin/internal/service"

	"github.com/gin-gonic/gin"
)

type CheckinHandler struct {
	service service.CheckinService
}

func NewCheckinHandler(service service.CheckinService) *CheckinHandler {
	return &CheckinHandler{service: service}
}

func (h *CheckinHandler) RegisterRoutes(r gin.IRouter, auth *middleware.Authenticator) {
	router := r.Group("/api/checkin", auth.CheckInStaff())
	{
		router.POST(":eventId/person/:personId", h.CheckIn)
		router.PUT(":eventId/person/:personId/toggle", h.Toggle)
		router.GET("status/:eventId", h.Status)
	}
}

func (h *CheckinHandler) CheckIn(c *gin.Context) {
	eventID, ok := ParamUUID(c, "eventId", "event")
	if !ok {
		return
	}
	personID, ok := ParamUUID(c, "personId", "person")
	if !ok {
		return
	}
	if _, err := h.service.CheckIn(c, eventID, personID); err != nil {
		handleError(c, err, "CheckIn")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Check-in successful"})
}

func (h *CheckinHandler) Toggle(c *gin.Context) {
	eventID, ok := ParamUUID(c, "eventId", "event")
	if !ok {
		return
	}
	personID, ok := ParamUUID(c, "personId", "person")
	if !ok {
		return
	}
	person, err := h.service.Toggle(c, eventID, personID)
	if err != nil {
		handleError(c, err, "Toggle")
		return
	}

	state := "checked out"
	if person.CheckedIn {
		state = "checked in"
	}
	c.JSON(http.StatusOK, gin.H{
		"message":   "Person " + state + " successfully",
		"checkedIn": person.CheckedIn,
	})
}

func (h *CheckinHandler) Status(c *gin.Context) {
	eventID, ok := ParamUUID(c, "eventId", "event")
	if !ok {
		return
	}
	status, err := h.service.Status(c, eventID)
	if err != nil {
		handleError(c, err, "Status")
		return
	}
	c.JSON(http.StatusOK, status)
}
