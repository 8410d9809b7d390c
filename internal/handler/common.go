package handler

import (
	"errors"
	"net/http"

	apperrors "event-checkin/pkg/app_errors"
	"event-checkin/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func BindJson(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return err
	}
	return nil
}

func BindQuery(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindQuery(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return err
	}
	return nil
}

// ParamUUID parses a path parameter, replying 400 when it is not a UUID.
func ParamUUID(c *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + label + " id"})
		return uuid.Nil, false
	}
	return id, true
}

func handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrEventNotFound):
		log.Warn("Event not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
	case errors.Is(err, apperrors.ErrPersonNotFound):
		log.Warn("Person not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Person not found in this event"})
	case errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
	case errors.Is(err, apperrors.ErrMissingFile):
		log.Warn("Missing file")
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
	case errors.Is(err, apperrors.ErrInvalidFileType):
		log.Warn("Invalid file type")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only CSV files are supported"})
	case errors.Is(err, apperrors.ErrUploadInProgress):
		log.Warn("Upload in progress")
		c.JSON(http.StatusConflict, gin.H{"error": "An upload for this event is already in progress"})
	case errors.Is(err, apperrors.ErrCSVParse):
		log.Error("CSV parse failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error processing CSV file"})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
