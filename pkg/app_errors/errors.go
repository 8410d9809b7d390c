package apperrors

import "errors"

var (
	ErrEventNotFound    = errors.New("event not found")
	ErrPersonNotFound   = errors.New("person not found in this event")
	ErrInvalidInput     = errors.New("invalid input")
	ErrMissingFile      = errors.New("no file uploaded")
	ErrInvalidFileType  = errors.New("only CSV files are supported")
	ErrCSVParse         = errors.New("error processing CSV file")
	ErrUploadInProgress = errors.New("an upload for this event is already in progress")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
)
