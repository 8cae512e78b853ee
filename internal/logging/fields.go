package logging

import "log/slog"

// Common field names for consistent logging.
const (
	FieldService = "service"
	FieldUserID  = "user_id"
	FieldPostID  = "post_id"
	FieldMethod  = "method"
	FieldPath    = "path"
	FieldStatus  = "status"
	FieldError   = "error"
)

// Service returns a slog attribute for the service name.
func Service(name string) slog.Attr {
	return slog.String(FieldService, name)
}

// UserID returns a slog attribute for the user ID.
func UserID(id string) slog.Attr {
	return slog.String(FieldUserID, id)
}

// Error returns a slog attribute for an error.
func Error(err error) slog.Attr {
	return slog.String(FieldError, err.Error())
}
