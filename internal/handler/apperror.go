package handler

import "net/http"

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrInvalidRequest   = &AppError{http.StatusBadRequest, "INVALID_REQUEST", "Invalid request"}
	ErrResourceNotFound = &AppError{http.StatusNotFound, "RESOURCE_NOT_FOUND", "Resource not found"}
	ErrInternalError    = &AppError{http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"}

	ErrSyncInProgress         = &AppError{http.StatusConflict, "SYNC_IN_PROGRESS", "A sync run is already in progress"}
	ErrUpstreamUnavailable    = &AppError{http.StatusBadGateway, "UPSTREAM_UNAVAILABLE", "Upstream accounting API is unreachable or rejected the request"}
	ErrUpstreamInvalidPayload = &AppError{http.StatusBadGateway, "UPSTREAM_INVALID_PAYLOAD", "Upstream accounting API returned an unreadable payload"}
	ErrStorageUnavailable     = &AppError{http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Storage is unavailable"}
)
