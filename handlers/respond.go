package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"
)

// errorResponse is the JSON body returned for every failed request.
type errorResponse struct {
	Error string `json:"error"`
}

func badRequest(e *core.RequestEvent, msg string) error {
	return e.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}

func notFound(e *core.RequestEvent, msg string) error {
	return e.JSON(http.StatusNotFound, errorResponse{Error: msg})
}

func conflict(e *core.RequestEvent, msg string) error {
	return e.JSON(http.StatusConflict, errorResponse{Error: msg})
}

func internalError(e *core.RequestEvent, msg string) error {
	return e.JSON(http.StatusInternalServerError, errorResponse{Error: msg})
}
