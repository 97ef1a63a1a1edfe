package server

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/jonathan/devfolio/internal/content"
)

// ErrInvalidID indicates a path parameter that is not a positive integer
type ErrInvalidID struct {
	Param string
	Value string
}

func (e *ErrInvalidID) Error() string {
	return fmt.Sprintf("invalid %s: %q", e.Param, e.Value)
}

// ErrImageNotFound indicates an image id the project does not own
type ErrImageNotFound struct {
	ProjectID int
	ImageID   int
}

func (e *ErrImageNotFound) Error() string {
	return fmt.Sprintf("image %d not found in project %d", e.ImageID, e.ProjectID)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var invalidID *ErrInvalidID
	var imageNotFound *ErrImageNotFound

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &invalidID):
		return http.StatusBadRequest
	case errors.Is(err, content.ErrProjectNotFound),
		errors.As(err, &imageNotFound),
		errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
