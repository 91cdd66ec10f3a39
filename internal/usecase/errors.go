package usecase

import (
	"errors"
	"fmt"
	"net/http"

	"bakery/internal/domain/model"
)

// HTTPError carries the status a handler should answer with. Usecases decide
// the status, handlers only serialize it.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{Status: status, Message: message}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// transitionError maps an InvalidTransitionError to 409 and anything else to
// a generic 500.
func transitionError(err error) error {
	var invalid *model.InvalidTransitionError
	if errors.As(err, &invalid) {
		return NewHTTPError(http.StatusConflict, invalid.Error())
	}
	return NewHTTPError(http.StatusInternalServerError, "internal error")
}
