package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
)

// ValidationError marks a write that was rejected before reaching storage.
// Handlers surface it as a 400; anything else from the store is a 500.
// Not-found is not an error at this layer, it is an absent result.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErrorf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// errMandatory reports a missing required field using the wording clients
// already match on.
func errMandatory(field string) error {
	return validationErrorf("The '%s' field is mandatory and cannot be empty", field)
}

func isValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// respondError maps an error to its HTTP shape: validation failures become
// 400s with their message, everything else is logged and becomes a 500 with
// the handler-supplied context string.
func (a *app) respondError(c *gin.Context, err error, context string) {
	if isValidationError(err) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a.log.WithError(err).Error(context)
	c.JSON(http.StatusInternalServerError, gin.H{"error": context})
}

// bindErrorMessage turns a JSON decode failure into a field-level message
// where possible, e.g. a string supplied for a numeric field.
func bindErrorMessage(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		kind := "value"
		switch typeErr.Type.Kind() {
		case reflect.Float32, reflect.Float64, reflect.Int, reflect.Int32, reflect.Int64:
			kind = "number"
		case reflect.Bool:
			kind = "boolean"
		case reflect.String:
			kind = "string"
		}
		return fmt.Sprintf("%s must be a valid %s", typeErr.Field, kind)
	}
	return "Invalid request body"
}
