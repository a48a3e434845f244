package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/pageza/foodgram/backend/internal/errs"
	"github.com/pageza/foodgram/backend/internal/logging"
)

// respondError writes err as a JSON error. *errs.Error values keep their
// kind and status; anything else is logged and hidden behind a 500.
func respondError(c *gin.Context, err error) {
	if e, ok := errs.As(err); ok {
		body := gin.H{"error": e.Message, "kind": e.Kind}
		if e.Field != "" {
			body["field"] = e.Field
		}
		c.JSON(e.StatusCode(), body)
		return
	}

	log := logging.Component("api")
	log.Error().
		Err(err).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Msg("request failed")
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

// bindError converts a gin binding failure into an InvalidValue error
// naming the first offending field.
func bindError(err error) *errs.Error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		field := toSnake(verrs[0].Field())
		if verrs[0].Tag() == "required" {
			return errs.MissingField(field)
		}
		return &errs.Error{
			Kind:    errs.KindInvalidValue,
			Field:   field,
			Message: field + " is invalid",
			Cause:   err,
		}
	}
	return &errs.Error{Kind: errs.KindInvalidValue, Message: "malformed request", Cause: err}
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
