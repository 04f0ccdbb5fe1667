package echoapi

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/flmvela/gemeos/core"
	"github.com/flmvela/gemeos/core/concept"
	"github.com/flmvela/gemeos/core/domain"
)

var (
	errUnauthorized  = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errHttpForbidden = echo.NewHTTPError(http.StatusForbidden, "permission denied")
)

// ingestionError marks errors of the ingestion endpoints, which answer with `{success: false, error}`.
type ingestionError struct {
	err error
}

func ingestionFailure(err error) error {
	if err == nil {
		return nil
	}
	return &ingestionError{err: err}
}

func (e *ingestionError) Error() string { return e.err.Error() }
func (e *ingestionError) Unwrap() error { return e.err }
func (e *ingestionError) Cause() error  { return e.err }

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		code, message := classifyError(err, translator)

		switch code {
		case http.StatusInternalServerError:
			var p core.Person
			if person, pErr := getContextPerson(ctx); pErr == nil {
				p = person
			}
			msg := http.StatusText(http.StatusInternalServerError)
			logger.Error(msg, errors.Wrap(err, msg), p)

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		case http.StatusBadGateway:
			logger.Warn(err.Error(), err)
		}

		var ingErr *ingestionError
		switch {
		case ctx.Echo().Debug:
			message = err.Error()
		case stderrors.As(err, &ingErr):
			message = echo.Map{"success": false, "error": flattenMessage(message)}
		default:
			if m, ok := message.(string); ok {
				message = echo.Map{"error": m}
			}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}

// classifyError maps err to a status code and a message: a string or a {field: error} map.
func classifyError(err error, translator ut.Translator) (int, interface{}) {
	// typed concept errors carry a Cause, match them before unwrapping
	var inErr *concept.InvalidInputError
	if stderrors.As(err, &inErr) {
		return http.StatusBadRequest, map[string]string{inErr.Field: inErr.Reason}
	}
	var exErr *concept.ExtractionError
	if stderrors.As(err, &exErr) {
		return http.StatusBadGateway, "concept extraction failed"
	}

	cause := errors.Cause(err)
	switch origErr := cause.(type) {
	case *echo.HTTPError:
		if origErr == middleware.ErrJWTMissing {
			return http.StatusUnauthorized, fmt.Sprint(origErr.Message)
		}
		if origErr.Internal != nil {
			if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
				origErr = herr
			}
		}
		if m, ok := origErr.Message.(string); ok {
			return origErr.Code, m
		}
		return origErr.Code, origErr.Message
	case validator.ValidationErrors:
		fldErrs := make(map[string]string, len(origErr))
		for _, vErr := range origErr {
			fldErrs[vErr.Field()] = vErr.Translate(translator)
		}
		return http.StatusBadRequest, fldErrs
	case *core.ValidationError:
		if fldErrs := origErr.FieldMap(); fldErrs != nil {
			return http.StatusBadRequest, fldErrs
		}
		return http.StatusBadRequest, origErr.Error()
	}

	switch cause {
	case domain.ErrNotFound:
		return http.StatusNotFound, "domain not found"
	case concept.ErrNotFound:
		return http.StatusNotFound, "concept not found"
	case concept.ErrExtractionUnavailable:
		return http.StatusServiceUnavailable, cause.Error()
	}
	// any other error is a server error
	return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
}

// flattenMessage turns a {field: error} map into a single line, fields sorted.
func flattenMessage(message interface{}) string {
	fldErrs, ok := message.(map[string]string)
	if !ok {
		return fmt.Sprint(message)
	}
	flds := make([]string, 0, len(fldErrs))
	for fld := range fldErrs {
		flds = append(flds, fld)
	}
	sort.Strings(flds)
	parts := make([]string, 0, len(flds))
	for _, fld := range flds {
		parts = append(parts, fld+": "+fldErrs[fld])
	}
	return strings.Join(parts, "; ")
}
