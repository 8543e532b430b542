// Package response writes the JSON envelopes returned by the bridge.
package response

import (
	"net/http"
	"time"

	deliverycontext "hub/internal/delivery/context"
	domainerrors "hub/internal/domain/errors"
	"hub/internal/errors"
	"hub/internal/usecase"

	"github.com/labstack/echo/v4"
)

// Envelope wraps the data of a successful call.
type Envelope[T any] struct {
	Data T    `json:"data"`
	Meta Meta `json:"meta"`
}

// Meta travels with every envelope.
type Meta struct {
	RequestID string `json:"request_id"`
	// Count is set on collection reads.
	Count *int `json:"count,omitempty"`
	// Stale marks data served from the last good value after a failed refresh.
	Stale bool `json:"stale,omitempty"`
}

// Failure wraps a rejected call.
type Failure struct {
	Error Problem `json:"error"`
	Meta  Meta    `json:"meta"`
}

// Problem is the machine-readable part of a Failure.
type Problem struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// StoreState is the JSON view of usecase.Status.
type StoreState struct {
	Loading     bool       `json:"loading"`
	Offline     bool       `json:"offline"`
	Size        int        `json:"size"`
	LoadedAt    *time.Time `json:"loadedAt,omitempty"`
	LastError   string     `json:"lastError,omitempty"`
	LastErrorAt *time.Time `json:"lastErrorAt,omitempty"`
}

func meta(c echo.Context) Meta {
	return Meta{RequestID: deliverycontext.GetRequestID(c)}
}

// Success writes data with the given status.
func Success[T any](c echo.Context, statusCode int, data T) error {
	return c.JSON(statusCode, Envelope[T]{Data: data, Meta: meta(c)})
}

// List writes a collection read. A nil slice is written as [].
func List[T any](c echo.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	m := meta(c)
	count := len(items)
	m.Count = &count

	return c.JSON(http.StatusOK, Envelope[[]T]{Data: items, Meta: m})
}

// Stale writes the last good value of a read whose refresh failed.
func Stale[T any](c echo.Context, data T) error {
	m := meta(c)
	m.Stale = true

	return c.JSON(http.StatusOK, Envelope[T]{Data: data, Meta: m})
}

// StoreStates writes the status of each named store.
func StoreStates(c echo.Context, statuses map[string]usecase.Status) error {
	out := make(map[string]StoreState, len(statuses))
	for name, s := range statuses {
		out[name] = toStoreState(s)
	}

	return Success(c, http.StatusOK, out)
}

func toStoreState(s usecase.Status) StoreState {
	state := StoreState{
		Loading:   s.Loading,
		Offline:   s.Offline,
		Size:      s.Size,
		LastError: s.ErrorMessage(),
	}
	if !s.LoadedAt.IsZero() {
		loaded := s.LoadedAt
		state.LoadedAt = &loaded
	}
	if !s.LastErrorAt.IsZero() {
		failed := s.LastErrorAt
		state.LastErrorAt = &failed
	}

	return state
}

// exposesDetails is false for server and auth failures.
func exposesDetails(statusCode int) bool {
	return statusCode < http.StatusInternalServerError &&
		statusCode != http.StatusUnauthorized &&
		statusCode != http.StatusForbidden
}

// Error writes a Failure. Details are dropped when empty or not exposed.
func Error(c echo.Context, statusCode int, errorCode string, message string, details any) error {
	if !exposesDetails(statusCode) {
		details = nil
	}
	if s, ok := details.(string); ok && s == "" {
		details = nil
	}

	return c.JSON(statusCode, Failure{
		Error: Problem{Code: errorCode, Message: message, Details: details},
		Meta:  meta(c),
	})
}

func BadRequest(c echo.Context, errorCode string, message string) error {
	return Error(c, http.StatusBadRequest, errorCode, message, nil)
}

func Unauthorized(c echo.Context, errorCode string, message string) error {
	return Error(c, http.StatusUnauthorized, errorCode, message, nil)
}

func Forbidden(c echo.Context, errorCode string, message string) error {
	return Error(c, http.StatusForbidden, errorCode, message, nil)
}

func NotFound(c echo.Context, errorCode string, message string) error {
	return Error(c, http.StatusNotFound, errorCode, message, nil)
}

func InternalServerError(c echo.Context, errorCode string, message string) error {
	return Error(c, http.StatusInternalServerError, errorCode, message, nil)
}

// HandleAppError writes store and gate errors. Anything that is not an
// AppError is returned for the central error handler.
func HandleAppError(c echo.Context, err error) error {
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		return Error(c, appErr.HTTPCode(), appErr.ErrorCode(), appErr.Message(), appErr.Details())
	}

	return errors.WithStack(err)
}
