package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/offseason/internal/adapters/repository"
	service "github.com/okian/offseason/internal/app"
	"github.com/okian/offseason/internal/domain/captable"
	"github.com/okian/offseason/internal/domain/draft"
	"github.com/okian/offseason/internal/domain/negotiation"
	"github.com/okian/offseason/internal/domain/offer"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest  = errors.New("bad request")
	ErrUnavailable = errors.New("service unavailable")
)

// Error is an API failure: the operation that failed, the kind of failure
// and the underlying cause.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Err == nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	case e.Kind == nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is.
func (e *Error) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// NewKind reports a failure of kind in op.
func NewKind(op string, kind error) error {
	return &Error{Op: op, Kind: kind}
}

// WrapKind reports err as a failure of kind in op.
func WrapKind(op string, kind, err error) error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// Wrap tags err with op and leaves classification to its chain.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

var (
	badRequest = []error{
		ErrBadRequest,
		service.ErrInvalidRequest,
		offer.ErrInvalidOffer,
		captable.ErrInvalidTerm,
		captable.ErrInvalidValue,
		negotiation.ErrUnknownSurface,
		negotiation.ErrInvalidPlayer,
		draft.ErrInvalidConfig,
		draft.ErrInvalidTrade,
		repository.ErrInvalidRecord,
	}
	notFound = []error{
		repository.ErrSessionNotFound,
		draft.ErrProspectNotFound,
		draft.ErrPickNotFound,
	}
	conflict = []error{
		draft.ErrSessionPaused,
		draft.ErrSessionCompleted,
		draft.ErrNotYourPick,
		draft.ErrProspectDrafted,
	}
)

func isAny(err error, kinds []error) bool {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return true
		}
	}
	return false
}

// classify maps an error chain to a status and a stable error code.
func classify(err error) (int, string) {
	switch {
	case isAny(err, badRequest):
		return http.StatusBadRequest, "bad_request"
	case isAny(err, notFound):
		return http.StatusNotFound, "not_found"
	case isAny(err, conflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, service.ErrNotStarted), errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable, "unavailable"
	}
	return http.StatusInternalServerError, "internal_error"
}
