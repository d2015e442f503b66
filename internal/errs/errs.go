package errs

import "fmt"

// Error is ember's structured error type: a closed Kind taxonomy plus
// message/cause/suggestion/details, with WithDetail/WithSuggestion
// chaining and errors.Is support by Kind.
type Error struct {
	Kind       Kind
	Message    string
	Suggestion string
	Details    map[string]string
	Cause      error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Suggestion)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is/errors.As chains.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches by Kind so errors.Is(err, errs.New(NotInitialized, "", nil))
// works without comparing messages.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New creates an Error with a given kind, message, and optional cause.
func New(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// WithDetail attaches a key-value detail and returns the error for
// chaining.
func (e *Error) WithDetail(key, value string) *Error {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion attaches a single-line actionable hint for the user
// facing this error.
func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestion = s
	return e
}

// KindOf extracts the Kind from err, or Unknown if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if as(err, &e) {
		return e.Kind
	}
	return Unknown
}

// as is a tiny local errors.As to avoid importing the stdlib errors
// package purely for this one call site while keeping the rest of the
// package dependency-free.
func as(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// IsFatal reports whether err, if an *Error, has a fatal Kind.
func IsFatal(err error) bool {
	return KindOf(err).IsFatal()
}
