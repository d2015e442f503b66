package syncsvc

import (
	"errors"
	"strings"

	"github.com/emberindex/ember/internal/errs"
)

// ClassifyRefreshError maps an error from a gate-triggered sync into a
// closed classification: {None, PermissionError, DatabaseError,
// GitError, Unknown}. A typed *errs.Error is classified by its Kind; a
// generic error falls back to keyword inspection of its message.
func ClassifyRefreshError(err error) errs.Kind {
	if err == nil {
		return ""
	}

	var e *errs.Error
	if errors.As(err, &e) {
		switch e.Kind {
		case errs.PermissionError, errs.DatabaseError:
			return e.Kind
		case errs.GitError, errs.NotARepository, errs.NoCommitsYet, errs.InvalidRef, errs.IndexRestorationFailed:
			return errs.GitError
		default:
			return errs.Unknown
		}
	}

	msg := strings.ToLower(err.Error())
	for _, kw := range []string{"git", "repository", "ref", "commit", "tree"} {
		if strings.Contains(msg, kw) {
			return errs.GitError
		}
	}
	return errs.Unknown
}
