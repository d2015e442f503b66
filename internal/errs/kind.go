// Package errs provides the closed error taxonomy for ember: a single
// structured error type carrying a classification, an optional cause,
// and an actionable one-line suggestion, instead of ad-hoc fmt.Errorf
// chains.
package errs

// Kind is one of the closed set of error classifications ember raises.
type Kind string

const (
	NotInitialized        Kind = "NOT_INITIALIZED"
	AlreadyInitialized     Kind = "ALREADY_INITIALIZED"
	NotARepository          Kind = "NOT_A_REPOSITORY"
	NoCommitsYet            Kind = "NO_COMMITS_YET"
	InvalidRef              Kind = "INVALID_REF"
	FileNotFoundAtRef       Kind = "FILE_NOT_FOUND_AT_REF"
	IndexRestorationFailed  Kind = "INDEX_RESTORATION_FAILED"
	PermissionError         Kind = "PERMISSION_ERROR"
	DatabaseError           Kind = "DATABASE_ERROR"
	GitError                Kind = "GIT_ERROR"
	ModelMismatch           Kind = "MODEL_MISMATCH"
	PathNotInRepository     Kind = "PATH_NOT_IN_REPOSITORY"
	ConflictingFilters      Kind = "CONFLICTING_FILTERS"
	IndexOutOfRange         Kind = "INDEX_OUT_OF_RANGE"
	AmbiguousIDPrefix       Kind = "AMBIGUOUS_ID_PREFIX"
	EditorNotFound          Kind = "EDITOR_NOT_FOUND"
	EditorExecutionFailed   Kind = "EDITOR_EXECUTION_FAILED"
	Unknown                 Kind = "UNKNOWN"
)

// fatalKinds are kinds that always abort the enclosing operation; they
// are never downgraded to a per-file warning.
var fatalKinds = map[Kind]bool{
	IndexRestorationFailed: true,
	DatabaseError:          true,
}

// IsFatal reports whether a Kind always aborts its caller.
func (k Kind) IsFatal() bool {
	return fatalKinds[k]
}
