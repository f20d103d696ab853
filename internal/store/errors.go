package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrSchoolIDAlreadyExists is returned when an attempt to create a user
	// fails because an account with the same school ID already exists.
	ErrSchoolIDAlreadyExists = errors.New("school ID already exists")

	// ErrNoUserWasFound is returned when a query expected to match at least
	// one user record produces an empty result set.
	ErrNoUserWasFound = errors.New("no user was found")

	// ErrResourceNotFound is returned when a query or update targets a
	// master-data record that does not exist (or belongs to another kind).
	ErrResourceNotFound = errors.New("resource was not found")

	// ErrChallengeNotFound is returned when a captcha or OTP challenge does
	// not exist, has expired, or was already consumed.
	ErrChallengeNotFound = errors.New("challenge was not found")

	// ErrChallengeConsumed is returned when a single-use challenge is
	// referenced a second time.
	ErrChallengeConsumed = errors.New("challenge was already consumed")

	// ErrNotificationNotFound is returned when marking a notification that
	// does not exist or belongs to another user.
	ErrNotificationNotFound = errors.New("notification was not found")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan rows")
)
