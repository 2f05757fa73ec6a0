package export

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

const textCodeStoreFailed = "EXPORT_CONTENT_STORE_FAILED"

var (
	// ErrStoreRequired is returned when the service has no content store.
	ErrStoreRequired = errors.New("export: content store required")
	// ErrPageNotFound is returned by Page when the id is not in the corpus.
	ErrPageNotFound = errors.New("export: page not found")
	// ErrPageIDRequired is returned by Page for a blank id.
	ErrPageIDRequired = errors.New("export: page id required")
)

// storeFailure stays outermost in the chain. goerrors.Wrap returns a clone
// when err already holds a *goerrors.Error, so the cause is kept separately.
type storeFailure struct {
	wrapped error
	cause   error
}

func (e *storeFailure) Error() string { return e.wrapped.Error() }

func (e *storeFailure) Unwrap() []error { return []error{e.wrapped, e.cause} }

// wrapStoreError marks err as a content store failure and tags it as
// external. The original error stays reachable through errors.Is and
// errors.As.
func wrapStoreError(err error) error {
	if err == nil {
		return nil
	}
	if IsStoreFailure(err) {
		return err
	}
	return &storeFailure{
		wrapped: goerrors.Wrap(err, goerrors.CategoryExternal, "content store read failed").
			WithTextCode(textCodeStoreFailed),
		cause: err,
	}
}

// IsStoreFailure reports whether err came from the content store read.
func IsStoreFailure(err error) bool {
	var failure *storeFailure
	return errors.As(err, &failure)
}
