package internal

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

var (
	// ErrAuth marks failures of the client-credentials exchange, either on
	// first authorization or on a lazy refresh.
	ErrAuth = errors.New("authorization failed")

	// ErrTransport marks network-level failures of a resource call.
	ErrTransport = errors.New("transport failure")

	// ErrDecoding marks response bodies that could not be decoded into the
	// expected shape.
	ErrDecoding = errors.New("decoding failure")

	// ErrCredentialFormat is the cause of every ErrInvalid* error below.
	ErrCredentialFormat = errors.New("bad credentials")

	ErrInvalidEncoding = errors.Wrap(ErrCredentialFormat, "credentials are not valid base64")
	ErrInvalidText     = errors.Wrap(ErrCredentialFormat, "decoded credentials are not valid UTF-8")
	ErrInvalidFormat   = errors.Wrap(ErrCredentialFormat, "failed to split client id from secret, where is the colon?")
)

// BadRequestError is returned when the remote server reports an application
// error. Code and Description come from the server's own documentation.
type BadRequestError struct {
	Code        string
	Description string
}

func (e *BadRequestError) Error() string {
	return fmt.Sprintf("bad request - %s (%s)", e.Description, e.Code)
}

// UnhandledStatusError is returned for a response status outside of the
// success, client-error and server-error ranges. It is always wrapped as an
// assertion failure: callers are not expected to recover from it.
type UnhandledStatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *UnhandledStatusError) Error() string {
	return fmt.Sprintf("unhandled http status response from %s: %d", e.URL, e.StatusCode)
}

func newUnhandledStatusError(url string, statusCode int, body string) error {
	return errors.WithAssertionFailure(&UnhandledStatusError{
		URL:        url,
		StatusCode: statusCode,
		Body:       body,
	})
}

// IsFatal reports whether err signals integration drift with the server
// rather than a condition the caller can handle.
func IsFatal(err error) bool {
	return errors.HasAssertionFailure(err)
}
