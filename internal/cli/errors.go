package cli

import (
	"errors"
	"fmt"

	"github.com/mesh-intelligence/blogctl/internal/blogapi"
	"github.com/mesh-intelligence/blogctl/internal/media"
	"github.com/mesh-intelligence/blogctl/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Messages shown to the user.
const (
	msgLoginRequired   = "Please login first"
	msgSessionExpired  = "Your session has expired. Run blogctl login."
	msgNetwork         = "Network error. Check your internet connection."
	msgBlogNotFound    = "Blog not found. It may have been deleted."
	msgServerError     = "Server error. Please try again later."
	msgFillBlogFields  = "Please fill in all fields"
	msgFillAllFields   = "Please fill all fields"
	msgProvideAllData  = "Please Provide All Data"
	msgPasswordsDiffer = "Passwords do not match"
	msgImageRequired   = "Please select a featured image"
)

var (
	errLoginRequired = errors.New("login required")
	errImageRequired = errors.New("featured image is required")
)

// exitError pins an exit code, and optionally the message shown, to an error.
type exitError struct {
	code int
	err  error
	msg  string
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// systemError marks err as a failure of the local system rather than of
// the user's input.
func systemError(err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: exitSysError, err: err}
}

// formError shows the server's own message for a rejected form, the way
// the sign-in and sign-up pages do.
func formError(err error) error {
	var apiErr *blogapi.APIError
	if errors.As(err, &apiErr) {
		return &exitError{code: exitUserError, err: err, msg: apiErr.Message}
	}
	return err
}

// describeError maps err to the exit code and the message shown on stderr.
func describeError(err error) (int, string) {
	var apiErr *blogapi.APIError
	var uploadErr *media.UploadError
	var exitErr *exitError

	switch {
	case errors.As(err, &exitErr) && exitErr.msg != "":
		return exitErr.code, exitErr.msg
	case errors.Is(err, errLoginRequired):
		return exitUserError, msgLoginRequired
	case errors.Is(err, blogapi.ErrUnauthorized):
		return exitUserError, msgSessionExpired
	case errors.Is(err, blogapi.ErrUnreachable):
		return exitSysError, msgNetwork
	case errors.Is(err, blogapi.ErrNotFound):
		return exitUserError, msgBlogNotFound
	case errors.Is(err, blogapi.ErrServer):
		return exitSysError, msgServerError
	case errors.Is(err, errImageRequired):
		return exitUserError, msgImageRequired
	case errors.Is(err, types.ErrCredentialsMissing):
		return exitUserError, msgProvideAllData
	case errors.Is(err, types.ErrRegistrationIncomplete):
		return exitUserError, msgFillAllFields
	case errors.Is(err, types.ErrPasswordMismatch):
		return exitUserError, msgPasswordsDiffer
	case errors.Is(err, types.ErrTitleRequired),
		errors.Is(err, types.ErrSynopsisRequired),
		errors.Is(err, types.ErrContentRequired):
		return exitUserError, msgFillBlogFields
	case errors.As(err, &uploadErr):
		return exitUserError, "Cloudinary Error: " + uploadErr.Message
	case errors.As(err, &apiErr):
		return exitUserError, fmt.Sprintf("Server Error (%d): %s", apiErr.Status, apiErr.Message)
	case errors.As(err, &exitErr):
		return exitErr.code, "Error: " + err.Error()
	default:
		return exitUserError, "Error: " + err.Error()
	}
}
