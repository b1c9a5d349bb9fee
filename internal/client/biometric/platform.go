package biometric

import "context"

// Hardware is the platform capability query.
type Hardware interface {
	HasHardware(ctx context.Context) (bool, error)
	IsEnrolled(ctx context.Context) (bool, error)
	SupportedModalities(ctx context.Context) ([]string, error)
}

// PromptRequest is shown to the user by the platform prompt.
type PromptRequest struct {
	Message             string
	CancelLabel         string
	AllowDeviceFallback bool
}

// PromptResult is the platform's answer. ErrorCode is set only when Success
// is false.
type PromptResult struct {
	Success   bool
	ErrorCode string
}

// Prompt shows the OS biometric dialog and blocks until the user answers or
// the OS gives up.
type Prompt interface {
	Authenticate(ctx context.Context, req PromptRequest) (PromptResult, error)
}

// Platform prompt error codes.
const (
	CodeUserCancel           = "user_cancel"
	CodeSystemCancel         = "system_cancel"
	CodeAppCancel            = "app_cancel"
	CodeUserFallback         = "user_fallback"
	CodeNotEnrolled          = "not_enrolled"
	CodeNotAvailable         = "not_available"
	CodeLockout              = "lockout"
	CodeTimeout              = "timeout"
	CodePasscodeNotSet       = "passcode_not_set"
	CodeAuthenticationFailed = "authentication_failed"
	CodeUnknown              = "unknown"
)

// promptErrorCodes lists every code the platform is known to return.
var promptErrorCodes = []string{
	CodeUserCancel, CodeSystemCancel, CodeAppCancel, CodeUserFallback,
	CodeNotEnrolled, CodeNotAvailable, CodeLockout, CodeTimeout,
	CodePasscodeNotSet, CodeAuthenticationFailed, CodeUnknown,
}

func isCancel(code string) bool {
	return code == CodeUserCancel || code == CodeSystemCancel || code == CodeAppCancel
}

// authFailureKind maps a failed sign-in prompt to its error kind.
func authFailureKind(code string) error {
	switch {
	case isCancel(code):
		return ErrUserCancelled
	case code == CodeUserFallback:
		return ErrUserChoseFallback
	default:
		return ErrUnknown
	}
}

// setupFailureKind maps a failed setup prompt to its error kind.
func setupFailureKind(code string) error {
	switch {
	case isCancel(code), code == CodeUserFallback:
		return ErrPromptCancelled
	case code == CodeNotEnrolled:
		return ErrNotEnrolled
	default:
		return ErrPromptFailed
	}
}
