package common

// Keys in the secure key/value store. The biometric keys are owned by the
// biometric package; the session keys belong to the live session store and
// are only read by the biometric subsystem.
const (
	BiometricEnabledKey     = "biometric.enabled"
	BiometricCredentialsKey = "biometric.credentials"

	SessionTokenKey = "session.token"
	SessionUserKey  = "session.user"

	StoreSaltKey     = "store.salt"
	StoreVerifierKey = "store.verifier"
)

// AuthorizationHeaderName carries the bearer session token on API requests.
const AuthorizationHeaderName = "Authorization"
