// Package biometric owns the locally cached credential that lets a user
// sign in with a fingerprint, face or iris instead of typing a password.
//
// The pieces, leaves first:
//
//   - Probe asks the platform whether biometric hardware exists and has
//     something enrolled, and builds a display name such as
//     "Fingerprint or Face ID".
//   - Encode and Decode convert a CredentialRecord to and from the JSON
//     string kept in the secure store, rejecting anything that would not
//     survive the round trip.
//   - Validator decides whether a session-bound record still has a live
//     session behind it.
//   - Manager is the only code that creates, refreshes or deletes the
//     record: Enable, RefreshSessionToken, Disable and Authenticate.
//
// Every failure is reported as a *Error whose kind can be matched with
// errors.Is against the Err* sentinels. Authenticate failures always carry
// FallbackToPassword, so a caller can keep the password form available
// without inspecting the kind.
//
// The Manager expects one operation at a time (one per user gesture) and
// does no locking of its own.
package biometric
