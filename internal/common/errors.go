// Package common defines shared constants and sentinel errors used across
// the walletkeeper client. Callers should use errors.Is to match these values.
package common

import "errors"

// ErrorNotLoggedIn is returned by operations that need a live session.
var ErrorNotLoggedIn = errors.New("not logged in")
