// Package platform provides terminal stand-ins for the operating system
// biometric facilities: a configurable hardware query and a prompt that
// asks the user to confirm on the console.
package platform
