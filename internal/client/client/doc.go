// Package client contains the client-side plumbing that talks to things
// outside the process.
//
// # Overview
//
//  1. Client, the contract for the remote wallet auth API (login, logout,
//     health), and HTTPClient, its REST implementation.
//  2. InitDatabase and RunMigrations, which open the local SQLite file that
//     backs the encrypted secure store and apply the embedded goose
//     migrations.
//
// # Error Handling
//
// Transport failures and 5xx responses map to ErrUnavailable, rejected
// credentials or tokens to ErrUnauthorized. Match them with errors.Is.
package client
