// Package api contains the client-side contract for talking to the Quizdeck
// backend auth service and a concrete HTTP implementation.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface) covering the
//     auth surface the session layer needs: Verify, Login, UpdateProfile
//     and a liveness probe.
//  2. A concrete HTTP implementation (see HTTPClient) that speaks the
//     backend's JSON envelope, injects the bearer credential, bounds every
//     call with a timeout, and maps transport/status conditions to sentinel
//     errors.
//
// # Error Handling
//
// Expected auth failures are not exceptional: an invalid or expired token
// surfaces as ErrUnauthorized, rejected login credentials as a
// *ValidationError (which matches ErrUnauthorized via errors.Is). Transport
// failures surface as ErrUnavailable. Only malformed server responses
// produce other wrapped errors.
//
// All operations accept context.Context and honor cancellation/timeouts.
package api

import (
	"context"

	"github.com/dmitrijs2005/quizdeck/internal/client/models"
)

// Client is the auth surface of the Quizdeck backend as seen by the client.
type Client interface {
	// Verify exchanges a bearer credential for the verified user record.
	// Returns ErrUnauthorized for an invalid/expired credential and
	// ErrUnavailable for transport failures.
	Verify(ctx context.Context, token string) (*models.User, error)

	// Login exchanges email/password for a user record and a fresh
	// credential. Rejected credentials return a *ValidationError.
	Login(ctx context.Context, email, password string) (*models.User, string, error)

	// Register creates a new account and returns the user record plus a
	// fresh credential, mirroring Login.
	Register(ctx context.Context, name, email, password string) (*models.User, string, error)

	// UpdateProfile mutates name/email of the authenticated user and
	// returns the updated record.
	UpdateProfile(ctx context.Context, token, name, email string) (*models.User, error)

	// Ping checks backend liveness.
	Ping(ctx context.Context) error
}
