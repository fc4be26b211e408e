// Package client contains the client side of the SecureVault transport.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) covering
//     the session, file, account, export, support and admin operations.
//  2. A concrete gRPC implementation (see GRPCClient) that manages a
//     connection, attaches the session token to every call via an
//     interceptor, picks up re-issued tokens from response trailers, and
//     maps gRPC status codes back to sentinel errors.
//
// # Error Handling
//
// Server errors are mapped onto the sentinels of package common
// (ErrorInvalidInput, ErrorAlreadyExists, ErrorNotFound, ErrorForbidden,
// ErrorUnauthorized, ErrorInvalidCredentials, ErrorIncorrectCaptcha,
// ErrorInvalidCaptchaAnswer, ErrTokenExpired) and ErrUnavailable, so callers
// can match them with errors.Is while still printing the server's message.
//
// An expired session token is replaced by a fresh guest session before the
// error is returned; the user has to log in again.
package client
