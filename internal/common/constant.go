package common

// SessionTokenHeaderName is the gRPC metadata key carrying the signed session
// token in both directions: outgoing request metadata and response trailers.
const SessionTokenHeaderName = "session_token"

// StorageSoftLimitBytes is the per-user storage quota shown on the account
// page. It is informational only; uploads are never rejected because of it.
const StorageSoftLimitBytes int64 = 200 * 1024 * 1024
