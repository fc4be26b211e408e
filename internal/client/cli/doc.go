// Package cli provides the interactive SecureVault terminal client.
//
// It wires configuration, the gRPC client and an interactive REPL. A guest
// session is opened on start, a background watcher tracks whether the server
// is reachable, and user commands are dispatched until the user exits.
//
// Key features:
//   - Signup (with a password strength meter) and CAPTCHA-guarded login
//   - Upload / list / download / rename / delete own files
//   - Account summary with storage usage and recent activity
//   - Activity export as PDF or CSV, support requests
//   - Admin browsing of other users' files
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
package cli
