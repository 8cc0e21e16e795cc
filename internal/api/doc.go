// Package api provides the HTTP client for the Novelia backend REST API.
//
// # Overview
//
// The client wraps net/http with JSON encoding, bearer-token auth, and a
// failure taxonomy the rest of the application branches on. It is the only
// package that talks to the backend; everything above it works with typed
// records and typed errors.
//
// # Endpoints
//
//   - GET    /books/                 list, with ?search= and ?genre=
//   - GET    /books/{id}/            single record
//   - POST   /books/create/          create (admin)
//   - PUT    /books/{id}/update/     update (admin)
//   - DELETE /books/{id}/delete/     delete (admin)
//   - GET    /books/{id}/download/   resolve proxied PDF URL (session)
//   - POST   /auth/login/ /auth/signup/ /auth/logout/
//   - GET    /auth/user/ /auth/users/
//
// # Error Handling
//
// HTTP failures map onto sentinels checked with errors.Is: ErrUnauthorized
// (401), ErrForbidden (403), ErrNotFound (404), ErrUnreachable (transport
// failure or undecodable body). A 400 becomes a *ValidationError carrying
// the backend's field-level messages. The client never retries; surfacing
// the failure to the caller is the correct behavior, and retry policy (where
// one exists) belongs to the caller.
//
// # Auth
//
// Protected requests carry "Authorization: Token <opaque>" sourced from an
// injected TokenSource, implemented by the session store. The client holds
// no token state of its own.
//
// # Thread Safety
//
// The Client struct is safe for concurrent use. The underlying http.Client
// handles connection pooling internally.
package api
