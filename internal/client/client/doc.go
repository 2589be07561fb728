// Package client talks to the gophident identity server over its HTTP API.
//
// # Overview
//
// Client is the transport-agnostic contract used by the CLI. HTTPClient
// implements it with net/http: it posts urlencoded forms under /api/v1,
// keeps the access token returned by login or registration and sends it as
// "Authorization: Bearer <token>" on user endpoints.
//
// # Error Handling
//
// Transport failures match ErrUnavailable. A 401 response matches
// ErrUnauthorized. Any non-2xx response is returned as *APIError carrying
// the status and the server's detail messages.
package client
