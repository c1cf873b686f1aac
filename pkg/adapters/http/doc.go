/*
Package http implements ports.Backend over the travel backend's JSON HTTP API.

The Client injects the bearer token of the caller into every authenticated
request, tags requests with an X-Request-ID, and classifies failures so the
core can tell "not found", "rejected" and "unavailable" apart without
knowing about status codes.
*/
package http
