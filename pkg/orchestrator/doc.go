// Package orchestrator turns package queries into the result set the
// traveler browses and keeps track of the single expanded package.
//
// Submissions are ordered by when they were made, not by when the backend
// answers: a response is applied only if no newer submission was issued in
// the meantime.
package orchestrator
