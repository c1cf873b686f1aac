/*
Package session implements the session lifecycle of the wanderbuddy client.

Manager is the single source of truth for who is logged in and whether they
finished onboarding. It persists the identity to a ports.KeyValueStore so a
restarted process can restore it, and it re-checks the profile gate against
the backend in the background without blocking the restored state.
*/
package session
