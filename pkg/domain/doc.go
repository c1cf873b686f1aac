/*
Package domain contains the core models of the wanderbuddy client.

It defines who is logged in (Identity, SessionState), what the traveler asks
for (PackageQuery), what the backend returns (TravelPackage) and the result
set the caller is browsing (RequestResult). The package is kept pure and free
of I/O; persistence and transport live behind the interfaces in package ports.

# Key Entities

  - Identity: the authenticated principal, its bearer token and profile status.
  - SessionState: the process-wide snapshot of the session (identity + pending).
  - PackageQuery: either a PromptQuery or a FilterQuery.
  - TravelPackage: an immutable, AI-generated package with its day plans.
  - RequestResult: the last accepted result set plus the expanded selection.
*/
package domain
