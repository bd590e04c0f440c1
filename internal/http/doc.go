// Package http exposes the PetPal controller as a small JSON API so that any
// client can play the role of the screens.
//
// The router exposes the following endpoints:
//   - GET /state: current view, resolved screen, header and session.
//   - POST /navigate: body {"request":"name" | "name/param"}. Responds with the
//     state after navigation.
//   - POST /login {"email","password"}, POST /logout, POST /signup: session
//     flows, each responding with the resulting state.
//   - PUT /user: edits the current user. POST /pets: adds a pet to them.
//   - GET /sitters?q=&maxDistance=&maxPrice=&petType=, GET /sitters/{id}:
//     sitter search and lookup.
//   - GET /bookings, POST /bookings: list and submit booking requests.
//   - GET|PUT /messages, GET|PUT /notifications, GET|PUT /profile: opaque
//     records stored as sent.
//   - GET /metrics: Prometheus exposition.
//
// Requests are handled one at a time because the controller models a single
// browser tab.
package http
