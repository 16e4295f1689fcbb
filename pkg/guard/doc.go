// Package guard implements the route-guard decision logic over an
// authentication session snapshot.
//
// Guards are pure consumers: they never mutate session state, they only map
// a snapshot plus the current location onto a Decision - render the view,
// hold a neutral loading state, or redirect. The two behaviors mirror the
// two kinds of views an authenticated product has:
//
//   - Protected: views that require an authenticated session. While the
//     session is loading nothing is decided, so there is never a flash of
//     the wrong content. A pending second factor forces the verification
//     view before anything protected renders.
//   - Public: entry views (login, registration) that authenticated users are
//     bounced away from, except the password-reset views which stay
//     reachable regardless.
//
// Reading the snapshot through a SessionSource is guarded with recover: any
// panic reading session state fails closed to the login redirect. Protected
// content is never rendered on an error path.
package guard
