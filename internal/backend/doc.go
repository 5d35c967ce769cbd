// Package backend contains the HTTP client for the ServiceFlow accounts and
// geocoding API, plus the wire types shared with the development server.
//
// Endpoints
//
//   - POST /accounts                   create an account (201, 409, 422)
//   - GET  /geocode/current            approximate position of the caller (403 when denied)
//   - GET  /geocode/reverse?lat=&lng=  nearest address to a point (404 when none)
//   - GET  /geocode/search?q=&country= address suggestions
//   - GET  /health                     liveness
//
// Non-2xx responses carry an ErrorResponse body and surface as *StatusError,
// which unwraps to the matching domain sentinel.
package backend
