// Package main runs the ServiceFlow development backend: the accounts and
// geocoding API the serviceflow CLI talks to.
//
// HTTP API
//
//	POST /accounts
//	    Create an account. 201 with the Account; 409 when the email is taken;
//	    422 with per-field messages when the payload fails validation.
//
//	GET /geocode/current
//	    The caller's approximate position. 403 with --deny-geolocation.
//
//	GET /geocode/reverse?lat=..&lng=..
//	    Nearest known place within 25 km. 404 when there is none.
//
//	GET /geocode/search?q=..&country=..
//	    Up to five matching places, accent- and case-insensitive.
//
//	GET /health
//
// Behaviour
//
//   - Accounts live in memory unless --data-dir is given, in which case they are
//     written to accounts.json with bcrypt password hashes.
//   - Responses are JSON. Non-2xx statuses carry {code,title,message}.
//   - The default listen address is :8080.
package main
