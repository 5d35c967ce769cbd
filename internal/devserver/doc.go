// Package devserver is an in-process implementation of the ServiceFlow backend
// API used for local development and tests.
//
// It stores accounts in a domain.AccountStore and answers geocoding requests from
// a domain.PlaceDirectory. Routes and wire types are the ones declared in package
// backend.
package devserver
