// Package location lets the user pick a business address through an external
// geocoding provider.
//
// The Picker never blocks the wizard on failure. Every outcome is reported to a
// domain.LocationSink: a confirmed GeoLocation, or an advisory (denied, timeout,
// unavailable, no results, invalid) that the user can dismiss before typing the
// address by hand.
//
// Provider calls run under a bounded wait. A provider that ignores its context is
// abandoned when the deadline passes; its late answer is dropped.
package location
