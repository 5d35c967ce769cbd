// Package wizard implements the three-stage company registration flow.
//
// A Controller owns one RegistrationDraft for the lifetime of a wizard session and
// is the only thing that mutates it. Transitions:
//
//	Stage1 --advance(valid)--> Stage2 --advance(valid)--> Stage3
//	Stage3 --submit(valid)--> Submitting --success--> finished (OnSubmitted fires)
//	Submitting --failure--> Stage3 with a banner, draft intact
//	Stage2 --retreat--> Stage1, Stage3 --retreat--> Stage2, Stage1 --retreat--> exit
//
// The Controller also acts as the domain.LocationSink for the location picker, so a
// confirmed pick lands directly in the draft's address field.
package wizard
