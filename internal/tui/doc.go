// Package tui renders the registration wizard in the terminal with bubbletea.
//
// The Model never holds form state of its own beyond the text inputs: every edit
// is pushed to the wizard Controller, and validation errors, advisories and the
// submit banner are read back from Controller.State on each render.
//
// Keys
//
//	tab, shift+tab   move between the fields of the current step
//	enter            next step; submit on the last one
//	esc              previous step; leave from the first one
//	ctrl+l           use my current location (step 2)
//	ctrl+f           search suggestions for the typed address (step 2)
//	1-5              pick a listed suggestion
//	ctrl+d           dismiss the location warning
//	ctrl+c           quit
package tui
