// Package processor contains the translation orchestrator. It walks the
// selected target languages in catalog order, calls the external translator
// for each one, stops at the first failure and commits whatever succeeded
// as a single new record. This package serves as the main coordinator
// between the translator and the record store.
package processor
