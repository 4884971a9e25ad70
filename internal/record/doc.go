// Package record defines the translation record model: one submitted source
// text together with its per-language translation entries, their review
// status and an optional reviewer comment. It also owns the persisted JSON
// layout of a record, including normalisation of legacy comment shapes.
package record
