// Package deeplink resolves "?id=<timestamp>&lang=<code>" navigation
// parameters against the filtered review view and picks the record to
// highlight.
package deeplink
