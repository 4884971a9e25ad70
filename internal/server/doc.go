// Package server exposes translation, review and deep-link resolution as a
// JSON API for a browser front end.
package server
