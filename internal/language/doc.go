// Package language holds the canonical, ordered catalog of target languages
// the tool can translate into, along with code validation helpers.
package language
