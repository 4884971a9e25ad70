// Package review implements the review workflow over the stored
// translation records: status changes, text edits, comments, deletion and
// the time/language filtered view.
package review
