// Package archive writes and reads timestamped YAML snapshots of the
// translation collection.
package archive
