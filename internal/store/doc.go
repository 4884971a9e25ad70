// Package store persists the translation record collection. The collection
// is kept as one serialized blob under a single key of a key-value backend;
// all mutations are read-modify-write of the whole collection.
package store
