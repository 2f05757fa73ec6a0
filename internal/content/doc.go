// Package content provides the in-memory and SQL-backed content stores. The
// SQL store doubles as a sync target for corpora loaded from other sources.
package content
