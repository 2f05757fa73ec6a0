// Package generator writes the exports to disk as static artifacts, with a
// manifest describing what was produced.
package generator
