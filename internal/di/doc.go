// Package di wires the exporter's stores, services and surfaces from a
// runtimeconfig.Config. Components are built on first use and cached.
package di
