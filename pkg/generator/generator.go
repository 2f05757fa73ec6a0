// Package generator exposes the static export builder for hosts embedding
// go-llms. Use NewService with an export source and Config to write llms.txt,
// llms-full.txt, optional page mirrors and a manifest.
package generator

import internal "github.com/goliatone/go-llms/internal/generator"

type (
	Service      = internal.Service
	Source       = internal.Source
	Config       = internal.Config
	Option       = internal.Option
	BuildOptions = internal.BuildOptions
	BuildResult  = internal.BuildResult
	Artifact     = internal.Artifact
	ArtifactKind = internal.ArtifactKind
)

const (
	KindIndex    = internal.KindIndex
	KindFull     = internal.KindFull
	KindPage     = internal.KindPage
	KindManifest = internal.KindManifest
)

var (
	ErrSourceRequired    = internal.ErrSourceRequired
	ErrOutputDirRequired = internal.ErrOutputDirRequired
	ErrUnsafePath        = internal.ErrUnsafePath

	WithLogger = internal.WithLogger
	WithClock  = internal.WithClock
)

// NewService wires a generator over source.
func NewService(source Source, cfg Config, opts ...Option) *Service {
	return internal.NewService(source, cfg, opts...)
}
