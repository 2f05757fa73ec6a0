package llms

import "github.com/goliatone/go-llms/internal/runtimeconfig"

var (
	ErrSiteTitleRequired          = runtimeconfig.ErrSiteTitleRequired
	ErrOriginInvalid              = runtimeconfig.ErrOriginInvalid
	ErrEndpointPathInvalid        = runtimeconfig.ErrEndpointPathInvalid
	ErrEndpointPathConflict       = runtimeconfig.ErrEndpointPathConflict
	ErrFileNameInvalid            = runtimeconfig.ErrFileNameInvalid
	ErrContentSourceUnknown       = runtimeconfig.ErrContentSourceUnknown
	ErrContentDirRequired         = runtimeconfig.ErrContentDirRequired
	ErrStorageDialectUnknown      = runtimeconfig.ErrStorageDialectUnknown
	ErrStorageDSNRequired         = runtimeconfig.ErrStorageDSNRequired
	ErrGeneratorOutputDirRequired = runtimeconfig.ErrGeneratorOutputDirRequired
	ErrGeneratorWorkersInvalid    = runtimeconfig.ErrGeneratorWorkersInvalid
	ErrHTTPAddrRequired           = runtimeconfig.ErrHTTPAddrRequired
	ErrLoggingProviderUnknown     = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid        = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid       = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config          = runtimeconfig.Config
	SiteConfig      = runtimeconfig.SiteConfig
	IndexConfig     = runtimeconfig.IndexConfig
	FullConfig      = runtimeconfig.FullConfig
	PagesConfig     = runtimeconfig.PagesConfig
	ContentConfig   = runtimeconfig.ContentConfig
	StorageConfig   = runtimeconfig.StorageConfig
	GeneratorConfig = runtimeconfig.GeneratorConfig
	HTTPConfig      = runtimeconfig.HTTPConfig
	MetricsConfig   = runtimeconfig.MetricsConfig
	LoggingConfig   = runtimeconfig.LoggingConfig
)

const (
	ContentSourceMarkdown = runtimeconfig.ContentSourceMarkdown
	ContentSourceSQL      = runtimeconfig.ContentSourceSQL
	ContentSourceMemory   = runtimeconfig.ContentSourceMemory
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads a YAML file over DefaultConfig and validates the result.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.Load(path)
}

// ParseConfig decodes YAML over DefaultConfig and validates the result.
func ParseConfig(data []byte) (Config, error) {
	return runtimeconfig.Parse(data)
}
