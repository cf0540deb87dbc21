package config

const (
	defaultSourceDir          = "~/.local/share/curator/sources"
	defaultLibraryDir         = "~/.local/share/curator/library"
	defaultLogDir             = "~/.local/share/curator/logs"
	defaultTaxonomyPath       = "~/.config/curator/categories.yaml"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultContentWindowBytes = 4096
	defaultOrganizeMode       = "copy"
)

func defaultExtensions() []string {
	return []string{".yaml", ".yml"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			SourceDir:    defaultSourceDir,
			LibraryDir:   defaultLibraryDir,
			LogDir:       defaultLogDir,
			TaxonomyPath: defaultTaxonomyPath,
		},
		Scan: Scan{
			Extensions: defaultExtensions(),
			Workers:    0,
		},
		Classify: Classify{
			ContentWindowBytes: defaultContentWindowBytes,
			MatchContent:       true,
			MatchTags:          true,
		},
		Organize: Organize{
			Mode: defaultOrganizeMode,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
