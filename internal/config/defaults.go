package config

const (
	defaultLibraryDB   = "~/Library/Pioneer/rekordbox/master.db"
	defaultLogDir      = "~/.local/share/recrate/logs"
	defaultLogFormat   = "console"
	defaultLogLevel    = "info"
	defaultHostProcess = "rekordbox"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LibraryDB: defaultLibraryDB,
			LogDir:    defaultLogDir,
		},
		HostApp: HostApp{
			ProcessNames: []string{defaultHostProcess},
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
