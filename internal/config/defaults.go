package config

const (
	defaultBaseURL = "https://www.wattpad.com"
	// The platform rejects user agents that mention scripting runtimes, so the
	// default identifies as a desktop browser.
	defaultUserAgent    = "Mozilla/5.0 (Windows NT 6.1; WOW64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/55.0.2883.87 Safari/537.36"
	defaultOutputDir    = "."
	defaultOutputFormat = FormatText
	defaultEPUBLanguage = "en"
	defaultHistoryPath  = "~/.local/share/storydl/history.db"
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
)

// Output formats understood by the assembler.
const (
	FormatText = "txt"
	FormatEPUB = "epub"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Platform: Platform{
			BaseURL:   defaultBaseURL,
			UserAgent: defaultUserAgent,
		},
		Output: Output{
			Dir:    defaultOutputDir,
			Format: defaultOutputFormat,
		},
		EPUB: EPUB{
			Language: defaultEPUBLanguage,
		},
		History: History{
			Enabled: true,
			Path:    defaultHistoryPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
