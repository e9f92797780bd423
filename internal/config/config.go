package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeConvert = "convert"
	ModeStdio   = "stdio"
	ModeServer  = "server"

	// Default values
	DefaultPort        = 8080
	DefaultHost        = "127.0.0.1"
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB
)

// Config holds all configuration for the shipping-document converter
type Config struct {
	// Execution mode: "convert" runs one conversion and exits,
	// "stdio" and "server" expose the converter as an MCP tool surface.
	Mode string
	Host string
	Port int

	// Conversion inputs
	InvoicePath     string // commercial invoice PDF (*CI.pdf)
	PackingListPath string // packing list PDF (*PL.pdf)
	Directory       string // directory scanned for CI/PL files when paths are not given
	OutputPath      string // target workbook; derived from the inputs when empty

	// Application configuration
	Version     string
	ServerName  string
	LogLevel    string
	MaxFileSize int64 // Maximum PDF file size in bytes
	Strict      bool  // run a full pdfcpu structural validation before parsing
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		Mode:        ModeConvert,
		Host:        DefaultHost,
		Port:        DefaultPort,
		Directory:   currentDir,
		Version:     "1.0.0",
		ServerName:  "shipdoc",
		LogLevel:    DefaultLogLevel,
		MaxFileSize: DefaultMaxFileSize,
		Strict:      false,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	// Check for version flag before parsing
	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	populateConfigFromViper(cfg)

	// Expand paths if needed
	if cfg.Directory != "" {
		if expandedPath, err := filepath.Abs(cfg.Directory); err == nil {
			cfg.Directory = expandedPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix("SHIPDOC")
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("invoice", cfg.InvoicePath)
	viper.SetDefault("packinglist", cfg.PackingListPath)
	viper.SetDefault("dir", cfg.Directory)
	viper.SetDefault("output", cfg.OutputPath)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
	viper.SetDefault("strict", cfg.Strict)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Mode: 'convert' for a one-shot conversion, 'stdio' for MCP standard I/O, 'server' for HTTP server")
	pflag.String("host", cfg.Host, "Server host address (server mode only)")
	pflag.Int("port", cfg.Port, "Server port (server mode only)")
	pflag.String("invoice", cfg.InvoicePath, "Path to a commercial invoice PDF (*CI.pdf)")
	pflag.String("packinglist", cfg.PackingListPath, "Path to a packing list PDF (*PL.pdf)")
	pflag.String("dir", cfg.Directory, "Directory scanned for CI/PL PDF files when no explicit paths are given")
	pflag.String("output", cfg.OutputPath, "Output workbook path (defaults next to the first input)")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
	pflag.Bool("strict", cfg.Strict, "Run a full structural validation of the PDFs before parsing")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	_ = viper.BindPFlag("mode", pflag.Lookup("mode"))
	_ = viper.BindPFlag("host", pflag.Lookup("host"))
	_ = viper.BindPFlag("port", pflag.Lookup("port"))
	_ = viper.BindPFlag("invoice", pflag.Lookup("invoice"))
	_ = viper.BindPFlag("packinglist", pflag.Lookup("packinglist"))
	_ = viper.BindPFlag("dir", pflag.Lookup("dir"))
	_ = viper.BindPFlag("output", pflag.Lookup("output"))
	_ = viper.BindPFlag("loglevel", pflag.Lookup("loglevel"))
	_ = viper.BindPFlag("maxfilesize", pflag.Lookup("maxfilesize"))
	_ = viper.BindPFlag("strict", pflag.Lookup("strict"))
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nshipdoc - Extract invoice and packing list line items from PDFs into an Excel workbook\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                          "+
			"# convert CI/PL PDFs found in the current directory\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --invoice='SHIP01 CI.pdf' --packinglist='SHIP01 PL.pdf'\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --dir=/path/to/pdfs --output=result.xlsx # convert with explicit output\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=stdio                             # expose conversion as MCP tools\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  SHIPDOC_MODE         Execution mode\n")
		fmt.Fprintf(os.Stderr, "  SHIPDOC_INVOICE      Invoice PDF path\n")
		fmt.Fprintf(os.Stderr, "  SHIPDOC_PACKINGLIST  Packing list PDF path\n")
		fmt.Fprintf(os.Stderr, "  SHIPDOC_DIR          Input directory\n")
		fmt.Fprintf(os.Stderr, "  SHIPDOC_OUTPUT       Output workbook path\n")
		fmt.Fprintf(os.Stderr, "  SHIPDOC_LOGLEVEL     Log level\n")
		fmt.Fprintf(os.Stderr, "  SHIPDOC_MAXFILESIZE  Maximum file size\n")
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return fmt.Errorf("version requested")
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.Host = viper.GetString("host")
	cfg.Port = viper.GetInt("port")
	cfg.InvoicePath = viper.GetString("invoice")
	cfg.PackingListPath = viper.GetString("packinglist")
	cfg.Directory = viper.GetString("dir")
	cfg.OutputPath = viper.GetString("output")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
	cfg.Strict = viper.GetBool("strict")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Mode != ModeConvert && c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be one of 'convert', 'stdio' or 'server'")
	}

	// Validate port range (only for server mode)
	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	// Explicit input paths must point at existing files
	for _, p := range []string{c.InvoicePath, c.PackingListPath} {
		if p == "" {
			continue
		}
		info, err := os.Stat(p)
		if os.IsNotExist(err) {
			return fmt.Errorf("input file does not exist: %s", p)
		}
		if err != nil {
			return fmt.Errorf("cannot access input file %s: %w", p, err)
		}
		if info.IsDir() {
			return fmt.Errorf("input path is a directory, not a file: %s", p)
		}
	}

	// The directory is only consulted when no explicit inputs are given
	if c.InvoicePath == "" && c.PackingListPath == "" {
		if c.Directory == "" {
			return errors.New("input directory cannot be empty")
		}
		if info, err := os.Stat(c.Directory); err != nil {
			return fmt.Errorf("cannot access input directory %s: %w", c.Directory, err)
		} else if !info.IsDir() {
			return fmt.Errorf("input directory is not a directory: %s", c.Directory)
		}
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Invoice: %s, PackingList: %s, Directory: %s, Output: %s, LogLevel: %s, MaxFileSize: %d, Strict: %t}",
		c.Mode, c.InvoicePath, c.PackingListPath, c.Directory, c.OutputPath, c.LogLevel, c.MaxFileSize, c.Strict)
}

// IsConvertMode returns true when running a one-shot conversion
func (c *Config) IsConvertMode() bool {
	return c.Mode == ModeConvert
}

// IsServerMode returns true if the server is running in HTTP server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
