package log

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/pflag"
)

// Config holds CLI flag values for log configuration. Create one with
// [NewConfig], register its flags with [Config.RegisterFlags], then build
// a handler with [Config.NewHandler] once flags have been parsed.
type Config struct {
	Level  string
	Format string
}

// NewConfig returns a Config defaulted to info/logfmt.
func NewConfig() *Config {
	return &Config{Level: "info", Format: string(FormatLogfmt)}
}

// RegisterFlags adds --log-level and --log-format flags to flags.
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.Level, "log-level", c.Level,
		"log level, one of: debug, info, warn, error")
	flags.StringVar(&c.Format, "log-format", c.Format,
		fmt.Sprintf("log format, one of: %s, %s", FormatJSON, FormatLogfmt))
}

// NewHandler builds a [slog.Handler] writing to w from the parsed flag
// values.
func (c *Config) NewHandler(w io.Writer) (slog.Handler, error) {
	return CreateHandlerWithStrings(w, c.Level, c.Format)
}
