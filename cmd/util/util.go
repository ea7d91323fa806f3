package util

import (
	"fmt"
	"strings"

	"github.com/ValentinKolb/hKV/lib/db"
	"github.com/ValentinKolb/hKV/lib/db/engines/bolt"
	"github.com/ValentinKolb/hKV/lib/db/engines/mem"
	"github.com/ValentinKolb/hKV/lib/logger"
	"github.com/ValentinKolb/hKV/lib/serializer"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		// Add the word
		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	// Add any remaining text
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// InitConfig initializes configuration from environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("hkv")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	return viper.BindPFlags(cmd.Root().PersistentFlags())
}

// ApplyLogLevel sets the configured level on all registered loggers
func ApplyLogLevel() {
	logger.SetLevelAll(logger.ParseLevel(viper.GetString("log-level")))
}

// GetSerializer creates a serializer based on configuration
func GetSerializer() (serializer.ISerializer, error) {
	switch viper.GetString("serializer") {
	case "json":
		return serializer.NewJSONSerializer(), nil
	case "gob":
		return serializer.NewGOBSerializer(), nil
	default:
		return nil, fmt.Errorf("invalid serializer %s", viper.GetString("serializer"))
	}
}

// GetEngineFactory creates an engine factory based on configuration.
// The factory panics if the engine cannot be created, which surfaces a
// misconfiguration (e.g. an unwritable database file) at startup.
func GetEngineFactory() (db.EngineFactory, error) {
	quota := viper.GetInt64("quota")

	switch viper.GetString("backend") {
	case "mem":
		return func() db.HostKV {
			return mem.NewMemEngine(&mem.EngineOptions{QuotaBytes: quota})
		}, nil
	case "bolt":
		path := viper.GetString("path")
		if path == "" {
			return nil, fmt.Errorf("the bolt backend requires --path")
		}
		return func() db.HostKV {
			opts := bolt.DefaultOptions(path)
			opts.QuotaBytes = quota
			engine, err := bolt.NewBoltEngine(opts)
			if err != nil {
				panic(fmt.Sprintf("failed to open bolt engine: %v", err))
			}
			return engine
		}, nil
	default:
		return nil, fmt.Errorf("invalid backend %s", viper.GetString("backend"))
	}
}
