package cmd

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/serroba/editops/internal/collab"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "editops"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	envPrefix = "EDITOPS"

	formatFlagName     = "format"
	verboseFlagName    = "verbose"
	logFileFlagName    = "log-file"
	addrFlagName       = "addr"
	adjustFlagName     = "adjust"
	insertOnlyFlagName = "insert-only"
	inputTextFlagName  = "input-text"
	parallelFlagName   = "parallel"
	batchFlagName      = "batch"
	inputFlagName      = "input"
	previewFlagName    = "preview"
	colorFlagName      = "color"

	outputFormatKey = "output.format"

	serverAddrKey              = "server.addr"
	serverReadHeaderTimeoutKey = "server.read_header_timeout"
	serverShutdownTimeoutKey   = "server.shutdown_timeout"
	serverMaxTextLengthKey     = "server.max_text_length"

	diffAdjustKey           = "diff.adjust"
	diffInsertOnlyKey       = "diff.insert_only"
	diffIncludeInputTextKey = "diff.include_input_text"
	diffParallelKey         = "diff.parallel"

	defaultOutputFormat      = formatText
	defaultServerAddr        = ":8080"
	defaultReadHeaderTimeout = 10 * time.Second
	defaultShutdownTimeout   = 5 * time.Second
	defaultDiffParallel      = 4

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	// stderrLogFilename sends logs to standard error instead of a rotating file.
	stderrLogFilename = "-"

	defaultLogFilename   = stderrLogFilename
	defaultLogLevel      = int(slog.LevelInfo)
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var globalLogger *slog.Logger

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(outputFormatKey, defaultOutputFormat)

	viper.SetDefault(serverAddrKey, defaultServerAddr)
	viper.SetDefault(serverReadHeaderTimeoutKey, defaultReadHeaderTimeout)
	viper.SetDefault(serverShutdownTimeoutKey, defaultShutdownTimeout)
	viper.SetDefault(serverMaxTextLengthKey, collab.DefaultMaxTextLength)

	defaults := collab.DefaultDiffSettings()
	viper.SetDefault(diffAdjustKey, defaults.Adjust)
	viper.SetDefault(diffInsertOnlyKey, defaults.InsertOnly)
	viper.SetDefault(diffIncludeInputTextKey, defaults.IncludeInputText)
	viper.SetDefault(diffParallelKey, defaultDiffParallel)

	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return
		}

		return
	}
}

// diffSettings reads the diff options from flags, env and config.
func diffSettings() collab.DiffSettings {
	return collab.DiffSettings{
		IncludeInputText: viper.GetBool(diffIncludeInputTextKey),
		Adjust:           viper.GetBool(diffAdjustKey),
		InsertOnly:       viper.GetBool(diffInsertOnlyKey),
	}
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Numeric slog levels are accepted too (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger configures the global slog logger.
//
// By default it logs at Info; if verbose is true it logs at Debug.
// A logPath of "-" logs to standard error.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	var logLevel slog.Level
	if verbose {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	var logWriter io.Writer = os.Stderr
	if logPath != stderrLogFilename {
		logWriter = &lumberjack.Logger{
			Filename:   logPath,
			MaxSize:    viper.GetInt(logMaxSizeKey),
			MaxBackups: viper.GetInt(logMaxBackupsKey),
			MaxAge:     viper.GetInt(logMaxAgeKey),
			Compress:   viper.GetBool(logCompressKey),
		}
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}
