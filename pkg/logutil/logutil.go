// Package logutil implements various log utilities.
package logutil

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var DefaultLogLevel = "info"

// GetDefaultZapLoggerConfig returns a new default zap logger configuration.
func GetDefaultZapLoggerConfig() zap.Config {
	return zap.Config{
		Level: zap.NewAtomicLevelAt(ConvertToZapLevel(DefaultLogLevel)),

		Development: false,
		Sampling: &zap.SamplingConfig{
			Initial:    100,
			Thereafter: 100,
		},

		Encoding: "json",

		// copied from "zap.NewProductionEncoderConfig" with some updates
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},

		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
}

// AddOutputPaths adds output paths to the existing output paths, resolving conflicts.
func AddOutputPaths(lcfg zap.Config, outputPaths, errorOutputPaths []string) zap.Config {
	outs := make(map[string]struct{})
	for _, v := range lcfg.OutputPaths {
		outs[v] = struct{}{}
	}
	for _, v := range outputPaths {
		outs[v] = struct{}{}
	}
	allOutputPaths := make([]string, 0, len(outs))
	for v := range outs {
		allOutputPaths = append(allOutputPaths, v)
	}
	sort.Strings(allOutputPaths)
	lcfg.OutputPaths = allOutputPaths

	errOuts := make(map[string]struct{})
	for _, v := range lcfg.ErrorOutputPaths {
		errOuts[v] = struct{}{}
	}
	for _, v := range errorOutputPaths {
		errOuts[v] = struct{}{}
	}
	allErrOutputPaths := make([]string, 0, len(errOuts))
	for v := range errOuts {
		allErrOutputPaths = append(allErrOutputPaths, v)
	}
	sort.Strings(allErrOutputPaths)
	lcfg.ErrorOutputPaths = allErrOutputPaths

	return lcfg
}

// ConvertToZapLevel converts log level string to zapcore.Level.
func ConvertToZapLevel(lvl string) zapcore.Level {
	switch lvl {
	case "debug":
		return zap.DebugLevel
	case "info":
		return zap.InfoLevel
	case "warn":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	case "dpanic":
		return zap.DPanicLevel
	case "panic":
		return zap.PanicLevel
	case "fatal":
		return zap.FatalLevel
	default:
		panic(fmt.Sprintf("unknown log level %q", lvl))
	}
}
