// Copyright 2023 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package logger wraps log/slog with the severity vocabulary the cache
// components are specified against (TRACE, DEBUG, INFO, WARNING, ERROR,
// OFF), optional JSON or text output, and optional file rotation.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/bakecache/bakecache/cfg"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Custom slog levels. DEBUG/INFO/WARN/ERROR reuse slog's own constants;
// TRACE and OFF extend the range below and above them respectively.
const (
	LevelTrace = slog.Level(-8)
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
	LevelOff   = slog.Level(12)
)

var levelNames = map[slog.Level]string{
	LevelTrace: "TRACE",
	LevelWarn:  "WARNING",
	LevelOff:   "OFF",
}

func severityToLevel(severity cfg.LogSeverity) slog.Level {
	switch severity {
	case cfg.TraceLogSeverity:
		return LevelTrace
	case cfg.DebugLogSeverity:
		return LevelDebug
	case cfg.InfoLogSeverity:
		return LevelInfo
	case cfg.WarningLogSeverity:
		return LevelWarn
	case cfg.ErrorLogSeverity:
		return LevelError
	case cfg.OffLogSeverity:
		return LevelOff
	default:
		return LevelInfo
	}
}

// loggerFactory owns the handler construction so tests can redirect output
// and inspect the effective configuration without touching global state
// directly.
type loggerFactory struct {
	format  string
	level   slog.Level
	rotator *lumberjack.Logger
	prefix  string
}

func newDefaultLoggerFactory() *loggerFactory {
	return &loggerFactory{format: "text", level: LevelInfo}
}

var defaultLoggerFactory = newDefaultLoggerFactory()

var defaultLogger = slog.New(defaultLoggerFactory.createJsonOrTextHandler(os.Stderr, new(slog.LevelVar), ""))

// InitLogFile (re)configures the package-wide logger from a resolved logging
// configuration. An empty FilePath keeps logging on stderr.
func InitLogFile(logConfig cfg.LoggingConfig) error {
	factory := &loggerFactory{
		format: logConfig.Format,
		level:  severityToLevel(logConfig.Severity),
	}

	var writer io.Writer = os.Stderr
	if logConfig.FilePath != "" {
		factory.rotator = &lumberjack.Logger{
			Filename:   logConfig.FilePath,
			MaxSize:    logConfig.LogRotate.MaxFileSizeMb,
			MaxBackups: logConfig.LogRotate.BackupFileCount,
			Compress:   logConfig.LogRotate.Compress,
		}
		writer = factory.rotator
	}

	programLevel := new(slog.LevelVar)
	programLevel.Set(factory.level)
	defaultLoggerFactory = factory
	defaultLogger = slog.New(factory.createJsonOrTextHandler(writer, programLevel, ""))
	return nil
}

func setLoggingLevel(severity cfg.LogSeverity, programLevel *slog.LevelVar) {
	programLevel.Set(severityToLevel(severity))
}

func (f *loggerFactory) replaceAttr(groups []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.LevelKey:
		level, _ := a.Value.Any().(slog.Level)
		if name, ok := levelNames[level]; ok {
			a.Value = slog.StringValue(name)
		}
		a.Key = "severity"
	case slog.MessageKey:
		a.Key = "message"
		if f.prefix != "" {
			a.Value = slog.StringValue(f.prefix + a.Value.String())
		}
	case slog.TimeKey:
		if f.format == "text" {
			a.Value = slog.StringValue(a.Value.Time().Format(time.RFC3339Nano))
		} else {
			a.Key = "timestamp"
		}
	}
	return a
}

func (f *loggerFactory) createJsonOrTextHandler(w io.Writer, level slog.Leveler, prefix string) slog.Handler {
	f.prefix = prefix
	opts := &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: f.replaceAttr,
	}
	if f.format == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

func Tracef(format string, v ...interface{}) {
	defaultLogger.Log(context.Background(), LevelTrace, fmt.Sprintf(format, v...))
}

func Debugf(format string, v ...interface{}) {
	defaultLogger.Debug(fmt.Sprintf(format, v...))
}

func Infof(format string, v ...interface{}) {
	defaultLogger.Info(fmt.Sprintf(format, v...))
}

func Warnf(format string, v ...interface{}) {
	defaultLogger.Warn(fmt.Sprintf(format, v...))
}

func Errorf(format string, v ...interface{}) {
	defaultLogger.Error(fmt.Sprintf(format, v...))
}
