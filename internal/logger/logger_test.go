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

package logger

import (
	"bytes"
	"log/slog"
	"regexp"
	"testing"

	"github.com/bakecache/bakecache/cfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

const (
	textTraceString   = "^time=[a-zA-Z0-9:.+-]{20,35} severity=TRACE message=www.traceExample.com"
	textDebugString   = "^time=[a-zA-Z0-9:.+-]{20,35} severity=DEBUG message=www.debugExample.com"
	textInfoString    = "^time=[a-zA-Z0-9:.+-]{20,35} severity=INFO message=www.infoExample.com"
	textWarningString = "^time=[a-zA-Z0-9:.+-]{20,35} severity=WARNING message=www.warningExample.com"
	textErrorString   = "^time=[a-zA-Z0-9:.+-]{20,35} severity=ERROR message=www.errorExample.com"
)

type LoggerTest struct {
	suite.Suite
}

func TestLoggerSuite(t *testing.T) {
	suite.Run(t, new(LoggerTest))
}

func redirectLogsToGivenBuffer(buf *bytes.Buffer, severity cfg.LogSeverity) {
	programLevel := new(slog.LevelVar)
	factory := newDefaultLoggerFactory()
	defaultLogger = slog.New(factory.createJsonOrTextHandler(buf, programLevel, ""))
	setLoggingLevel(severity, programLevel)
}

func getTestLoggingFunctions() []func() {
	return []func(){
		func() { Tracef("www.traceExample.com") },
		func() { Debugf("www.debugExample.com") },
		func() { Infof("www.infoExample.com") },
		func() { Warnf("www.warningExample.com") },
		func() { Errorf("www.errorExample.com") },
	}
}

func fetchLogOutputForSpecifiedSeverityLevel(severity cfg.LogSeverity) []string {
	var buf bytes.Buffer
	redirectLogsToGivenBuffer(&buf, severity)

	var output []string
	for _, f := range getTestLoggingFunctions() {
		f()
		output = append(output, buf.String())
		buf.Reset()
	}
	return output
}

func validateOutput(t *testing.T, expected []string, output []string) {
	for i := range output {
		if expected[i] == "" {
			assert.Equal(t, expected[i], output[i])
		} else {
			expectedRegexp := regexp.MustCompile(expected[i])
			assert.True(t, expectedRegexp.MatchString(output[i]), "got %q", output[i])
		}
	}
}

func (t *LoggerTest) TestTextFormatLogs_LogLevelOFF() {
	validateOutput(t.T(), []string{"", "", "", "", ""}, fetchLogOutputForSpecifiedSeverityLevel(cfg.OffLogSeverity))
}

func (t *LoggerTest) TestTextFormatLogs_LogLevelERROR() {
	expected := []string{"", "", "", "", textErrorString}
	validateOutput(t.T(), expected, fetchLogOutputForSpecifiedSeverityLevel(cfg.ErrorLogSeverity))
}

func (t *LoggerTest) TestTextFormatLogs_LogLevelWARNING() {
	expected := []string{"", "", "", textWarningString, textErrorString}
	validateOutput(t.T(), expected, fetchLogOutputForSpecifiedSeverityLevel(cfg.WarningLogSeverity))
}

func (t *LoggerTest) TestTextFormatLogs_LogLevelINFO() {
	expected := []string{"", "", textInfoString, textWarningString, textErrorString}
	validateOutput(t.T(), expected, fetchLogOutputForSpecifiedSeverityLevel(cfg.InfoLogSeverity))
}

func (t *LoggerTest) TestTextFormatLogs_LogLevelDEBUG() {
	expected := []string{"", textDebugString, textInfoString, textWarningString, textErrorString}
	validateOutput(t.T(), expected, fetchLogOutputForSpecifiedSeverityLevel(cfg.DebugLogSeverity))
}

func (t *LoggerTest) TestTextFormatLogs_LogLevelTRACE() {
	expected := []string{textTraceString, textDebugString, textInfoString, textWarningString, textErrorString}
	validateOutput(t.T(), expected, fetchLogOutputForSpecifiedSeverityLevel(cfg.TraceLogSeverity))
}

func (t *LoggerTest) TestSetLoggingLevel() {
	testData := []struct {
		severity cfg.LogSeverity
		want     slog.Level
	}{
		{cfg.TraceLogSeverity, LevelTrace},
		{cfg.DebugLogSeverity, LevelDebug},
		{cfg.WarningLogSeverity, LevelWarn},
		{cfg.ErrorLogSeverity, LevelError},
		{cfg.OffLogSeverity, LevelOff},
	}

	for _, test := range testData {
		programLevel := new(slog.LevelVar)
		setLoggingLevel(test.severity, programLevel)
		assert.Equal(t.T(), test.want, programLevel.Level())
	}
}

func (t *LoggerTest) TestInitLogFileDefaultsToStderrWhenPathEmpty() {
	err := InitLogFile(cfg.LoggingConfig{Severity: cfg.DebugLogSeverity, Format: "text"})

	assert.NoError(t.T(), err)
	assert.Nil(t.T(), defaultLoggerFactory.rotator)
	assert.Equal(t.T(), LevelDebug, defaultLoggerFactory.level)
}

func (t *LoggerTest) TestInitLogFileConfiguresRotation() {
	logConfig := cfg.LoggingConfig{
		FilePath: t.T().TempDir() + "/bakecache.log",
		Severity: cfg.DebugLogSeverity,
		Format:   "text",
		LogRotate: cfg.LogRotateLoggingConfig{
			MaxFileSizeMb:   100,
			BackupFileCount: 2,
			Compress:        true,
		},
	}

	err := InitLogFile(logConfig)

	assert.NoError(t.T(), err)
	assert.NotNil(t.T(), defaultLoggerFactory.rotator)
	assert.Equal(t.T(), logConfig.FilePath, defaultLoggerFactory.rotator.Filename)
	assert.Equal(t.T(), 100, defaultLoggerFactory.rotator.MaxSize)
	assert.Equal(t.T(), 2, defaultLoggerFactory.rotator.MaxBackups)
	assert.True(t.T(), defaultLoggerFactory.rotator.Compress)
}
