package logger

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type LoggerTestSuite struct {
	suite.Suite
	originalLogger *zap.Logger
	observedLogs   *observer.ObservedLogs
}

func (s *LoggerTestSuite) SetupSuite() {
	s.originalLogger = zap.L()
}

func (s *LoggerTestSuite) TearDownSuite() {
	zap.ReplaceGlobals(s.originalLogger)
}

func (s *LoggerTestSuite) SetupTest() {
	core, logs := observer.New(zap.DebugLevel)
	s.observedLogs = logs
	zap.ReplaceGlobals(zap.New(core))
}

func (s *LoggerTestSuite) TestParseLevel() {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"DEBUG":   zapcore.DebugLevel,
		" info ":  zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"Error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"loud":    zapcore.InfoLevel,
	}
	for input, want := range cases {
		s.Equal(want, ParseLevel(input), "level %q", input)
	}
}

func (s *LoggerTestSuite) TestHelpers() {
	Debug("declared queue %s", "normal")
	Info("connected to %s:%d", "localhost", 5672)
	Warn("plain message")
	Error("failed: %s", "boom")

	entries := s.observedLogs.AllUntimed()
	s.Require().Len(entries, 4)

	s.Equal(zapcore.DebugLevel, entries[0].Level)
	s.Equal("declared queue normal", entries[0].Message)
	s.Equal("connected to localhost:5672", entries[1].Message)
	s.Equal("plain message", entries[2].Message)
	s.Equal(zapcore.ErrorLevel, entries[3].Level)
	s.Equal("failed: boom", entries[3].Message)
}

func (s *LoggerTestSuite) TestWith() {
	With("connection", "task-queues-1").Info("ready")

	entries := s.observedLogs.FilterMessage("ready").All()
	s.Require().Len(entries, 1)
	s.Equal("task-queues-1", entries[0].ContextMap()["connection"])
}

func (s *LoggerTestSuite) TestInit() {
	s.Require().NoError(Init("warn", "test"))
	s.False(zap.L().Core().Enabled(zapcore.InfoLevel))
	s.True(zap.L().Core().Enabled(zapcore.WarnLevel))
}

func TestLoggerSuite(t *testing.T) {
	suite.Run(t, new(LoggerTestSuite))
}
