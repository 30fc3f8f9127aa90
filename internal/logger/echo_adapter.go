package logger

import (
	"fmt"
	"io"
	"sync/atomic"

	echo_log "github.com/labstack/gommon/log"
)

// EchoLoggerAdapter adapts Logger to the echo.Logger interface so framework
// messages go through the central logger.
//
//	e := echo.New()
//	e.Logger = logger.NewEchoLoggerAdapter(central.Module("echo"))
type EchoLoggerAdapter struct {
	logger Logger
	level  atomic.Uint32
}

// NewEchoLoggerAdapter creates a new Echo logger adapter
func NewEchoLoggerAdapter(log Logger) *EchoLoggerAdapter {
	if log == nil {
		log = NewSlogLogger(nil, LogLevelInfo, nil)
	}
	a := &EchoLoggerAdapter{logger: log}
	a.level.Store(uint32(echo_log.INFO))
	return a
}

// Output returns io.Discard; output is managed by the central logger.
func (a *EchoLoggerAdapter) Output() io.Writer {
	return io.Discard
}

func (a *EchoLoggerAdapter) SetOutput(_ io.Writer) {}

func (a *EchoLoggerAdapter) Prefix() string {
	return ""
}

func (a *EchoLoggerAdapter) SetPrefix(_ string) {}

// Level returns the minimum level echo messages are forwarded at.
func (a *EchoLoggerAdapter) Level() echo_log.Lvl {
	return echo_log.Lvl(a.level.Load())
}

// SetLevel filters echo messages below lvl before they reach the logger.
func (a *EchoLoggerAdapter) SetLevel(lvl echo_log.Lvl) {
	a.level.Store(uint32(lvl))
}

func (a *EchoLoggerAdapter) SetHeader(_ string) {}

func (a *EchoLoggerAdapter) enabled(lvl echo_log.Lvl) bool {
	return lvl >= a.Level()
}

func (a *EchoLoggerAdapter) Print(i ...any) {
	a.logger.Info(fmt.Sprint(i...))
}

func (a *EchoLoggerAdapter) Printf(format string, args ...any) {
	a.logger.Info(fmt.Sprintf(format, args...))
}

func (a *EchoLoggerAdapter) Printj(j echo_log.JSON) {
	a.logger.Info("echo", Any("data", j))
}

func (a *EchoLoggerAdapter) Debug(i ...any) {
	if a.enabled(echo_log.DEBUG) {
		a.logger.Debug(fmt.Sprint(i...))
	}
}

func (a *EchoLoggerAdapter) Debugf(format string, args ...any) {
	if a.enabled(echo_log.DEBUG) {
		a.logger.Debug(fmt.Sprintf(format, args...))
	}
}

func (a *EchoLoggerAdapter) Debugj(j echo_log.JSON) {
	if a.enabled(echo_log.DEBUG) {
		a.logger.Debug("echo", Any("data", j))
	}
}

func (a *EchoLoggerAdapter) Info(i ...any) {
	if a.enabled(echo_log.INFO) {
		a.logger.Info(fmt.Sprint(i...))
	}
}

func (a *EchoLoggerAdapter) Infof(format string, args ...any) {
	if a.enabled(echo_log.INFO) {
		a.logger.Info(fmt.Sprintf(format, args...))
	}
}

func (a *EchoLoggerAdapter) Infoj(j echo_log.JSON) {
	if a.enabled(echo_log.INFO) {
		a.logger.Info("echo", Any("data", j))
	}
}

func (a *EchoLoggerAdapter) Warn(i ...any) {
	if a.enabled(echo_log.WARN) {
		a.logger.Warn(fmt.Sprint(i...))
	}
}

func (a *EchoLoggerAdapter) Warnf(format string, args ...any) {
	if a.enabled(echo_log.WARN) {
		a.logger.Warn(fmt.Sprintf(format, args...))
	}
}

func (a *EchoLoggerAdapter) Warnj(j echo_log.JSON) {
	if a.enabled(echo_log.WARN) {
		a.logger.Warn("echo", Any("data", j))
	}
}

func (a *EchoLoggerAdapter) Error(i ...any) {
	a.logger.Error(fmt.Sprint(i...))
}

func (a *EchoLoggerAdapter) Errorf(format string, args ...any) {
	a.logger.Error(fmt.Sprintf(format, args...))
}

func (a *EchoLoggerAdapter) Errorj(j echo_log.JSON) {
	a.logger.Error("echo", Any("data", j))
}

// Fatal logs at ERROR; the process is not terminated.
func (a *EchoLoggerAdapter) Fatal(i ...any) {
	a.logger.Error(fmt.Sprint(i...), Bool("fatal", true))
}

func (a *EchoLoggerAdapter) Fatalf(format string, args ...any) {
	a.logger.Error(fmt.Sprintf(format, args...), Bool("fatal", true))
}

func (a *EchoLoggerAdapter) Fatalj(j echo_log.JSON) {
	a.logger.Error("echo", Any("data", j), Bool("fatal", true))
}

// Panic logs at ERROR and panics with the message.
func (a *EchoLoggerAdapter) Panic(i ...any) {
	msg := fmt.Sprint(i...)
	a.logger.Error(msg, Bool("panic", true))
	panic(msg)
}

func (a *EchoLoggerAdapter) Panicf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	a.logger.Error(msg, Bool("panic", true))
	panic(msg)
}

func (a *EchoLoggerAdapter) Panicj(j echo_log.JSON) {
	a.logger.Error("echo", Any("data", j), Bool("panic", true))
	panic(fmt.Sprint(j))
}
