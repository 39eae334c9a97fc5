// Package logging builds the tryfix loggers used across the client.
package logging

import (
	"github.com/tryfix/log"
)

// Logger is the subset of log.Logger the client packages depend on.
type Logger interface {
	Error(message interface{}, params ...interface{})
	Info(message interface{}, params ...interface{})
	Debug(message interface{}, params ...interface{})
	Trace(message interface{}, params ...interface{})
}

var _ Logger = log.Logger(nil)

// New returns a colored logger writing at INFO, or at TRACE when verbose is set.
func New(verbose bool) log.Logger {
	level := log.WithLevel("INFO")
	if verbose {
		level = log.WithLevel("TRACE")
	}

	return log.Constructor.Log(
		log.WithColors(true),
		level,
		log.WithFilePath(verbose),
	)
}

// Nop discards every entry.
type Nop struct{}

func (Nop) Error(interface{}, ...interface{}) {}
func (Nop) Info(interface{}, ...interface{})  {}
func (Nop) Debug(interface{}, ...interface{}) {}
func (Nop) Trace(interface{}, ...interface{}) {}
