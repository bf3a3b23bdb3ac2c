package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gitforum/gitforum.go/pkg/logger"
)

// zerologAdapter bridges the SDK's logger interface onto zerolog, so the CLI
// gets console-formatted output without the SDK depending on zerolog itself.
type zerologAdapter struct {
	log zerolog.Logger
}

var _ logger.Logger = (*zerologAdapter)(nil)

func newZerologAdapter(log zerolog.Logger) *zerologAdapter {
	return &zerologAdapter{log: log}
}

func (a *zerologAdapter) Error(msg string, args ...any) { a.emit(a.log.Error(), msg, args) }
func (a *zerologAdapter) Warn(msg string, args ...any)  { a.emit(a.log.Warn(), msg, args) }
func (a *zerologAdapter) Info(msg string, args ...any)  { a.emit(a.log.Info(), msg, args) }
func (a *zerologAdapter) Debug(msg string, args ...any) { a.emit(a.log.Debug(), msg, args) }

func (a *zerologAdapter) emit(ev *zerolog.Event, msg string, args []any) {
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		ev = ev.Interface(key, args[i+1])
	}
	ev.Msg(msg)
}
