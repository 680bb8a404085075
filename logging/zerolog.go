// Package logging adapts zerolog to the core.Logger contract, with
// colored console output via google/goterm.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/goterm/term"
	"github.com/raykavin/tradepulse/core"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ZerologLogger adapts *zerolog.Logger to core.Logger.
type ZerologLogger struct {
	logger zerolog.Logger
}

// NewZerolog builds a ZerologLogger at the given level, with an
// optionally colored, human-readable console writer.
func NewZerolog(level, dateTimeLayout string, colored, jsonFormat bool) (*ZerologLogger, error) {
	logMode, err := zerolog.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zerolog.SetGlobalLevel(logMode)

	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		NoColor:    !colored,
		TimeFormat: dateTimeLayout,
	}
	if !jsonFormat {
		output.FormatLevel = formatLevel
		output.FormatMessage = formatMessage
		output.FormatCaller = formatCaller
		output.FormatTimestamp = func(i any) string {
			return formatTimestamp(i, dateTimeLayout)
		}
	}

	l := log.Output(output).With().CallerWithSkipFrameCount(3).Logger()
	return &ZerologLogger{logger: l}, nil
}

func (z *ZerologLogger) Debug(args ...any) { z.logger.Debug().Msg(fmt.Sprint(args...)) }
func (z *ZerologLogger) Info(args ...any)  { z.logger.Info().Msg(fmt.Sprint(args...)) }
func (z *ZerologLogger) Warn(args ...any)  { z.logger.Warn().Msg(fmt.Sprint(args...)) }
func (z *ZerologLogger) Error(args ...any) { z.logger.Error().Msg(fmt.Sprint(args...)) }

// WithFields returns a derived logger carrying the given structured
// context on every subsequent call.
func (z *ZerologLogger) WithFields(fields map[string]any) core.Logger {
	ctx := z.logger.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	l := ctx.Logger()
	return &ZerologLogger{logger: l}
}

func formatLevel(i any) string {
	levelStr, ok := i.(string)
	if !ok {
		return "UNKNOWN"
	}
	return levelColor(levelStr)
}

func levelColor(level string) string {
	switch level {
	case zerolog.LevelTraceValue:
		return term.Cyanf("[TRC]")
	case zerolog.LevelDebugValue:
		return term.Cyanf("[DBG]")
	case zerolog.LevelInfoValue:
		return term.Greenf("[INF]")
	case zerolog.LevelWarnValue:
		return term.Yellowf("[WAR]")
	case zerolog.LevelErrorValue:
		return term.Redf("[ERR]")
	default:
		return term.Whitef("[UNK]")
	}
}

func formatMessage(i any) string {
	const maxSize = 80
	msg, ok := i.(string)
	if !ok || len(msg) == 0 {
		return ">"
	}
	if len(msg) > maxSize {
		msg = msg[:maxSize]
	}
	if len(msg) < maxSize {
		msg += strings.Repeat(" ", maxSize-len(msg))
	}
	return term.Whitef("> %s", msg)
}

func formatCaller(i any) string {
	const maxFileSize = 18
	const maxLineSize = 4

	fname, ok := i.(string)
	if !ok || len(fname) == 0 {
		return ""
	}
	caller := filepath.Base(fname)
	parts := strings.Split(caller, ":")
	if len(parts) != 2 {
		return caller
	}

	fileBase, line := parts[0], parts[1]
	if len(fileBase) > maxFileSize {
		fileBase = fileBase[:maxFileSize]
	} else {
		fileBase = fmt.Sprintf("%-*s", maxFileSize, fileBase)
	}
	if len(line) > maxLineSize {
		line = line[len(line)-maxLineSize:]
	} else {
		line = fmt.Sprintf("%*s", maxLineSize, line)
	}
	return term.Yellowf("[%s:%s]", fileBase, line)
}

func formatTimestamp(i any, timeLayout string) string {
	strTime, ok := i.(string)
	if !ok {
		return term.Cyanf("[%v]", i)
	}
	ts, err := time.ParseInLocation(time.RFC3339, strTime, time.Local)
	if err != nil {
		return term.Cyanf("[%s]", strTime)
	}
	return term.Cyanf("[%s]", ts.In(time.Local).Format(timeLayout))
}

var _ core.Logger = (*ZerologLogger)(nil)
