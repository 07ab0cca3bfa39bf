package logging

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type impl struct {
	name      string
	level     AtomicLevel
	inUTC     bool
	appenders []Appender
	// testHelper is tb.Helper for test loggers, so tb.Log attributes lines to the code that logged
	// rather than to this file. Every frame between a public method and the appender calls it.
	testHelper func()
}

// callerSkip counts the frames between runtime.Caller in getCaller and the code that called a
// public logging method: getCaller, newEntry, the print helper and the public method itself.
const callerSkip = 4

func (imp *impl) AddAppender(appender Appender) {
	imp.appenders = append(imp.appenders, appender)
}

// Desugar exposes the logger's appenders as a zap logger, for libraries that want one.
func (imp *impl) Desugar() *zap.Logger {
	cores := make([]zapcore.Core, 0, len(imp.appenders))
	for _, appender := range imp.appenders {
		if core, ok := appender.(zapcore.Core); ok {
			cores = append(cores, core)
			continue
		}
		cores = append(cores, &appenderCore{appender: appender, level: imp.level})
	}
	return zap.New(zapcore.NewTee(cores...)).Named(imp.name)
}

func (imp *impl) SetLevel(level Level) {
	imp.level.Set(level)
}

func (imp *impl) GetLevel() Level {
	return imp.level.Get()
}

// Sublogger starts with the parent's appenders but gets its own level, seeded from the parent's.
// Appenders added to either logger afterwards are not shared.
func (imp *impl) Sublogger(subname string) Logger {
	name := subname
	if imp.name != "" {
		name = imp.name + "." + subname
	}
	return &impl{
		name:       name,
		level:      NewAtomicLevelAt(imp.level.Get()),
		inUTC:      imp.inUTC,
		appenders:  append([]Appender{}, imp.appenders...),
		testHelper: imp.testHelper,
	}
}

func (imp *impl) Sync() error {
	var errs error
	for _, appender := range imp.appenders {
		errs = multierr.Append(errs, appender.Sync())
	}
	return errs
}

// enabled reports whether a message at level should be written. forced lets a message through
// regardless of the logger's level; the CDebug methods force it for contexts in debug mode.
func (imp *impl) enabled(level Level, forced bool) bool {
	return forced || level >= imp.level.Get()
}

func (imp *impl) newEntry(level Level, msg string) zapcore.Entry {
	entry := zapcore.Entry{
		Level:      level.AsZap(),
		Time:       time.Now(),
		LoggerName: imp.name,
		Message:    msg,
		Caller:     getCaller(),
	}
	if imp.inUTC {
		entry.Time = entry.Time.UTC()
	}
	return entry
}

func (imp *impl) write(entry zapcore.Entry, fields []zapcore.Field) {
	imp.testHelper()
	for _, appender := range imp.appenders {
		if err := appender.Write(entry, fields); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}

func (imp *impl) print(level Level, forced bool, args []interface{}) {
	imp.testHelper()
	if !imp.enabled(level, forced) {
		return
	}
	imp.write(imp.newEntry(level, fmt.Sprint(args...)), nil)
}

func (imp *impl) printf(level Level, forced bool, template string, args []interface{}) {
	imp.testHelper()
	if !imp.enabled(level, forced) {
		return
	}
	imp.write(imp.newEntry(level, fmt.Sprintf(template, args...)), nil)
}

func (imp *impl) printw(level Level, forced bool, msg string, keysAndValues []interface{}) {
	imp.testHelper()
	if !imp.enabled(level, forced) {
		return
	}
	fields := pairsToFields(keysAndValues)
	imp.write(imp.newEntry(level, msg), fields)
}

// pairsToFields turns alternating keys and values into zap fields, keeping their order. Values
// are JSON encoded by the appenders, so only exported struct fields show up.
func pairsToFields(keysAndValues []interface{}) []zapcore.Field {
	fields := make([]zapcore.Field, 0, (len(keysAndValues)+1)/2)
	for i := 0; i < len(keysAndValues); i += 2 {
		key := fmt.Sprint(keysAndValues[i])
		if i+1 == len(keysAndValues) {
			fields = append(fields, zap.Any(key, errors.New("unpaired log key")))
			break
		}
		fields = append(fields, zap.Any(key, keysAndValues[i+1]))
	}
	return fields
}

func (imp *impl) Debug(args ...interface{}) {
	imp.testHelper()
	imp.print(DEBUG, false, args)
}

func (imp *impl) CDebug(ctx context.Context, args ...interface{}) {
	imp.testHelper()
	imp.print(DEBUG, IsDebugMode(ctx), args)
}

func (imp *impl) Debugf(template string, args ...interface{}) {
	imp.testHelper()
	imp.printf(DEBUG, false, template, args)
}

func (imp *impl) CDebugf(ctx context.Context, template string, args ...interface{}) {
	imp.testHelper()
	imp.printf(DEBUG, IsDebugMode(ctx), template, args)
}

func (imp *impl) Debugw(msg string, keysAndValues ...interface{}) {
	imp.testHelper()
	imp.printw(DEBUG, false, msg, keysAndValues)
}

func (imp *impl) CDebugw(ctx context.Context, msg string, keysAndValues ...interface{}) {
	imp.testHelper()
	imp.printw(DEBUG, IsDebugMode(ctx), msg, keysAndValues)
}

func (imp *impl) Info(args ...interface{}) {
	imp.testHelper()
	imp.print(INFO, false, args)
}

func (imp *impl) Infof(template string, args ...interface{}) {
	imp.testHelper()
	imp.printf(INFO, false, template, args)
}

func (imp *impl) Infow(msg string, keysAndValues ...interface{}) {
	imp.testHelper()
	imp.printw(INFO, false, msg, keysAndValues)
}

func (imp *impl) Warn(args ...interface{}) {
	imp.testHelper()
	imp.print(WARN, false, args)
}

func (imp *impl) Warnf(template string, args ...interface{}) {
	imp.testHelper()
	imp.printf(WARN, false, template, args)
}

func (imp *impl) Warnw(msg string, keysAndValues ...interface{}) {
	imp.testHelper()
	imp.printw(WARN, false, msg, keysAndValues)
}

func (imp *impl) Error(args ...interface{}) {
	imp.testHelper()
	imp.print(ERROR, false, args)
}

func (imp *impl) Errorf(template string, args ...interface{}) {
	imp.testHelper()
	imp.printf(ERROR, false, template, args)
}

func (imp *impl) Errorw(msg string, keysAndValues ...interface{}) {
	imp.testHelper()
	imp.printw(ERROR, false, msg, keysAndValues)
}

// The Fatal methods log at error level then exit the process.
func (imp *impl) Fatal(args ...interface{}) {
	imp.testHelper()
	imp.print(ERROR, true, args)
	os.Exit(1)
}

func (imp *impl) Fatalf(template string, args ...interface{}) {
	imp.testHelper()
	imp.printf(ERROR, true, template, args)
	os.Exit(1)
}

func (imp *impl) Fatalw(msg string, keysAndValues ...interface{}) {
	imp.testHelper()
	imp.printw(ERROR, true, msg, keysAndValues)
	os.Exit(1)
}

// getCaller locates the code that called the public logging method, e.g. "motionplan/local.go:97".
func getCaller() zapcore.EntryCaller {
	var caller zapcore.EntryCaller
	var ok bool
	caller.PC, caller.File, caller.Line, ok = runtime.Caller(callerSkip)
	if !ok {
		return caller
	}
	caller.Defined = true
	if fn := runtime.FuncForPC(caller.PC); fn != nil {
		caller.Function = fn.Name()
	}
	return caller
}

// appenderCore lets plain appenders participate in a desugared zap logger.
type appenderCore struct {
	appender Appender
	level    AtomicLevel
	fields   []zapcore.Field
}

func (c *appenderCore) Enabled(level zapcore.Level) bool {
	return level >= c.level.Get().AsZap()
}

func (c *appenderCore) With(fields []zapcore.Field) zapcore.Core {
	return &appenderCore{appender: c.appender, level: c.level, fields: append(append([]zapcore.Field{}, c.fields...), fields...)}
}

func (c *appenderCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

func (c *appenderCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	return c.appender.Write(entry, append(append([]zapcore.Field{}, c.fields...), fields...))
}

func (c *appenderCore) Sync() error {
	return c.appender.Sync()
}
