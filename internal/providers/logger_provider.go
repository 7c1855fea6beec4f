package providers

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"rvd/internal/structures"
)

type TypeEnum int

const (
	TypeApp TypeEnum = iota
	TypeGet
	TypePost
	TypeBot
)

type Logger interface {
	Debugf(t TypeEnum, format string, args ...interface{})
	Infof(t TypeEnum, format string, args ...interface{})
	Warnf(t TypeEnum, format string, args ...interface{})
	Errorf(t TypeEnum, format string, args ...interface{})
	Fatalf(t TypeEnum, format string, args ...interface{})
	Close()
}

func GetLogTypeByRequestType(method string) TypeEnum {
	if method == "POST" {
		return TypePost
	}
	return TypeGet
}

type LogProvider struct {
	loggers map[TypeEnum]zerolog.Logger
	files   []*os.File
}

// NewLogProvider creates per-type zerolog loggers backed by files inside
// conf.Logger.Dir: app.log for lifecycle events, access.log for the ops API,
// bot.log for transport traffic. In debug mode everything is mirrored to a
// console writer.
func NewLogProvider(conf *structures.Config) (Logger, error) {
	level, err := zerolog.ParseLevel(conf.Logger.Level)
	if err != nil {
		return nil, err
	}

	p := &LogProvider{loggers: make(map[TypeEnum]zerolog.Logger)}

	appFile, err := p.openLogFile(conf, "app.log")
	if err != nil {
		return nil, err
	}
	accessFile, err := p.openLogFile(conf, "access.log")
	if err != nil {
		p.Close()
		return nil, err
	}
	botFile, err := p.openLogFile(conf, "bot.log")
	if err != nil {
		p.Close()
		return nil, err
	}

	p.loggers[TypeApp] = newZerolog(appFile, level, conf.Debug)
	p.loggers[TypeGet] = newZerolog(accessFile, level, conf.Debug)
	p.loggers[TypePost] = p.loggers[TypeGet]
	p.loggers[TypeBot] = newZerolog(botFile, level, conf.Debug)

	return p, nil
}

func (p *LogProvider) openLogFile(conf *structures.Config, name string) (*os.File, error) {
	file, err := os.OpenFile(
		filepath.Join(conf.Logger.Dir, name),
		os.O_CREATE|os.O_APPEND|os.O_WRONLY,
		os.FileMode(conf.Logger.Mode),
	)
	if err != nil {
		return nil, err
	}
	p.files = append(p.files, file)
	return file, nil
}

func newZerolog(w io.Writer, level zerolog.Level, debug bool) zerolog.Logger {
	if debug {
		w = zerolog.MultiLevelWriter(w, zerolog.ConsoleWriter{Out: os.Stdout})
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

func (p *LogProvider) logf(t TypeEnum, level zerolog.Level, format string, args ...interface{}) {
	l, ok := p.loggers[t]
	if !ok {
		l = p.loggers[TypeApp]
	}
	l.WithLevel(level).Msgf(format, args...)
}

func (p *LogProvider) Debugf(t TypeEnum, format string, args ...interface{}) {
	p.logf(t, zerolog.DebugLevel, format, args...)
}

func (p *LogProvider) Infof(t TypeEnum, format string, args ...interface{}) {
	p.logf(t, zerolog.InfoLevel, format, args...)
}

func (p *LogProvider) Warnf(t TypeEnum, format string, args ...interface{}) {
	p.logf(t, zerolog.WarnLevel, format, args...)
}

func (p *LogProvider) Errorf(t TypeEnum, format string, args ...interface{}) {
	p.logf(t, zerolog.ErrorLevel, format, args...)
}

// Fatalf logs at fatal level without terminating: nothing in this daemon may
// crash the process over a single event.
func (p *LogProvider) Fatalf(t TypeEnum, format string, args ...interface{}) {
	p.logf(t, zerolog.FatalLevel, format, args...)
}

func (p *LogProvider) Close() {
	for _, f := range p.files {
		_ = f.Close()
	}
	p.files = nil
}
