package providers

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/ejfox/dispatch-obsidian/internal/structures"
)

type TypeEnum uint8

const (
	TypeApp TypeEnum = iota
	TypeVault
	TypeDispatch
	TypeHttp
)

var logFileNames = map[TypeEnum]string{
	TypeApp:      "app",
	TypeVault:    "vault",
	TypeDispatch: "dispatch",
	TypeHttp:     "http",
}

type Logger interface {
	Errorf(t TypeEnum, format string, args ...interface{})
	Warnf(t TypeEnum, format string, args ...interface{})
	Infof(t TypeEnum, format string, args ...interface{})
	Debugf(t TypeEnum, format string, args ...interface{})
	Fatalf(t TypeEnum, format string, args ...interface{})
	Close()
}

type LogProvider struct {
	loggers map[TypeEnum]*zerolog.Logger
	files   []*os.File
}

// NewLogProvider opens one log file per channel under conf.Logger.Dir. In
// debug mode every channel also mirrors to a console writer on stderr.
func NewLogProvider(conf *structures.Config) (Logger, error) {
	level, err := zerolog.ParseLevel(conf.Logger.Level)
	if err != nil {
		return nil, err
	}

	p := &LogProvider{
		loggers: make(map[TypeEnum]*zerolog.Logger, len(logFileNames)),
	}

	for t, name := range logFileNames {
		f, err := os.OpenFile(
			filepath.Join(conf.Logger.Dir, name+".log"),
			os.O_CREATE|os.O_APPEND|os.O_WRONLY,
			fs.FileMode(conf.Logger.Mode),
		)
		if err != nil {
			p.Close()
			return nil, err
		}
		p.files = append(p.files, f)

		var w io.Writer = f
		if conf.Debug {
			w = zerolog.MultiLevelWriter(f, zerolog.ConsoleWriter{Out: os.Stderr})
		}
		l := zerolog.New(w).Level(level).With().Timestamp().Str("channel", name).Logger()
		p.loggers[t] = &l
	}

	return p, nil
}

func (p *LogProvider) Errorf(t TypeEnum, format string, args ...interface{}) {
	p.loggers[t].Error().Msgf(format, args...)
}

func (p *LogProvider) Warnf(t TypeEnum, format string, args ...interface{}) {
	p.loggers[t].Warn().Msgf(format, args...)
}

func (p *LogProvider) Infof(t TypeEnum, format string, args ...interface{}) {
	p.loggers[t].Info().Msgf(format, args...)
}

func (p *LogProvider) Debugf(t TypeEnum, format string, args ...interface{}) {
	p.loggers[t].Debug().Msgf(format, args...)
}

func (p *LogProvider) Fatalf(t TypeEnum, format string, args ...interface{}) {
	p.loggers[t].Fatal().Msgf(format, args...)
}

func (p *LogProvider) Close() {
	for _, f := range p.files {
		_ = f.Close()
	}
}
