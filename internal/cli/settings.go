package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/yolodolo42/testwallet/internal/adapter"
	"github.com/yolodolo42/testwallet/internal/keypair"
	"github.com/yolodolo42/testwallet/internal/session"
	"github.com/yolodolo42/testwallet/internal/ui"
	"github.com/yolodolo42/testwallet/internal/wallet"
)

// settings is the resolved configuration for one command run
type settings struct {
	DataDir     string
	KeypairPath string
	Name        string
	URL         string
	Icon        string
	ReadyState  adapter.ReadyState
	Strategy    wallet.StrategyType
	LogLevel    zerolog.Level
	SessionLog  bool
}

func loadSettings(v *viper.Viper) (settings, error) {
	s := settings{
		DataDir:     v.GetString("data-dir"),
		KeypairPath: v.GetString("keypair"),
		Name:        v.GetString("name"),
		URL:         v.GetString("url"),
		Icon:        v.GetString("icon"),
		SessionLog:  v.GetBool("session-log"),
	}
	if s.DataDir == "" {
		s.DataDir = defaultDataDir()
	}

	rs := v.GetString("ready-state")
	if rs == "" {
		rs = adapter.ReadyStateLoadable.String()
	}
	readyState, err := adapter.ParseReadyState(rs)
	if err != nil {
		return s, err
	}
	s.ReadyState = readyState

	switch st := wallet.StrategyType(v.GetString("strategy")); st {
	case "", wallet.StrategyTypeStatic:
		s.Strategy = wallet.StrategyTypeStatic
	case wallet.StrategyTypeConfirm:
		s.Strategy = st
	default:
		return s, fmt.Errorf("unknown strategy %q (use %s or %s)", st, wallet.StrategyTypeStatic, wallet.StrategyTypeConfirm)
	}

	lvl := v.GetString("log-level")
	if lvl == "" {
		lvl = "info"
	}
	s.LogLevel, err = zerolog.ParseLevel(lvl)
	if err != nil {
		return s, fmt.Errorf("invalid log level %q: %w", lvl, err)
	}
	return s, nil
}

func newLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// keySource picks where the wallet's key pair comes from: the configured
// keypair file, or a fresh key generated on first use.
func (s settings) keySource() keypair.Source {
	if s.KeypairPath == "" {
		return keypair.Generated()
	}
	path := s.KeypairPath
	return keypair.Lazy(func(context.Context) (*keypair.KeyPair, error) {
		return keypair.ReadFile(path)
	})
}

// buildStrategy returns the signing strategy. Confirm prompts on the
// terminal, so it needs in and out to be usable.
func (s settings) buildStrategy(in io.Reader, out io.Writer, interactive bool) (wallet.Strategy, error) {
	base := wallet.NewBaseStrategy(s.keySource())
	if s.Strategy != wallet.StrategyTypeConfirm {
		return base, nil
	}
	if !interactive {
		return nil, ui.ErrNotInteractive
	}
	return wallet.NewConfirmStrategy(base, &ui.TerminalConfirmer{In: in, Out: out}), nil
}

// env bundles what a command needs to run against a wallet
type env struct {
	adapter  *adapter.Adapter
	recorder *session.Recorder
	log      zerolog.Logger
}

func (e *env) Close() {
	if e.recorder != nil {
		e.recorder.Close()
	}
}

type ioStreams struct {
	In          io.Reader
	Out         io.Writer
	Err         io.Writer
	Interactive bool
}

func defaultStreams(out io.Writer) ioStreams {
	return ioStreams{In: os.Stdin, Out: out, Err: os.Stderr, Interactive: ui.IsInteractive()}
}

func newEnv(s settings, streams ioStreams) (*env, error) {
	logger := newLogger(streams.Err, s.LogLevel)

	strategy, err := s.buildStrategy(streams.In, streams.Out, streams.Interactive)
	if err != nil {
		return nil, err
	}

	a, err := adapter.New(adapter.Config{
		Strategy:   strategy,
		Name:       s.Name,
		URL:        s.URL,
		Icon:       s.Icon,
		ReadyState: s.ReadyState,
		Logger:     &logger,
	})
	if err != nil {
		return nil, err
	}

	e := &env{adapter: a, log: logger}
	if s.SessionLog {
		rec, err := session.Open(s.DataDir, "")
		if err != nil {
			return nil, fmt.Errorf("open session log: %w", err)
		}
		rec.Attach(a)
		e.recorder = rec
		logger.Info().Str("path", rec.Path()).Msg("recording session")
	}
	return e, nil
}

// connected builds an env and connects its wallet
func connected(ctx context.Context, s settings, streams ioStreams) (*env, error) {
	e, err := newEnv(s, streams)
	if err != nil {
		return nil, err
	}
	if err := e.adapter.Connect(ctx); err != nil {
		e.Close()
		return nil, err
	}
	return e, nil
}
