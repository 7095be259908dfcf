package cli

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/unkn0wn-root/tagtext"
	asynchook "github.com/unkn0wn-root/tagtext/hooks/async"
	"github.com/unkn0wn-root/tagtext/internal/config"
	logruslog "github.com/unkn0wn-root/tagtext/log/logrus"
	sloglog "github.com/unkn0wn-root/tagtext/log/slog"
	zaplog "github.com/unkn0wn-root/tagtext/log/zap"
	"github.com/unkn0wn-root/tagtext/memo"
	pr "github.com/unkn0wn-root/tagtext/provider"
	"github.com/unkn0wn-root/tagtext/provider/bigcache"
	"github.com/unkn0wn-root/tagtext/provider/redis"
	"github.com/unkn0wn-root/tagtext/provider/ristretto"
	"github.com/unkn0wn-root/tagtext/sloghooks"
)

// Transformer is what the shell calls into: a bare Codec or a Memo over one.
type Transformer interface {
	Encode(ctx context.Context, text string) (string, error)
	Decode(ctx context.Context, text string) (string, error)
}

type direct struct{ c *tagtext.Codec }

func (d direct) Encode(_ context.Context, text string) (string, error) { return d.c.Encode(text) }
func (d direct) Decode(_ context.Context, text string) (string, error) { return d.c.Decode(text) }

// stack is everything built from a Config that needs releasing.
type stack struct {
	t       Transformer
	closers []func() error
}

func (s *stack) close() error {
	var first error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func build(cfg config.Config, logOut io.Writer) (*stack, error) {
	s := &stack{}
	logger, hooks, err := buildLogging(cfg.Log, logOut, s)
	if err != nil {
		return nil, err
	}

	codec, err := tagtext.New(tagtext.Options{
		Logger:         logger,
		Hooks:          hooks,
		Strict:         cfg.Strict,
		Normalize:      cfg.Normalize,
		MaxDecodeRunes: cfg.MaxDecodeRunes,
	})
	if err != nil {
		_ = s.close()
		return nil, err
	}

	p, err := buildProvider(cfg.Cache)
	if err != nil {
		_ = s.close()
		return nil, err
	}
	if p == nil {
		s.t = direct{c: codec}
		return s, nil
	}

	m, err := memo.New(memo.Options{
		Codec:     codec,
		Provider:  p,
		Namespace: cfg.Cache.Namespace,
		TTL:       cfg.Cache.TTL,
		Logger:    logger,
	})
	if err != nil {
		_ = p.Close(context.Background())
		_ = s.close()
		return nil, err
	}
	s.closers = append(s.closers, func() error { return m.Close(context.Background()) })
	s.t = m
	return s, nil
}

func buildLogging(cfg config.LogConfig, w io.Writer, s *stack) (tagtext.Logger, tagtext.Hooks, error) {
	switch cfg.Backend {
	case "zap":
		lvl, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, nil, err
		}
		core := zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(w),
			lvl,
		)
		l := zap.New(core)
		s.closers = append(s.closers, func() error { _ = l.Sync(); return nil })
		return zaplog.ZapLogger{L: l}, nil, nil
	case "logrus":
		lvl, err := logrus.ParseLevel(cfg.Level)
		if err != nil {
			return nil, nil, err
		}
		l := logrus.New()
		l.SetOutput(w)
		l.SetLevel(lvl)
		return logruslog.LogrusLogger{E: logrus.NewEntry(l)}, nil, nil
	case "slog":
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, nil, err
		}
		l := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
		h := asynchook.New(sloghooks.New(l, sloghooks.Options{SubstituteEvery: 1, RejectEvery: 1}), 1, 256)
		s.closers = append(s.closers, func() error { h.Close(); return nil })
		return sloglog.Logger{L: l}, h, nil
	case "none", "":
		return nil, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown log backend %q", cfg.Backend)
	}
}

// buildProvider returns nil, nil when caching is disabled.
func buildProvider(cfg config.CacheConfig) (pr.Provider, error) {
	switch cfg.Backend {
	case "ristretto":
		p, err := ristretto.New(ristretto.Config{
			NumCounters: 10 * max(cfg.MaxCost/1024, 100),
			MaxCost:     cfg.MaxCost,
			BufferItems: 64,
		})
		if err != nil {
			return nil, err
		}
		return p, nil
	case "bigcache":
		p, err := bigcache.New(bigcache.Config{
			Shards:             16,
			LifeWindow:         cmp.Or(cfg.TTL, memo.DefaultTTL),
			MaxEntriesInWindow: 1024,
			MaxEntrySize:       512,
		})
		if err != nil {
			return nil, err
		}
		return p, nil
	case "redis":
		p, err := redis.New(redis.Config{
			Client:      goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr}),
			Prefix:      "tagtext:",
			CloseClient: true,
		})
		if err != nil {
			return nil, err
		}
		return p, nil
	case "none", "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
