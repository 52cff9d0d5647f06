// Package driver runs source text through the whole pipeline against one
// persistent interpreter, which is what a REPL or script runner needs.
package driver

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/segmentio/fasthash/fnv1a"
	"github.com/zeebo/blake3"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/interpreter"
	"lox/interpreter-go/pkg/parser"
	"lox/interpreter-go/pkg/resolver"
	"lox/interpreter-go/pkg/runtime"
	"lox/interpreter-go/pkg/scanner"
)

// Program is a source unit that scanned, parsed and resolved cleanly.
type Program struct {
	Statements []ast.Stmt
	Bindings   resolver.Bindings
	// Fingerprint is the BLAKE3 digest of the source text.
	Fingerprint [32]byte
}

// Session owns a global environment shared by every unit it runs.
// A Session is not safe for concurrent use.
type Session struct {
	cfg    Config
	logger *slog.Logger
	interp *interpreter.Interpreter
	ids    *ast.IDs
	cache  *lru.Cache
}

type sessionOptions struct {
	logger  *slog.Logger
	output  io.Writer
	natives []*runtime.NativeFunctionValue
	now     func() time.Time
}

// Option customises NewSession.
type Option func(*sessionOptions)

// WithLogger sets the logger for pipeline events. Without it the session
// logs nothing.
func WithLogger(logger *slog.Logger) Option {
	return func(o *sessionOptions) { o.logger = logger }
}

// WithOutput sets the sink for print statements. The default discards.
func WithOutput(w io.Writer) Option {
	return func(o *sessionOptions) { o.output = w }
}

// WithNatives binds extra host functions as globals.
func WithNatives(natives ...*runtime.NativeFunctionValue) Option {
	return func(o *sessionOptions) { o.natives = append(o.natives, natives...) }
}

// WithClock replaces the time source behind the clock native.
func WithClock(now func() time.Time) Option {
	return func(o *sessionOptions) { o.now = now }
}

// NewLogger builds a text logger at the configured level.
func NewLogger(w io.Writer, cfg Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: cfg.Level()}))
}

// NewSession validates cfg and prepares an empty global environment.
func NewSession(cfg Config, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var o sessionOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var natives []*runtime.NativeFunctionValue
	if cfg.Natives.Clock {
		natives = append(natives, interpreter.Clock(o.now))
	}
	natives = append(natives, o.natives...)

	s := &Session{
		cfg:    cfg,
		logger: o.logger,
		ids:    &ast.IDs{},
		interp: interpreter.New(interpreter.Options{
			Output:       o.output,
			MaxCallDepth: cfg.MaxCallDepth,
			Natives:      natives,
		}),
	}
	if cfg.CacheSize > 0 {
		cache, err := lru.New(cfg.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("driver: program cache: %w", err)
		}
		s.cache = cache
	}
	return s, nil
}

// Compile scans, parses and resolves source. All three stages run even when
// an earlier one reported problems; any problem yields a *Diagnostics error.
// Clean programs are cached by source text.
func (s *Session) Compile(source string) (*Program, error) {
	key := fnv1a.HashString64(source)
	fingerprint := blake3.Sum256([]byte(source))
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			prog := cached.(*Program)
			if prog.Fingerprint == fingerprint {
				s.logger.Debug("program cache hit", "key", key)
				return prog, nil
			}
			s.logger.Debug("program cache key collision", "key", key)
		}
	}

	tokens, scanErrs := scanner.Scan(source)
	stmts, parseErrs := parser.NewWithIDs(tokens, s.ids).ParseProgram()
	bindings, resolveErrs := resolver.Resolve(stmts)

	diags := &Diagnostics{Scan: scanErrs, Parse: parseErrs, Resolve: resolveErrs}
	if diags.Len() > 0 {
		s.logger.Info("compile failed",
			"scan", len(scanErrs), "parse", len(parseErrs), "resolve", len(resolveErrs))
		return nil, diags
	}

	prog := &Program{Statements: stmts, Bindings: bindings, Fingerprint: fingerprint}
	if s.cache != nil {
		s.cache.Add(key, prog)
	}
	s.logger.Debug("compiled program",
		"tokens", len(tokens), "statements", len(stmts), "bindings", len(bindings))
	return prog, nil
}

// Execute runs a compiled program in the session's global environment.
func (s *Session) Execute(prog *Program) error {
	if prog == nil {
		return errors.New("driver: nil program")
	}
	if err := s.interp.Interpret(prog.Statements, prog.Bindings); err != nil {
		var rerr *interpreter.RuntimeError
		if errors.As(err, &rerr) {
			s.logger.Warn("runtime error", "kind", string(rerr.Kind), "line", rerr.Token.Line, "message", rerr.Message)
		} else {
			s.logger.Error("interpreter failure", "error", err)
		}
		return err
	}
	return nil
}

// Run compiles and executes one source unit. Globals defined by earlier
// units stay visible.
func (s *Session) Run(source string) error {
	prog, err := s.Compile(source)
	if err != nil {
		return err
	}
	return s.Execute(prog)
}

// Globals lists the names bound in the global environment, sorted.
func (s *Session) Globals() []string {
	return s.interp.GlobalEnvironment().Keys()
}

// CachedPrograms reports how many compiled programs are cached.
func (s *Session) CachedPrograms() int {
	if s.cache == nil {
		return 0
	}
	return s.cache.Len()
}
