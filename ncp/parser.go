package ncp

import (
	"bufio"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

var (
	// ErrMalformedValue is returned when an argument's value is not a number.
	ErrMalformedValue = errors.New("malformed value")

	// ErrNoOpenCommand is returned when an argument appears before any G or M
	// directive has been seen.
	ErrNoOpenCommand = errors.New("no open command")
)

// MaxValue bounds the magnitude of an argument, in millimeters. Larger values
// cannot be carried to three decimals in a float64 or to micrometers in an
// int64.
const MaxValue = 1e9

type Option func(p *parser)

// WithLogger sets the logger used to report skipped lines.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(p *parser) {
		p.log = log
	}
}

// parser carries the directive of the last emitted command from one numbered
// record to the next; that is all the state a record needs.
type parser struct {
	log        *zap.SugaredLogger
	line       int    // physical line, 1-based
	carried    string // directive token of the last emitted command
	hasCarried bool
	cmds       []Command
}

func newParser(opts []Option) *parser {
	p := &parser{
		log: zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses raw NCP lines into a program. Lines may or may not carry a
// trailing newline.
func Parse(lines []string, opts ...Option) (Program, error) {
	p := newParser(opts)
	for _, raw := range lines {
		err := p.parseLine(raw)
		if err != nil {
			return Program{}, err
		}
	}
	return Program{Commands: p.cmds}, nil
}

// ParseReader parses NCP text read from r.
func ParseReader(r io.Reader, opts ...Option) (Program, error) {
	p := newParser(opts)
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for s.Scan() {
		err := p.parseLine(s.Text())
		if err != nil {
			return Program{}, err
		}
	}
	if err := s.Err(); err != nil {
		return Program{}, errors.Wrapf(err, "line %d", p.line+1)
	}
	return Program{Commands: p.cmds}, nil
}

func (p *parser) parseLine(raw string) error {
	p.line += 1
	raw = strings.TrimRight(raw, "\r\n")

	if strings.HasPrefix(raw, "%") {
		// Comments are ignored.
		return nil
	}
	if !strings.HasPrefix(raw, "N") {
		if raw != "" {
			p.log.Debugw("skipping unsupported line", "line", p.line, "text", raw)
		}
		return nil
	}

	parts := strings.Split(raw, " ")
	// Line numbers are not cross-referenced.
	parts = parts[1:]

	var cur *Command
	for _, part := range parts {
		if part == "" {
			continue
		}

		if part[0] == 'G' || part[0] == 'M' {
			if cur != nil {
				p.emit(*cur)
			}
			cmd := newCommand(part)
			cur = &cmd
			continue
		}

		if cur == nil {
			if !p.hasCarried {
				return errors.WithHint(
					errors.Wrapf(ErrNoOpenCommand, "line %d: %s", p.line, part),
					"the first numbered record must start with a G or M directive")
			}
			cmd := newCommand(p.carried)
			cur = &cmd
		}

		val, err := strconv.ParseFloat(part[1:], 64)
		if err != nil || math.IsNaN(val) || math.IsInf(val, 0) {
			return errors.Wrapf(ErrMalformedValue, "line %d: %s", p.line, part)
		}
		if math.Abs(val) > MaxValue {
			return errors.WithHintf(
				errors.Wrapf(ErrMalformedValue, "line %d: %s", p.line, part),
				"values must be within ±%g mm", float64(MaxValue))
		}
		cur.Args[part[0]] = val
	}

	if cur != nil {
		p.emit(*cur)
	}
	return nil
}

func (p *parser) emit(cmd Command) {
	if cmd.Kind == Unknown {
		p.log.Debugw("unknown directive", "line", p.line, "code", cmd.Code)
	}
	p.cmds = append(p.cmds, cmd)
	p.carried = cmd.Code
	p.hasCarried = true
}
