// Package prompt reads and validates operator input line by line.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var ErrNoInput = errors.New("no more input")

// Prompter writes a prompt, reads one line and re-prompts until the line is valid.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Printf writes to the prompter output; write errors are ignored.
func (p *Prompter) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format, args...)
}

// Line returns the next line without its trailing newline.
// A final line without a newline is still returned; after that ErrNoInput.
func (p *Prompter) Line(prompt string) (string, error) {
	if prompt != "" {
		p.Printf("%s", prompt)
	}
	s, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && s != "" {
			return strings.TrimRight(s, "\r\n"), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrNoInput
		}
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimRight(s, "\r\n"), nil
}

// Ask re-prompts until parse accepts the trimmed line.
func Ask[T any](p *Prompter, prompt string, parse func(string) (T, error)) (T, error) {
	for {
		line, err := p.Line(prompt)
		if err != nil {
			var zero T
			return zero, err
		}
		v, err := parse(strings.TrimSpace(line))
		if err == nil {
			return v, nil
		}
		p.Printf("Invalid input: %v. Try again.\n", err)
	}
}

func parseInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q is not a whole number", s)
	}
	return n, nil
}

func parseFloat(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	return f, nil
}

func (p *Prompter) Int(prompt string) (int, error) {
	return Ask(p, prompt, parseInt)
}

func (p *Prompter) Float(prompt string) (float64, error) {
	return Ask(p, prompt, parseFloat)
}

// IntInRange accepts whole numbers in [low, high].
func (p *Prompter) IntInRange(prompt string, low, high int) (int, error) {
	return Ask(p, prompt, func(s string) (int, error) {
		n, err := parseInt(s)
		if err != nil {
			return 0, err
		}
		if n < low || n > high {
			return 0, fmt.Errorf("%d is outside %d..%d", n, low, high)
		}
		return n, nil
	})
}

// FloatCheck accepts numbers for which check returns nil.
func (p *Prompter) FloatCheck(prompt string, check func(float64) error) (float64, error) {
	return Ask(p, prompt, func(s string) (float64, error) {
		f, err := parseFloat(s)
		if err != nil {
			return 0, err
		}
		if err := check(f); err != nil {
			return 0, err
		}
		return f, nil
	})
}
