package app

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// prompter asks the user for input. Passwords are read without echo when the
// input is a terminal.
type prompter struct {
	in       *bufio.Reader
	out      io.Writer
	password func() (string, error)
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	p := &prompter{in: bufio.NewReader(in), out: out}

	p.password = func() (string, error) { return p.line() }

	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.password = func() (string, error) {
			raw, err := term.ReadPassword(int(f.Fd()))
			_, _ = fmt.Fprintln(out)

			return string(raw), err
		}
	}

	return p
}

func (p *prompter) ask(label string) (string, error) {
	_, _ = fmt.Fprint(p.out, label)
	return p.line()
}

func (p *prompter) askPassword(label string) (string, error) {
	_, _ = fmt.Fprint(p.out, label)
	return p.password()
}

func (p *prompter) line() (string, error) {
	s, err := p.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || s == "") {
		return "", err
	}

	return strings.TrimRight(s, "\r\n"), nil
}
