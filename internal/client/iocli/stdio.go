package iocli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

type Stdio struct {
	in  io.Reader
	out *os.File
	err io.Writer
}

func NewStdio() IO {
	return &Stdio{in: os.Stdin, out: os.Stdout, err: os.Stderr}
}

func (s *Stdio) Println(a ...any) {
	_, _ = fmt.Fprintln(s.out, a...)
}

func (s *Stdio) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(s.out, format, a...)
}

func (s *Stdio) Errorf(format string, a ...any) {
	_, _ = fmt.Fprintf(s.err, format, a...)
}

func (s *Stdio) Write(p []byte) (int, error) {
	return s.out.Write(p)
}

// ReadInput печатает приглашение в stderr, чтобы не смешивать его с выводом
func (s *Stdio) ReadInput(prompt string) (string, error) {
	s.Errorf("%s", prompt)
	reader := bufio.NewReader(s.in)
	input, err := reader.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || input == "") {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

func (s *Stdio) IsTerminal() bool {
	return term.IsTerminal(int(s.out.Fd()))
}

func (s *Stdio) Width() int {
	if !s.IsTerminal() {
		return 0
	}
	width, _, err := term.GetSize(int(s.out.Fd()))
	if err != nil {
		return 0
	}
	return width
}
