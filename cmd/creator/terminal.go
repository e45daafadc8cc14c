package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gongxings/ai-creator/invalidation"
	"golang.org/x/term"
)

var _ invalidation.Prompter = (*terminalPrompter)(nil)

// terminalPrompter asks yes/no questions on the controlling terminal. Without
// a terminal every question is answered no.
type terminalPrompter struct {
	in  *os.File
	out io.Writer
}

func newTerminalPrompter(in *os.File, out io.Writer) *terminalPrompter {
	return &terminalPrompter{in: in, out: out}
}

func (p *terminalPrompter) Confirm(ctx context.Context, title, message string) (bool, error) {
	fmt.Fprintf(p.out, "%s: %s", title, message)
	if !term.IsTerminal(int(p.in.Fd())) {
		fmt.Fprintln(p.out)
		return false, nil
	}
	fmt.Fprint(p.out, " [y/N] ")

	answer := make(chan string, 1)
	go func() {
		line, _ := bufio.NewReader(p.in).ReadString('\n')
		answer <- line
	}()

	select {
	case <-ctx.Done():
		fmt.Fprintln(p.out)
		return false, ctx.Err()
	case line := <-answer:
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		default:
			return false, nil
		}
	}
}

// readPassword reads from path, or from the terminal with echo disabled when
// path is empty or "-".
func readPassword(path, prompt string) (string, error) {
	if path != "" && path != "-" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", path, err)
		}
		password := strings.TrimRight(string(data), "\r\n")
		if password == "" {
			return "", fmt.Errorf("file %s is empty", path)
		}
		return password, nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("no terminal available for the password prompt (use --password-file)")
	}
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(password), nil
}
