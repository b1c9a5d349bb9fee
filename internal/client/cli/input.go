package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword and isTerminal are test seams for the x/term calls.
// In tests you can replace them with stubs to avoid touching the terminal.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// GetSimpleText prints a prompt to w and reads a single line of input from reader.
// The trailing newline is trimmed. If EOF occurs after some input was read,
// the partial line is returned.
//
// Example prompt format:
//
//	Prompt text
//	> _
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetPassword prints prompt to w and reads a secret without echo when stdin
// is a terminal. Otherwise the secret is read as a plain line from reader,
// which keeps piped input working.
//
// The returned byte slice should be wiped by the caller when no longer needed.
func GetPassword(reader *bufio.Reader, prompt string, w io.Writer) ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if !isTerminal(fd) {
		line, err := GetSimpleText(reader, prompt, w)
		if err != nil {
			return nil, err
		}
		return []byte(line), nil
	}

	if _, err := fmt.Fprint(w, prompt+": "); err != nil {
		return nil, err
	}
	pw, err := readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// GetConfirmation asks a yes/no question. Only "y" and "yes" count as yes.
func GetConfirmation(reader *bufio.Reader, question string, w io.Writer) (bool, error) {
	answer, err := GetSimpleText(reader, question+" [y/N]", w)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
