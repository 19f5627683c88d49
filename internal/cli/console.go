package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// readPasswordFn is a test seam for readPasswordNoEcho.
var readPasswordFn = readPasswordNoEcho

// Console is the line-oriented terminal the commands talk through. Every
// read goes through one buffered reader so typed-ahead input is never lost
// between prompts.
type Console struct {
	in    *bufio.Reader
	stdin *os.File
	out   io.Writer
}

func NewConsole(in io.Reader, out io.Writer) *Console {
	console := &Console{
		in:  bufio.NewReader(in),
		out: out,
	}
	if file, ok := in.(*os.File); ok {
		console.stdin = file
	}
	return console
}

func (console *Console) Printf(format string, args ...any) {
	fmt.Fprintf(console.out, format, args...)
}

func (console *Console) Println(args ...any) {
	fmt.Fprintln(console.out, args...)
}

// Ask prints prompt and returns the trimmed answer.
func (console *Console) Ask(prompt string) (string, error) {
	console.Printf("%s: ", prompt)
	line, err := readLine(console.in)
	return strings.TrimSpace(line), err
}

// AskPassword prompts without echoing what is typed when stdin is a
// terminal. The answer is not trimmed.
func (console *Console) AskPassword(prompt string) (string, error) {
	console.Printf("%s: ", prompt)
	if console.stdin == nil {
		return readLine(console.in)
	}
	password, err := readPasswordFn(console.stdin, console.in)
	console.Println()
	return password, err
}

// ReadCommand reads one REPL line.
func (console *Console) ReadCommand(prompt string) (string, error) {
	console.Printf("%s ", prompt)
	return readLine(console.in)
}

// readLine returns io.EOF only when nothing was read before the end of
// input.
func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
