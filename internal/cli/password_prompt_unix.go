//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package cli

import (
	"bufio"
	"os"

	"golang.org/x/sys/unix"
)

// readPasswordNoEcho turns terminal echo off while one line is read from
// reader. When stdin is not a terminal the line is read as is.
func readPasswordNoEcho(stdin *os.File, reader *bufio.Reader) (string, error) {
	fd := int(stdin.Fd())
	termios, err := unix.IoctlGetTermios(fd, termiosReadRequest)
	if err != nil {
		return readLine(reader)
	}
	originalTermios := *termios
	updatedTermios := originalTermios
	updatedTermios.Lflag &^= unix.ECHO

	if err := unix.IoctlSetTermios(fd, termiosWriteRequest, &updatedTermios); err != nil {
		return "", err
	}
	defer func() {
		_ = unix.IoctlSetTermios(fd, termiosWriteRequest, &originalTermios)
	}()

	return readLine(reader)
}
