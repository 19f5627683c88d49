//go:build !windows && !linux && !darwin && !freebsd && !netbsd && !openbsd && !dragonfly

package cli

import (
	"bufio"
	"errors"
	"os"
)

func readPasswordNoEcho(_ *os.File, _ *bufio.Reader) (string, error) {
	return "", errors.New("hidden password input is not supported on this platform")
}
