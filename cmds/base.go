/*
Package cmds implements the commands of the findy-a2a CLI. The commands are
independent of the CLI framework: each has Validate and Exec, and the cobra
layer in the cmd package only fills the command structs from flags and
environment variables.
*/
package cmds

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/lainio/err2/try"
)

// SeedLen is the length of the key seed.
const SeedLen = 32

var ErrInvalid = errors.New("invalid command, check arguments")

type Result interface {
	JSON() ([]byte, error)
}

type Command interface {
	Validate() error
	Exec(w io.Writer) (r Result, err error)
}

// ValidateSeed accepts the empty seed or the seed of SeedLen characters.
func ValidateSeed(seed string) error {
	if seed != "" && len(seed) != SeedLen {
		return fmt.Errorf("%w: seed must be empty or length of %d",
			ErrInvalid, SeedLen)
	}
	return nil
}

// ValidateTime validates the time string in the form of HH:MM[:SS].
func ValidateTime(s string) error {
	layout := "15:04"
	if strings.Count(s, ":") == 2 {
		layout = "15:04:05"
	}
	if _, err := time.Parse(layout, s); err != nil {
		return fmt.Errorf("%w: time %q: %w", ErrInvalid, s, err)
	}
	return nil
}

// ParseLoggingArgs parses the glog flags from the string, e.g.
// "-logtostderr=true -v=2".
func ParseLoggingArgs(s string) {
	args := make([]string, 1, 12)
	args[0] = os.Args[0]
	if s = strings.TrimSpace(s); s != "" {
		args = append(args, strings.Fields(s)...)
	}
	orgArgs := os.Args
	os.Args = args
	flag.Parse()
	os.Args = orgArgs
}

// Fprintln is fmt.Fprintln but it allows writer to be nil. Note! it throws an
// error.
func Fprintln(w io.Writer, a ...any) {
	if w != nil {
		try.To1(fmt.Fprintln(w, a...))
	}
}

// Fprintf is fmt.Fprintf but it allows writer to be nil. Note! it throws an
// error.
func Fprintf(w io.Writer, format string, a ...any) {
	if w != nil {
		try.To1(fmt.Fprintf(w, format, a...))
	}
}

// Fprint is fmt.Fprint but it allows writer to be nil. Note! it throws an
// error.
func Fprint(w io.Writer, a ...any) {
	if w != nil {
		try.To1(fmt.Fprint(w, a...))
	}
}

// Progress prints dots to w until the returned channel is closed.
func Progress(w io.Writer) chan<- struct{} {
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-time.After(300 * time.Millisecond):
				if w != nil {
					_, _ = fmt.Fprint(w, ".")
				}
			}
		}
	}()
	return done
}
