// Command dfamin reads a DFA (or, more generally, a labeled transition
// graph) from stdin and writes its Valmari-minimized quotient to stdout.
// See SPEC_FULL.md §6 for the exact wire format. The binary takes no
// flags, environment variables or configuration file: the only surface is
// stdin, stdout and the process exit code.
package main

import (
	"errors"
	"log"
	"os"

	pkgerrors "github.com/pkg/errors"

	"github.com/valmari/dfamin/internal/automaton"
	"github.com/valmari/dfamin/internal/minimize"
	apperrors "github.com/valmari/dfamin/pkg/errors"
)

// verboseLogging gates the driver's phase-by-phase diagnostics. It is a
// compiled-in constant rather than a flag or environment variable, since
// SPEC_FULL.md §6 explicitly excludes both from this binary's interface;
// flip it locally when debugging a specific input.
const verboseLogging = false

func main() {
	if verboseLogging {
		minimize.SetLogger(log.Printf)
	}

	if err := run(os.Stdin, os.Stdout); err != nil {
		log.SetFlags(0)
		log.SetPrefix("dfamin: ")
		log.Print(diagnostic(err))
		os.Exit(1)
	}
}

func run(in *os.File, out *os.File) error {
	a, err := automaton.Read(in)
	if err != nil {
		return err
	}
	result := minimize.Minimize(a)
	if err := minimize.Write(out, result); err != nil {
		return err
	}
	return nil
}

// diagnostic renders err for stderr, preferring the stable AppError code
// when one is present so scripted callers can grep for it. Any other error
// reaching here is a bug rather than an expected failure mode (automaton.Read
// and minimize.Write are the only sources of error, and both always return an
// *apperrors.AppError), so it is wrapped with pkg/errors under an
// "unexpected error" prefix instead; only the message text is rendered,
// not the stack trace that Wrap records.
func diagnostic(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Error()
	}
	return pkgerrors.Wrap(err, "unexpected error").Error()
}
