package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/lachiem1/meterUp/internal/busy"
)

// startSpinner animates a busy label on stderr when it is a terminal. The
// returned func must be called exactly once the work is done.
func startSpinner(ctx context.Context, w io.Writer) func() {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return func() {}
	}
	stop := busy.Spin(ctx, busy.Period, func(label string) {
		fmt.Fprintf(w, "\r\033[K%s", label)
	})
	return func() {
		stop()
		fmt.Fprint(w, "\r\033[K")
	}
}
