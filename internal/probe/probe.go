package probe

import (
	"context"
	"os/exec"
)

// TextProbe is one external information source. Invoke runs the probe for a
// candidate name and returns whatever text it printed plus its exit status.
// A non-zero exit status is a normal outcome for most probes (they exit
// non-zero when they know nothing about the name); err is reserved for
// failing to run the probe at all.
type TextProbe interface {
	Invoke(ctx context.Context, name string) (output string, exitCode int, err error)
}

// Func adapts a plain function to the TextProbe interface. Tests substitute
// canned output this way.
type Func func(ctx context.Context, name string) (string, int, error)

func (f Func) Invoke(ctx context.Context, name string) (string, int, error) {
	return f(ctx, name)
}

// Available reports whether a binary can be found on PATH.
func Available(bin string) bool {
	_, err := exec.LookPath(bin)
	return err == nil
}
