package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// DryRunNotifier prints the sanitized mail instead of sending it.
type DryRunNotifier struct {
	w        io.Writer
	from, to string
}

func NewDryRunNotifier(w io.Writer, from, to string) *DryRunNotifier {
	if w == nil {
		w = os.Stdout
	}
	return &DryRunNotifier{w: w, from: from, to: to}
}

func (d *DryRunNotifier) Notify(_ context.Context, subject, body string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\n", d.from)
	fmt.Fprintf(&b, "To: %s\n", d.to)
	fmt.Fprintf(&b, "Subject: %s\n\n", ASCIISafe(subject))
	b.WriteString(ASCIISafe(body))
	b.WriteString("\n")

	if _, err := io.WriteString(d.w, b.String()); err != nil {
		return fmt.Errorf("dry-run write: %w", err)
	}
	return nil
}
