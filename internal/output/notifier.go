package output

import (
	"fmt"
	"io"
)

// Notifier prints success confirmations, one per line.
type Notifier struct {
	W io.Writer
}

func (n *Notifier) Success(message string) {
	fmt.Fprintf(n.W, "[success] %s\n", message)
}
