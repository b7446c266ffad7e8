package view

import "fmt"

const OpDrawRoutes = "draw routes"

// Outcome reports a best-effort operation. The error it carries has already been logged;
// callers only inspect it.
type Outcome struct {
	Op        string
	Polylines int
	Err       error
}

func (o Outcome) OK() bool { return o.Err == nil }

func (o Outcome) String() string {
	if o.Err != nil {
		return fmt.Sprintf("%s: failed after %d polylines: %v", o.Op, o.Polylines, o.Err)
	}
	return fmt.Sprintf("%s: %d polylines", o.Op, o.Polylines)
}
