package ingest

import (
	"strings"

	"github.com/roach88/hyperpipe/internal/ir"
)

// DecodeSnapshot decodes one property block.
//
// A blank block yields ir.Missing(). Otherwise each non-blank line must hold
// a ':' separator. The key is the text before the first ':' and the value the
// text between the first and the second ':', both trimmed. An empty key is
// kept as "".
func DecodeSnapshot(block string) (ir.Snapshot, error) {
	block = strings.TrimSpace(block)
	if block == "" {
		return ir.Missing(), nil
	}

	props := make(ir.Properties)
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.Split(line, ":")
		if len(parts) < 2 {
			return ir.Snapshot{}, &MalformedRecordError{
				Index:  -1,
				Line:   line,
				Reason: "property line has no ':' separator",
			}
		}
		props[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	return ir.Observed(props), nil
}
