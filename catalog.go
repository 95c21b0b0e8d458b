package toolstream

import (
	"fmt"
	"strings"
)

// Definition is the provider-facing description of one registered tool:
// the prompt-catalog line for inline-directive models and, when the
// handler was built with NewHandler, a JSON Schema for providers with
// native structured tool calling.
type Definition struct {
	Name        ToolName
	Description string
	ArgHint     string
	Parameters  map[string]any // nil for raw handlers
	Dangerous   bool
}

// Definitions exports every registered handler (aliases excluded),
// sorted by name.
func (d *Dispatcher) Definitions() []Definition {
	handlers := d.Handlers()
	defs := make([]Definition, 0, len(handlers))
	for _, h := range handlers {
		def := Definition{
			Name:        h.Name(),
			Description: h.Description(),
		}
		if hm, ok := h.(HandlerMetadata); ok {
			def.ArgHint = hm.ArgHint()
			def.Dangerous = hm.IsDangerous()
		}
		if hs, ok := h.(HandlerSchema); ok {
			def.Parameters = hs.Parameters()
		}
		defs = append(defs, def)
	}
	return defs
}

// PromptBlock renders the tool list for a completion-style system prompt,
// one directive per line:
//
//   - [CHECK_SAFETY: med_name, symptom] -> Check if a symptom is a side effect of a med.
//
// Irreversible tools carry an (irreversible) marker so the model is
// steered to confirm intent before emitting them.
func PromptBlock(defs []Definition) string {
	var b strings.Builder
	for _, def := range defs {
		b.WriteString("- [")
		b.WriteString(string(def.Name))
		if def.ArgHint != "" {
			b.WriteString(": ")
			b.WriteString(def.ArgHint)
		} else {
			b.WriteString(":")
		}
		fmt.Fprintf(&b, "] -> %s", def.Description)
		if def.Dangerous {
			b.WriteString(" (irreversible)")
		}
		b.WriteString("\n")
	}
	return b.String()
}
