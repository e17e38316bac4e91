package automaton

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Automaton Serialization API
// =============================================================================

// Read decodes an automaton from r. Outgoing lists are rebuilt from the
// transitions when the payload carries none (an edited submission).
func Read(r io.Reader) (*Automaton, error) {
	var a Automaton
	if err := json.NewDecoder(r).Decode(&a); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return normalize(&a), nil
}

// ReadFile reads an automaton or a submission from a JSON file.
func ReadFile(path string) (*Automaton, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// Write encodes v (an *Automaton, Submission or SubmitRequest) as indented
// JSON.
func Write(v any, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteFile writes v as indented JSON to path with 0644 permissions.
func WriteFile(v any, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(v, f)
}

func normalize(a *Automaton) *Automaton {
	if len(a.Transitions) == 0 || a.hasOutgoing() {
		return a
	}
	refs := make([]StateRef, len(a.States))
	for i, s := range a.States {
		refs[i] = StateRef{ID: s.ID, Name: s.Name}
	}
	return Submission{States: refs, Transitions: a.Transitions}.ToAutomaton()
}
