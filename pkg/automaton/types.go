package automaton

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// RootName is the name of the empty-prefix state every automaton starts from.
const RootName = "<>"

// DefaultMethod is the discovery method used when a submission names none.
const DefaultMethod = "logistic_regression"

// =============================================================================
// Automaton - Server Representation
// =============================================================================

// State is a prefix state as served by the backend.
type State struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Outgoing []string `json:"outgoing"` // Transition IDs, in display order
}

// IsRoot reports whether the state is the empty-prefix state.
func (s State) IsRoot() bool { return s.Name == RootName }

// Transition is a named step from one state to another.
type Transition struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	FromState string `json:"from_state"`
	ToState   string `json:"to_state"`
}

// Automaton is the flat states/transitions payload of
// GET /event-logs/{id}/prefix-automaton.
type Automaton struct {
	States      []State      `json:"states"`
	Transitions []Transition `json:"transitions"`
}

// Clone returns a deep copy. Outgoing slices are copied so the clone can be
// modified without touching the original payload.
func (a *Automaton) Clone() *Automaton {
	if a == nil {
		return nil
	}
	out := &Automaton{
		States:      make([]State, len(a.States)),
		Transitions: append([]Transition(nil), a.Transitions...),
	}
	for i, s := range a.States {
		s.Outgoing = append([]string(nil), s.Outgoing...)
		out.States[i] = s
	}
	return out
}

// Roots returns every state named [RootName]. A well-formed automaton has
// exactly one.
func (a *Automaton) Roots() []State {
	var roots []State
	for _, s := range a.States {
		if s.IsRoot() {
			roots = append(roots, s)
		}
	}
	return roots
}

// hasOutgoing reports whether any state lists outgoing transitions.
func (a *Automaton) hasOutgoing() bool {
	for _, s := range a.States {
		if len(s.Outgoing) > 0 {
			return true
		}
	}
	return false
}

// =============================================================================
// Submission - Edited Automaton
// =============================================================================

// StateRef is a state in a submission. Outgoing lists are not sent back.
type StateRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Submission is the flattened, edited automaton.
type Submission struct {
	States      []StateRef   `json:"states"`
	Transitions []Transition `json:"transitions"`
}

// ToAutomaton rebuilds outgoing lists from the transitions' from_state
// references. Transition order is preserved within each state.
func (s Submission) ToAutomaton() *Automaton {
	outgoing := make(map[string][]string, len(s.States))
	for _, t := range s.Transitions {
		outgoing[t.FromState] = append(outgoing[t.FromState], t.ID)
	}
	a := &Automaton{
		States:      make([]State, len(s.States)),
		Transitions: append([]Transition(nil), s.Transitions...),
	}
	for i, st := range s.States {
		a.States[i] = State{ID: st.ID, Name: st.Name, Outgoing: outgoing[st.ID]}
	}
	return a
}

// ColumnType classifies a selected event-log column.
type ColumnType string

// Column types understood by the backend.
const (
	ColumnNumerical   ColumnType = "numerical"
	ColumnCategorical ColumnType = "categorical"
)

// ColumnDefinition selects an event-log column as a discovery feature.
type ColumnDefinition struct {
	Column string     `json:"column"`
	Type   ColumnType `json:"type"`
}

// ParseColumn parses "name" or "name:type". The type defaults to categorical.
func ParseColumn(s string) (ColumnDefinition, error) {
	name, typ, found := strings.Cut(s, ":")
	name = strings.TrimSpace(name)
	if name == "" {
		return ColumnDefinition{}, fmt.Errorf("column %q: empty name", s)
	}
	col := ColumnDefinition{Column: name, Type: ColumnCategorical}
	if !found {
		return col, nil
	}
	switch ColumnType(strings.ToLower(strings.TrimSpace(typ))) {
	case ColumnNumerical:
		col.Type = ColumnNumerical
	case ColumnCategorical:
	default:
		return ColumnDefinition{}, fmt.Errorf("column %q: unknown type %q", s, typ)
	}
	return col, nil
}

// SubmitRequest is the body of POST /event-logs/{id}/prefix-automaton.
type SubmitRequest struct {
	Submission
	SelectedColumns []ColumnDefinition `json:"selectedColumns"`
	Threshold       float64            `json:"threshold"`
	Method          string             `json:"method"`
}

// =============================================================================
// Event Logs
// =============================================================================

// EventLogType is the file format an event log was uploaded in.
type EventLogType string

// Supported event log formats.
const (
	EventLogCSV EventLogType = "CSV"
	EventLogXES EventLogType = "XES"
)

// LogID is an event log identifier. The backend emits numeric ids; UUIDs are
// accepted as strings.
type LogID string

// UnmarshalJSON accepts both JSON numbers and strings.
func (id *LogID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = LogID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("event log id: %w", err)
	}
	*id = LogID(n.String())
	return nil
}

// EventLog is an uploaded event log as listed by GET /event-logs.
type EventLog struct {
	ID   LogID        `json:"id"`
	Name string       `json:"name"`
	Type EventLogType `json:"type"`
}
