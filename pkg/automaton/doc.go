// Package automaton defines the wire format of prefix automata exchanged with
// the translucent-log backend.
//
// A prefix automaton is served as two flat lists:
//
//	{
//	  "states": [{"id": "s0", "name": "<>", "outgoing": ["t0"]}, ...],
//	  "transitions": [{"id": "t0", "name": "a", "from_state": "s0", "to_state": "s1"}, ...]
//	}
//
// The root state is the one named [RootName] ("<>", the empty prefix). An
// edited automaton is submitted back as a [SubmitRequest], which carries the
// flattened [Submission] plus the discovery parameters (selected columns,
// threshold, method).
//
// # Files
//
// [ReadFile] accepts both shapes. When no state carries an outgoing list but
// transitions are present, outgoing lists are rebuilt from the transitions'
// from_state references (see [Submission.ToAutomaton]) so an edited automaton
// written with [WriteFile] can be loaded again.
//
// # Concurrency
//
// The types are plain values; none of the functions retain their arguments.
package automaton
