// Package pkg provides the libraries behind paeditor, an editor for the
// prefix automata that the translucent-log backend computes from process
// event logs.
//
// # Overview
//
// A prefix automaton has one state per distinct activity prefix observed in
// an event log and one transition per activity that extends a prefix. Users
// simplify it by merging states and drawing extra transitions, then submit
// it back so the backend can discover translucent decision points.
//
// # Architecture
//
// The typical data flow:
//
//	backend GET /event-logs/{id}/prefix-automaton
//	         ↓
//	    [backend] client (retries, [cache], singleflight)
//	         ↓
//	    [automaton] wire types
//	         ↓
//	    [editor] Build → working graph with grid layout
//	         ↓
//	    [editor] Editor: toggle, merge, connect
//	         ↓
//	    [editor] Serialize → submission
//	         ↓
//	backend POST /event-logs/{id}/prefix-automaton
//
// [render] draws a working graph with Graphviz at any point.
//
// # Quick Start
//
//	client, _ := backend.New("http://localhost:8000")
//	a, err := client.Load(ctx, "42")
//	if err != nil {
//	    return err
//	}
//	g, err := editor.Build(a)
//	if err != nil {
//	    return err
//	}
//	ed := editor.NewEditor(g)
//	ed.ToggleSelection("s3")
//	ed.ToggleSelection("s5")
//	ed.MergeSelected()
//
//	err = client.Save(ctx, "42", automaton.SubmitRequest{Submission: ed.Serialize()})
//
// # Supporting Packages
//
// [config] loads the TOML configuration, [errors] defines the error codes
// shared by all packages, [httputil] holds the retry helper and
// [observability] the hook registry. [buildinfo] carries version data set
// at link time.
//
// [automaton]: https://pkg.go.dev/github.com/matzehuels/paeditor/pkg/automaton
// [backend]: https://pkg.go.dev/github.com/matzehuels/paeditor/pkg/backend
// [cache]: https://pkg.go.dev/github.com/matzehuels/paeditor/pkg/cache
// [editor]: https://pkg.go.dev/github.com/matzehuels/paeditor/pkg/editor
// [render]: https://pkg.go.dev/github.com/matzehuels/paeditor/pkg/render
// [config]: https://pkg.go.dev/github.com/matzehuels/paeditor/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/paeditor/pkg/errors
// [httputil]: https://pkg.go.dev/github.com/matzehuels/paeditor/pkg/httputil
// [observability]: https://pkg.go.dev/github.com/matzehuels/paeditor/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/paeditor/pkg/buildinfo
package pkg
