package backend_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/matzehuels/paeditor/pkg/backend"
	"github.com/matzehuels/paeditor/pkg/editor"
)

func ExampleClient_Load() {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"states": [
				{"id": "s0", "name": "<>", "outgoing": ["t0"]},
				{"id": "s1", "name": "a", "outgoing": []}
			],
			"transitions": [{"id": "t0", "name": "a", "from_state": "s0", "to_state": "s1"}]
		}`)
	}))
	defer srv.Close()

	client, err := backend.New(srv.URL)
	if err != nil {
		panic(err)
	}
	a, err := client.Load(context.Background(), "1")
	if err != nil {
		panic(err)
	}
	g, err := editor.Build(a)
	if err != nil {
		panic(err)
	}
	fmt.Println(g.NodeCount(), "nodes,", g.EdgeCount(), "edge")
	// Output:
	// 2 nodes, 1 edge
}
