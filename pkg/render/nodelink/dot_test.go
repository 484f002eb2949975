package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/dlvis/pkg/graph"
	"github.com/matzehuels/dlvis/pkg/layout"
)

func discovery(t *testing.T) *layout.Discovery {
	t.Helper()
	g := graph.New(1)
	nodes := []*graph.Node{
		{ID: 1, Dimension: []int{5, 512, 512, 1}, Relations: []graph.Relation{{Dir: graph.Left, Target: 2}}, Flows: []graph.Flow{{To: 2, Kind: graph.FlowPass}, {To: 3, Kind: graph.FlowSkip}}},
		{ID: 2, Relations: []graph.Relation{{Dir: graph.Above, Target: 3}}, Flows: []graph.Flow{{To: 3, Kind: graph.FlowTransform, Op: &graph.Operation{Type: graph.OpFullyConnected, NumOutputs: 10}}}},
		{ID: 3},
	}
	for _, n := range nodes {
		if err := g.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	d, err := layout.Discover(g, nil)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(discovery(t), Options{})

	if !strings.Contains(dot, "digraph G") {
		t.Error("ToDOT() output missing digraph declaration")
	}
	for _, id := range []string{`"1"`, `"2"`, `"3"`} {
		if !strings.Contains(dot, id) {
			t.Errorf("ToDOT() output missing node %s", id)
		}
	}
	if !strings.Contains(dot, `"1" -> "2";`) {
		t.Error("ToDOT() output missing pass edge")
	}
	if !strings.Contains(dot, `"1" -> "3" [style=bold, color=blue];`) {
		t.Error("ToDOT() output missing skip edge")
	}
	if !strings.Contains(dot, `label="fc 10"`) {
		t.Error("ToDOT() output missing transform label")
	}
	if strings.Contains(dot, "dashed") {
		t.Error("ToDOT() drew alignments without Options.Alignments")
	}
	if !strings.Contains(dot, `"1" [label="1", penwidth=3];`) {
		t.Error("ToDOT() start node not highlighted")
	}
}

func TestToDOT_Alignments(t *testing.T) {
	dot := ToDOT(discovery(t), Options{Alignments: true})

	if !strings.Contains(dot, `"1" -> "2" [style=dashed`) {
		t.Error("ToDOT() missing alignment edge 1 -> 2")
	}
	if !strings.Contains(dot, `label="above of"`) {
		t.Error("ToDOT() missing alignment label")
	}
}

func TestFmtLabel(t *testing.T) {
	n := &graph.Node{ID: 4, Dimension: []int{5, 256, 256, 1}}

	if got := fmtLabel(n, false); got != "4" {
		t.Errorf("fmtLabel() simple = %q, want %q", got, "4")
	}
	if got := fmtLabel(n, true); got != "4\n5x256x256x1" {
		t.Errorf("fmtLabel() detailed = %q", got)
	}
	if got := fmtLabel(&graph.Node{ID: 7}, true); got != "7" {
		t.Errorf("fmtLabel() without dimension = %q", got)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="44pt" viewBox="0.00 0.00 62.00 44.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 62.00 44.00" width="62" height="44"><g/></svg>`
	if out != want {
		t.Errorf("normalizeViewBox() =\n%s\nwant\n%s", out, want)
	}

	plain := []byte(`<svg><g/></svg>`)
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Errorf("normalizeViewBox() changed svg without viewBox: %s", got)
	}
}
