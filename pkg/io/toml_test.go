package io

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/dlvis/pkg/errors"
	"github.com/matzehuels/dlvis/pkg/graph"
)

const threeNodes = `
start = 1
start_align_left = true
start_align_up = true
end = 3

[[nodes]]
	id = 1
	dimension = [5, 512, 512, 1]
	pass_to = 2
	left_of = 2

[[nodes]]
	id = 2
	dimension = [5, 512, 512, 1]
	above_of = 3
	[nodes.operation]
		to = 3
		[nodes.operation.convolution]
			dimension = 3
			kernel_size = 3
			num_outputs = 128
			stride = [1, 2, 2]
			activation_fn = "relu"

[[nodes]]
	id = 3
	dimension = [5, 256, 256, 1]
`

func TestParseTOML(t *testing.T) {
	g, err := ParseTOML([]byte(threeNodes))
	if err != nil {
		t.Fatalf("ParseTOML() error = %v", err)
	}

	if g.Start != 1 || g.End != 3 {
		t.Errorf("start/end = %d/%d, want 1/3", g.Start, g.End)
	}
	if want := (graph.Pins{Left: true, Top: true}); g.Align != want {
		t.Errorf("Align = %+v, want %+v", g.Align, want)
	}
	if g.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", g.Len())
	}

	n1, _ := g.Node(1)
	if want := []graph.Relation{{Dir: graph.Left, Target: 2}}; !reflect.DeepEqual(n1.Relations, want) {
		t.Errorf("node 1 relations = %+v, want %+v", n1.Relations, want)
	}
	if len(n1.Flows) != 1 || n1.Flows[0].Kind != graph.FlowPass || n1.Flows[0].To != 2 {
		t.Errorf("node 1 flows = %+v", n1.Flows)
	}

	n2, _ := g.Node(2)
	if len(n2.Relations) != 1 || n2.Relations[0].Dir != graph.Above {
		t.Errorf("node 2 relations = %+v", n2.Relations)
	}
	if len(n2.Flows) != 1 {
		t.Fatalf("node 2 flows = %+v", n2.Flows)
	}
	f := n2.Flows[0]
	if f.Kind != graph.FlowTransform || f.Op == nil || f.Op.Type != graph.OpConvolution {
		t.Fatalf("node 2 flow = %+v", f)
	}
	if f.Op.NumOutputs != 128 || f.Op.ActivationFn != "relu" || !reflect.DeepEqual(f.Op.Stride, []int{1, 2, 2}) {
		t.Errorf("operation = %+v", f.Op)
	}

	if err := g.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestParseTOMLOrder(t *testing.T) {
	src := `
start = 1
[[nodes]]
id = 1
left_of = 2
right_of = 3
above_of = 4
below_of = 5
skip_connection_to = 2
pass_to = 3
[nodes.operation]
to = 4
[nodes.operation.fully_connected]
num_outputs = 10
`
	g, err := ParseTOML([]byte(src))
	if err != nil {
		t.Fatalf("ParseTOML() error = %v", err)
	}
	n, _ := g.Node(1)

	var dirs []graph.Direction
	for _, r := range n.Relations {
		dirs = append(dirs, r.Dir)
	}
	if want := []graph.Direction{graph.Below, graph.Above, graph.Right, graph.Left}; !reflect.DeepEqual(dirs, want) {
		t.Errorf("relation order = %v, want %v", dirs, want)
	}

	var kinds []graph.FlowKind
	for _, f := range n.Flows {
		kinds = append(kinds, f.Kind)
	}
	if want := []graph.FlowKind{graph.FlowTransform, graph.FlowPass, graph.FlowSkip}; !reflect.DeepEqual(kinds, want) {
		t.Errorf("flow order = %v, want %v", kinds, want)
	}
	if g.End != 1 {
		t.Errorf("End = %d, want start when omitted", g.End)
	}
}

func TestParseTOMLErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code errors.Code
	}{
		{"malformed", "start = [", errors.ErrCodeParse},
		{"missing start", "[[nodes]]\nid = 1\n", errors.ErrCodeParse},
		{"missing id", "start = 1\n[[nodes]]\ndimension = [1]\n", errors.ErrCodeParse},
		{"unknown key", "start = 1\n[[nodes]]\nid = 1\nleft_off = 2\n", errors.ErrCodeParse},
		{"duplicate id", "start = 1\n[[nodes]]\nid = 1\n[[nodes]]\nid = 1\n", errors.ErrCodeInvalidGraph},
		{"negative dimension", "start = 1\n[[nodes]]\nid = 1\ndimension = [-1]\n", errors.ErrCodeInvalidGraph},
		{"too many channels", "start = 1\n[[nodes]]\nid = 1\ndimension = [100000, 8, 8, 1]\n", errors.ErrCodeInvalidGraph},
		{
			"ambiguous operation",
			"start = 1\n[[nodes]]\nid = 1\n[nodes.operation]\nto = 1\n[nodes.operation.convolution]\nnum_outputs = 1\n[nodes.operation.fully_connected]\nnum_outputs = 1\n",
			errors.ErrCodeInvalidGraph,
		},
		{"empty operation", "start = 1\n[[nodes]]\nid = 1\n[nodes.operation]\nto = 1\n", errors.ErrCodeInvalidGraph},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTOML([]byte(tt.src))
			if !errors.Is(err, tt.code) {
				t.Errorf("ParseTOML() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "net.toml")
	if err := os.WriteFile(path, []byte(threeNodes), 0o644); err != nil {
		t.Fatal(err)
	}

	g, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if g.Len() != 3 {
		t.Errorf("Len() = %d, want 3", g.Len())
	}

	_, err = ReadFile(filepath.Join(dir, "missing.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("ReadFile(missing) error = %v", err)
	}
}

func TestMarshalTOMLRoundTrip(t *testing.T) {
	g, err := ReadTOML(strings.NewReader(threeNodes))
	if err != nil {
		t.Fatal(err)
	}
	data, err := MarshalTOML(g)
	if err != nil {
		t.Fatalf("MarshalTOML() error = %v", err)
	}
	again, err := ParseTOML(data)
	if err != nil {
		t.Fatalf("ParseTOML(MarshalTOML()) error = %v\n%s", err, data)
	}
	if !reflect.DeepEqual(g.Nodes(), again.Nodes()) {
		t.Errorf("round trip changed nodes:\n%s", data)
	}
	if g.Align != again.Align || g.Start != again.Start || g.End != again.End {
		t.Errorf("round trip changed header:\n%s", data)
	}
}
