package graph

import (
	"bytes"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang/snappy"
)

// fixtureEdges is the 7-node fixture graph shared by several packages' tests
func fixtureEdges() []Edge {
	pairs := [][2]int{{0, 1}, {1, 3}, {3, 4}, {4, 6}, {6, 5}, {5, 3}, {3, 2}, {2, 0}, {0, 3}}
	edges := make([]Edge, len(pairs))
	for i, p := range pairs {
		edges[i] = Edge{Source: p[0], Target: p[1], Weight: float64(i + 1)}
	}
	return edges
}

func TestFromEdges_Fixture(t *testing.T) {
	g, err := FromEdges(7, fixtureEdges())
	if err != nil {
		t.Fatalf("FromEdges failed: %v", err)
	}

	if g.NodeCount() != 7 {
		t.Errorf("Expected 7 nodes, got %d", g.NodeCount())
	}
	if g.EdgeCount() != 9 {
		t.Errorf("Expected 9 edges, got %d", g.EdgeCount())
	}
	if g.TotalWeight() != 45 {
		t.Errorf("Expected total weight 45, got %v", g.TotalWeight())
	}

	// Node 3 touches 1-3(2), 3-4(3), 5-3(6), 3-2(7), 0-3(9)
	if g.Degree(3) != 5 {
		t.Errorf("Expected degree 5 for node 3, got %d", g.Degree(3))
	}
	if g.Strength(3) != 27 {
		t.Errorf("Expected strength 27 for node 3, got %v", g.Strength(3))
	}

	prev := -1
	for _, nb := range g.Neighbors(3) {
		if nb.Node <= prev {
			t.Fatalf("Adjacency of node 3 not sorted: %v", g.Neighbors(3))
		}
		prev = nb.Node
	}

	if w, ok := g.EdgeWeight(6, 5); !ok || w != 5 {
		t.Errorf("Expected edge 6-5 with weight 5, got %v (found=%v)", w, ok)
	}
	if _, ok := g.EdgeWeight(0, 6); ok {
		t.Error("Did not expect an edge between 0 and 6")
	}
}

func TestFromEdges_OutOfRange(t *testing.T) {
	_, err := FromEdges(2, []Edge{{Source: 0, Target: 5, Weight: 1}})
	if !errors.Is(err, ErrNodeOutOfRange) {
		t.Errorf("Expected ErrNodeOutOfRange, got %v", err)
	}
}

func TestEdgesIteration(t *testing.T) {
	g, _ := FromEdges(7, fixtureEdges())

	count := 0
	sum := 0.0
	for e := range g.Edges() {
		if e.Source >= e.Target {
			t.Errorf("Edge not normalized: %+v", e)
		}
		count++
		sum += e.Weight
	}
	if count != 9 || sum != 45 {
		t.Errorf("Expected 9 edges totalling 45, got %d totalling %v", count, sum)
	}

	// Early termination must be honoured
	seen := 0
	for range g.Edges() {
		seen++
		if seen == 3 {
			break
		}
	}
	if seen != 3 {
		t.Errorf("Expected to stop after 3 edges, got %d", seen)
	}
}

func TestBuilder_DuplicatePolicies(t *testing.T) {
	tests := []struct {
		policy   DuplicatePolicy
		expected float64
	}{
		{DuplicateMax, 5},
		{DuplicateSum, 8},
		{DuplicateFirst, 3},
	}

	for _, tt := range tests {
		t.Run(tt.policy.String(), func(t *testing.T) {
			b := NewBuilder(tt.policy)
			b.AddEdge("a", "b", 3)
			b.AddEdge("b", "a", 5)
			g := b.Build()

			if g.EdgeCount() != 1 {
				t.Fatalf("Expected 1 edge, got %d", g.EdgeCount())
			}
			a, _ := g.Index("a")
			bIdx, _ := g.Index("b")
			if w, _ := g.EdgeWeight(a, bIdx); w != tt.expected {
				t.Errorf("Expected weight %v, got %v", tt.expected, w)
			}
		})
	}
}

func TestBuilder_SelfLoopsAndInvalidWeights(t *testing.T) {
	b := NewBuilder(DuplicateMax)
	if err := b.AddEdge("a", "a", 1); err != nil {
		t.Fatalf("Self-loop should be ignored, got %v", err)
	}
	if b.DroppedLoops() != 1 {
		t.Errorf("Expected 1 dropped loop, got %d", b.DroppedLoops())
	}
	if err := b.AddEdge("a", "b", -1); !errors.Is(err, ErrInvalidWeight) {
		t.Errorf("Expected ErrInvalidWeight, got %v", err)
	}

	g := b.Build()
	if g.NodeCount() != 1 {
		t.Errorf("Expected only the loop node to be registered, got %d", g.NodeCount())
	}
	if g.EdgeCount() != 0 {
		t.Errorf("Expected no edges, got %d", g.EdgeCount())
	}
}

func TestParseDuplicatePolicy(t *testing.T) {
	for _, name := range []string{"", "max", "sum", "first"} {
		if _, err := ParseDuplicatePolicy(name); err != nil {
			t.Errorf("ParseDuplicatePolicy(%q) failed: %v", name, err)
		}
	}
	if _, err := ParseDuplicatePolicy("avg"); !errors.Is(err, ErrUnknownPolicy) {
		t.Errorf("Expected ErrUnknownPolicy, got %v", err)
	}
}

func TestReadEdgeList(t *testing.T) {
	input := `# protein interactions
YAL001C YBR123C 0.5
YAL001C YDR362C

YBR123C YDR362C 2
`
	g, err := ReadEdgeList(strings.NewReader(input), "test", DuplicateMax)
	if err != nil {
		t.Fatalf("ReadEdgeList failed: %v", err)
	}

	if g.NodeCount() != 3 || g.EdgeCount() != 3 {
		t.Fatalf("Expected 3 nodes and 3 edges, got %d and %d", g.NodeCount(), g.EdgeCount())
	}
	a, _ := g.Index("YAL001C")
	c, _ := g.Index("YDR362C")
	if w, _ := g.EdgeWeight(a, c); w != 1 {
		t.Errorf("Expected default weight 1, got %v", w)
	}
	if g.Name(a) != "YAL001C" {
		t.Errorf("Expected name YAL001C, got %s", g.Name(a))
	}
}

func TestReadEdgeList_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  int
	}{
		{"too few fields", "a b 1\nc\n", 2},
		{"too many fields", "a b 1 2\n", 1},
		{"bad weight", "a b x\n", 1},
		{"negative weight", "a b 1\n\na c -2\n", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadEdgeList(strings.NewReader(tt.input), "edges.txt", DuplicateMax)
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("Expected ParseError, got %v", err)
			}
			if perr.Line != tt.line {
				t.Errorf("Expected error on line %d, got %d", tt.line, perr.Line)
			}
		})
	}
}

func TestOpenFile_PlainAndSnappy(t *testing.T) {
	dir := t.TempDir()
	content := "a b 1\nb c 2\nc a 3\n"

	plain := filepath.Join(dir, "edges.txt")
	if err := os.WriteFile(plain, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	var buf bytes.Buffer
	w := snappy.NewBufferedWriter(&buf)
	w.Write([]byte(content))
	w.Close()
	compressed := filepath.Join(dir, "edges.txt.snappy")
	if err := os.WriteFile(compressed, buf.Bytes(), 0o600); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	for _, path := range []string{plain, compressed} {
		g, err := Open(t.Context(), path, SourceOptions{})
		if err != nil {
			t.Fatalf("Open(%s) failed: %v", path, err)
		}
		if g.EdgeCount() != 3 || g.TotalWeight() != 6 {
			t.Errorf("%s: expected 3 edges with weight 6, got %d with %v", path, g.EdgeCount(), g.TotalWeight())
		}
	}
}

func TestOpen_UnsupportedScheme(t *testing.T) {
	_, err := Open(t.Context(), "ftp://example.com/edges.txt", SourceOptions{})
	if !errors.Is(err, ErrUnsupportedURI) {
		t.Errorf("Expected ErrUnsupportedURI, got %v", err)
	}
}

func TestS3Location(t *testing.T) {
	u, _ := url.Parse("s3://graphs/yeast/collins2007.txt.snappy")
	bucket, key, err := s3Location(u)
	if err != nil {
		t.Fatalf("s3Location failed: %v", err)
	}
	if bucket != "graphs" || key != "yeast/collins2007.txt.snappy" {
		t.Errorf("Unexpected location %s / %s", bucket, key)
	}

	u, _ = url.Parse("s3://graphs")
	if _, _, err := s3Location(u); !errors.Is(err, ErrUnsupportedURI) {
		t.Errorf("Expected ErrUnsupportedURI for missing key, got %v", err)
	}
}

func TestPostgresTarget(t *testing.T) {
	u, _ := url.Parse("postgres://user:pw@localhost:5432/ppi?sslmode=disable&table=interactions.collins")
	dsn, table, err := postgresTarget(u, PostgresOptions{})
	if err != nil {
		t.Fatalf("postgresTarget failed: %v", err)
	}
	if strings.Contains(dsn, "table=") {
		t.Errorf("table parameter should be stripped from DSN: %s", dsn)
	}
	if !strings.Contains(dsn, "sslmode=disable") {
		t.Errorf("Other parameters should be kept: %s", dsn)
	}
	if table.Sanitize() != `"interactions"."collins"` {
		t.Errorf("Unexpected table identifier %s", table.Sanitize())
	}

	u, _ = url.Parse("postgres://localhost/ppi")
	_, table, _ = postgresTarget(u, PostgresOptions{})
	if table.Sanitize() != `"edges"` {
		t.Errorf("Expected default table, got %s", table.Sanitize())
	}

	_, _, err = postgresTarget(u, PostgresOptions{Table: "edges; DROP TABLE x"})
	if !errors.Is(err, ErrInvalidTable) {
		t.Errorf("Expected ErrInvalidTable, got %v", err)
	}
}
