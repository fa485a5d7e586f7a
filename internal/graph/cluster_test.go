package graph

import (
	"reflect"
	"testing"

	"github.com/hyperjump/kizuna/internal/models"
)

func TestClusters(t *testing.T) {
	tests := []struct {
		name string
		ids  []string
		rels []*models.Relationship
		want [][]string
	}{
		{
			name: "no edges yields singletons",
			ids:  []string{"doc:b", "doc:a"},
			want: [][]string{{"doc:a"}, {"doc:b"}},
		},
		{
			name: "chain forms one component",
			ids:  []string{"doc:a", "doc:b", "doc:c"},
			rels: []*models.Relationship{
				rel("doc:a", "doc:b", 0.9),
				rel("doc:b", "doc:c", 0.9),
			},
			want: [][]string{{"doc:a", "doc:b", "doc:c"}},
		},
		{
			name: "two components plus singleton",
			ids:  []string{"doc:a", "doc:b", "doc:c", "doc:d", "doc:e"},
			rels: []*models.Relationship{
				rel("doc:a", "doc:b", 0.9),
				rel("doc:c", "doc:d", 0.9),
			},
			want: [][]string{{"doc:a", "doc:b"}, {"doc:c", "doc:d"}, {"doc:e"}},
		},
		{
			name: "cycle stays one component",
			ids:  []string{"doc:a", "doc:b", "doc:c"},
			rels: []*models.Relationship{
				rel("doc:a", "doc:b", 0.9),
				rel("doc:b", "doc:c", 0.9),
				rel("doc:c", "doc:a", 0.9),
			},
			want: [][]string{{"doc:a", "doc:b", "doc:c"}},
		},
		{
			name: "empty graph",
			want: [][]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := buildGraph(t, tt.ids, tt.rels)
			if got := g.Clusters(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Clusters() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClustersPartition(t *testing.T) {
	g := buildGraph(t, []string{"doc:a", "doc:b", "doc:c", "doc:d"}, []*models.Relationship{
		rel("doc:a", "doc:d", 0.9),
	})

	seen := make(map[string]int)
	for _, cluster := range g.Clusters() {
		for _, id := range cluster {
			seen[id]++
		}
	}
	if len(seen) != g.Len() {
		t.Errorf("clusters cover %d documents, want %d", len(seen), g.Len())
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("document %s appears in %d clusters, want exactly 1", id, n)
		}
	}
}
