package graph

import "sort"

// unionFind implements disjoint sets with path compression and union by rank.
type unionFind struct {
	parent map[string]string
	rank   map[string]int
}

func newUnionFind() *unionFind {
	return &unionFind{
		parent: make(map[string]string),
		rank:   make(map[string]int),
	}
}

func (u *unionFind) add(id string) {
	if _, ok := u.parent[id]; !ok {
		u.parent[id] = id
	}
}

func (u *unionFind) find(id string) string {
	root := id
	for u.parent[root] != root {
		root = u.parent[root]
	}
	for u.parent[id] != root {
		u.parent[id], id = root, u.parent[id]
	}
	return root
}

func (u *unionFind) union(a, b string) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	if u.rank[ra] < u.rank[rb] {
		ra, rb = rb, ra
	}
	u.parent[rb] = ra
	if u.rank[ra] == u.rank[rb] {
		u.rank[ra]++
	}
}

// Clusters partitions all documents into connected components; documents with
// no edges form singleton clusters. Each cluster is sorted by id, and
// clusters are sorted by their first id.
func (g *Graph) Clusters() [][]string {
	uf := newUnionFind()
	for id := range g.docs {
		uf.add(id)
	}
	for _, rel := range g.edges {
		uf.union(rel.SourceID, rel.TargetID)
	}

	byRoot := make(map[string][]string)
	for id := range g.docs {
		root := uf.find(id)
		byRoot[root] = append(byRoot[root], id)
	}

	out := make([][]string, 0, len(byRoot))
	for _, members := range byRoot {
		sort.Strings(members)
		out = append(out, members)
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}
