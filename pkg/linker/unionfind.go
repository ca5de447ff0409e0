package linker

// disjointSet is a flat, index-based union-find with path compression and
// union by size. Elements are row indices into the ingestion buffer, so no
// per-node allocation is needed beyond the two int slices.
type disjointSet struct {
	parent []int
	size   []int
}

func newDisjointSet(n int) *disjointSet {
	d := &disjointSet{
		parent: make([]int, n),
		size:   make([]int, n),
	}
	for i := range d.parent {
		d.parent[i] = i
		d.size[i] = 1
	}
	return d
}

// find returns the root of the set containing x, compressing the path on the
// way up.
func (d *disjointSet) find(x int) int {
	root := x
	for d.parent[root] != root {
		root = d.parent[root]
	}
	for d.parent[x] != root {
		d.parent[x], x = root, d.parent[x]
	}
	return root
}

// union merges the sets containing x and y, attaching the smaller tree under
// the larger one.
func (d *disjointSet) union(x, y int) {
	rootX := d.find(x)
	rootY := d.find(y)
	if rootX == rootY {
		return
	}
	if d.size[rootX] < d.size[rootY] {
		rootX, rootY = rootY, rootX
	}
	d.parent[rootY] = rootX
	d.size[rootX] += d.size[rootY]
}

// sameSet reports whether x and y are in the same set.
func (d *disjointSet) sameSet(x, y int) bool {
	return d.find(x) == d.find(y)
}
