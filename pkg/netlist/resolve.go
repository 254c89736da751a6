package netlist

// NetMap is the result of net resolution: every terminal mapped to a net
// index. Ground is always net 0 and is excluded from the unknown vector;
// the remaining nets are numbered 1..NumNets in encounter order.
type NetMap struct {
	nets      map[TerminalRef]int
	NumNets   int
	HasGround bool
}

// Net returns the net index of a terminal, -1 for unknown terminals.
func (nm *NetMap) Net(ref TerminalRef) int {
	if n, ok := nm.nets[ref]; ok {
		return n
	}
	return -1
}

// Resolve groups terminals into nets with union-find over the completed
// wires. A group containing any terminal of a Ground component becomes the
// ground net. Unwired terminals form singleton nets of their own.
func (c *Circuit) Resolve() *NetMap {
	parent := make(map[TerminalRef]TerminalRef)
	rank := make(map[TerminalRef]int)

	for _, comp := range c.Components {
		for pin := 0; pin < comp.Kind.TerminalCount(); pin++ {
			ref := TerminalRef{Component: comp.ID, Pin: pin}
			parent[ref] = ref
			rank[ref] = 0
		}
	}

	// Iterative find with path compression.
	find := func(u TerminalRef) TerminalRef {
		for parent[u] != u {
			parent[u] = parent[parent[u]]
			u = parent[u]
		}
		return u
	}

	// Union by rank.
	union := func(u, v TerminalRef) {
		rootU, rootV := find(u), find(v)
		if rootU == rootV {
			return
		}
		if rank[rootU] < rank[rootV] {
			parent[rootU] = rootV
			return
		}
		parent[rootV] = rootU
		if rank[rootU] == rank[rootV] {
			rank[rootU]++
		}
	}

	for _, w := range c.Wires {
		if _, ok := parent[w.A]; !ok {
			continue
		}
		if _, ok := parent[w.B]; !ok {
			continue
		}
		union(w.A, w.B)
	}

	// Any terminal of a ground component drags its whole group to net 0.
	grounded := make(map[TerminalRef]bool)
	for _, comp := range c.Components {
		if comp.Kind != Ground {
			continue
		}
		grounded[find(TerminalRef{Component: comp.ID, Pin: 0})] = true
	}

	nm := &NetMap{nets: make(map[TerminalRef]int), HasGround: len(grounded) > 0}
	assigned := make(map[TerminalRef]int)
	for _, comp := range c.Components {
		for pin := 0; pin < comp.Kind.TerminalCount(); pin++ {
			ref := TerminalRef{Component: comp.ID, Pin: pin}
			root := find(ref)
			if grounded[root] {
				nm.nets[ref] = 0
				continue
			}
			idx, ok := assigned[root]
			if !ok {
				nm.NumNets++
				idx = nm.NumNets
				assigned[root] = idx
			}
			nm.nets[ref] = idx
		}
	}

	return nm
}
