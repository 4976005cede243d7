// navdata/query.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package navdata

const defaultQueryCacheSize = 4096

// QueryResult pairs a vertex index with its entry, as returned by
// FindNavEntry and AirwayFind.
type QueryResult struct {
	Index NodeIndex
	Entry NavEntry
}

func identOf(e NavEntry) string {
	switch v := e.(type) {
	case Fix:
		return v.Ident
	case Navaid:
		return v.Ident
	default:
		return ""
	}
}

// FindNavEntry performs a linear scan of the graph for all vertices
// whose ident equals the argument — idents are not globally unique;
// region disambiguates in practice, so callers filter the result
// further on IcaoRegion/TerminalRegion as needed.
func (nd *NavigationalData) FindNavEntry(ident string) []QueryResult {
	if cached, ok := nd.findCache.Get(ident); ok {
		return cached
	}

	var out []QueryResult
	for i := 0; i < nd.Graph.NumVertices(); i++ {
		entry, _ := nd.Graph.Vertex(NodeIndex(i))
		if identOf(entry) == ident {
			out = append(out, QueryResult{Index: NodeIndex(i), Entry: entry})
		}
	}
	nd.findCache.Add(ident, out)
	return out
}

type airwayFindKey struct {
	start NodeIndex
	awy   string
	end   string
}

// AirwayFind traverses the subgraph of edges named awy starting from
// start, collecting every reachable vertex whose ident equals end. The
// traversal is a post-order depth-first search that visits each vertex
// at most once and terminates.
func (nd *NavigationalData) AirwayFind(start NodeIndex, awy, end string) ([]QueryResult, error) {
	key := airwayFindKey{start: start, awy: awy, end: end}
	if cached, ok := nd.airwayCache.Get(key); ok {
		if cached.err != nil {
			return nil, cached.err
		}
		return cached.results, nil
	}

	results, err := nd.airwayFindUncached(start, awy, end)
	nd.airwayCache.Add(key, airwayFindCacheEntry{results: results, err: err})
	if err != nil {
		return nil, err
	}
	return results, nil
}

type airwayFindCacheEntry struct {
	results []QueryResult
	err     error
}

func (nd *NavigationalData) airwayFindUncached(start NodeIndex, awy, end string) ([]QueryResult, error) {
	g := nd.Graph
	if int(start) < 0 || int(start) >= g.NumVertices() {
		return nil, newBadNodeError(int(start))
	}

	onAirway := func(idx NodeIndex) []graphEdge {
		var out []graphEdge
		for _, e := range g.OutgoingEdges(idx) {
			if ae, ok := e.Payload.(AirwayEdge); ok && ae.Name == awy {
				out = append(out, e)
			}
		}
		return out
	}

	// start must be incident to at least one edge of the airway, in
	// either direction.
	incident := len(onAirway(start)) > 0
	for _, e := range g.edges {
		if incident {
			break
		}
		if ae, ok := e.Payload.(AirwayEdge); ok && ae.Name == awy && e.To == start {
			incident = true
		}
	}
	if !incident {
		return nil, newNotOnAirwayError(identOf(mustVertex(g, start)), awy, true)
	}

	visited := make(map[NodeIndex]bool)
	var results []QueryResult

	// Post-order DFS: recurse into children before recording the
	// current vertex.
	var visit func(idx NodeIndex)
	visit = func(idx NodeIndex) {
		if visited[idx] {
			return
		}
		visited[idx] = true
		for _, e := range onAirway(idx) {
			visit(e.To)
		}
		entry := mustVertex(g, idx)
		if identOf(entry) == end {
			results = append(results, QueryResult{Index: idx, Entry: entry})
		}
	}
	visit(start)

	if len(results) == 0 {
		return nil, newNotOnAirwayError(identOf(mustVertex(g, start)), awy, false)
	}
	return results, nil
}

func mustVertex(g *Graph, idx NodeIndex) NavEntry {
	entry, _ := g.Vertex(idx)
	return entry
}
