// navdata/query_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package navdata

import "testing"

func buildTestGraph() *NavigationalData {
	g := newGraph(4)
	a := g.addVertex(Fix{Ident: "AAA", IcaoRegion: "K2", TerminalRegion: "ENRT"})
	b := g.addVertex(Fix{Ident: "BBB", IcaoRegion: "K2", TerminalRegion: "ENRT"})
	c := g.addVertex(Fix{Ident: "CCC", IcaoRegion: "K2", TerminalRegion: "ENRT"})
	d := g.addVertex(Fix{Ident: "DDD", IcaoRegion: "K2", TerminalRegion: "ENRT"})

	g.addEdge(a, b, AirwayEdge{Name: "J1"})
	g.addEdge(b, c, AirwayEdge{Name: "J1"})
	g.addEdge(c, d, AirwayEdge{Name: "J2"}) // different airway, should not be followed

	return newNavigationalData(Header{}, Header{}, g, map[string]CIFPFile{})
}

func TestFindNavEntryExhaustive(t *testing.T) {
	nd := buildTestGraph()
	results := nd.FindNavEntry("BBB")
	if len(results) != 1 {
		t.Fatalf("got %d results, expected 1", len(results))
	}
	if identOf(results[0].Entry) != "BBB" {
		t.Errorf("entry ident = %q, expected BBB", identOf(results[0].Entry))
	}
}

func TestFindNavEntryNoFalsePositives(t *testing.T) {
	nd := buildTestGraph()
	if results := nd.FindNavEntry("ZZZ"); len(results) != 0 {
		t.Errorf("got %d results for nonexistent ident, expected 0", len(results))
	}
}

func TestFindNavEntryCacheConsistent(t *testing.T) {
	nd := buildTestGraph()
	first := nd.FindNavEntry("AAA")
	second := nd.FindNavEntry("AAA")
	if len(first) != len(second) || len(first) != 1 {
		t.Errorf("cached and uncached FindNavEntry results differ: %v vs %v", first, second)
	}
}

func TestAirwayFindFollowsOnlyNamedAirway(t *testing.T) {
	nd := buildTestGraph()
	start := nd.FindNavEntry("AAA")[0].Index

	results, err := nd.AirwayFind(start, "J1", "CCC")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || identOf(results[0].Entry) != "CCC" {
		t.Errorf("results = %+v, expected CCC reached via J1", results)
	}

	// DDD is only reachable via J2 from CCC, not via J1 from AAA.
	if _, err := nd.AirwayFind(start, "J1", "DDD"); err == nil {
		t.Errorf("expected NotOnAirwayError since DDD isn't reachable via J1")
	}
}

func TestAirwayFindStartNotOnAirway(t *testing.T) {
	nd := buildTestGraph()
	start := nd.FindNavEntry("DDD")[0].Index // DDD has no J1 edge in either direction

	_, err := nd.AirwayFind(start, "J1", "AAA")
	if err == nil {
		t.Fatalf("expected NotOnAirwayError")
	}
	noe, ok := err.(*NotOnAirwayError)
	if !ok {
		t.Fatalf("got %T, expected *NotOnAirwayError", err)
	}
	if !noe.Start {
		t.Errorf("expected Start=true for a start vertex with no incident edge on the airway")
	}
}

func TestAirwayFindBadStartNode(t *testing.T) {
	nd := buildTestGraph()
	_, err := nd.AirwayFind(NodeIndex(999), "J1", "AAA")
	if err == nil {
		t.Fatalf("expected BadNodeError for an out-of-range start index")
	}
	if _, ok := err.(*BadNodeError); !ok {
		t.Errorf("got %T, expected *BadNodeError", err)
	}
}

func TestAirwayFindCacheReturnsSameError(t *testing.T) {
	nd := buildTestGraph()
	start := nd.FindNavEntry("DDD")[0].Index

	_, err1 := nd.AirwayFind(start, "J1", "AAA")
	_, err2 := nd.AirwayFind(start, "J1", "AAA")
	if err1 == nil || err2 == nil {
		t.Fatalf("expected both calls to error")
	}
	if err1.Error() != err2.Error() {
		t.Errorf("cached error differs from original: %q vs %q", err1, err2)
	}
}
