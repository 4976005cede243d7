// navdata/graph.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package navdata

import (
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/jdemille/xpnav/log"
	"github.com/jdemille/xpnav/util"
)

// NavEntry is the sum type over {Fix, Navaid} that a graph vertex carries.
type NavEntry interface {
	navEntryKind() string
}

func (Fix) navEntryKind() string    { return "Fix" }
func (Navaid) navEntryKind() string { return "Navaid" }

// NavEdge is the sum type over {AirwayEdge, HoldEdge} that a graph edge
// carries.
type NavEdge interface {
	navEdgeKind() string
}

func (AirwayEdge) navEdgeKind() string { return "Airway" }
func (HoldEdge) navEdgeKind() string   { return "Hold" }

// NodeIndex indexes a vertex in a Graph; stable for the graph's lifetime
// (no deletions are defined).
type NodeIndex int

type graphEdge struct {
	From, To NodeIndex
	Payload  NavEdge
}

// Graph is a directed multigraph over NavEntry vertices and NavEdge
// edges. It exclusively owns all entries and edges; queries return
// indices plus borrowed references.
type Graph struct {
	vertices []NavEntry
	edges    []graphEdge
	outgoing map[NodeIndex][]int // vertex -> indices into edges
}

func newGraph(capacity int) *Graph {
	return &Graph{
		vertices: make([]NavEntry, 0, capacity),
		outgoing: make(map[NodeIndex][]int),
	}
}

func (g *Graph) addVertex(e NavEntry) NodeIndex {
	idx := NodeIndex(len(g.vertices))
	g.vertices = append(g.vertices, e)
	return idx
}

func (g *Graph) addEdge(from, to NodeIndex, payload NavEdge) {
	idx := len(g.edges)
	g.edges = append(g.edges, graphEdge{From: from, To: to, Payload: payload})
	g.outgoing[from] = append(g.outgoing[from], idx)
}

// Vertex returns the entry at idx.
func (g *Graph) Vertex(idx NodeIndex) (NavEntry, bool) {
	if idx < 0 || int(idx) >= len(g.vertices) {
		return nil, false
	}
	return g.vertices[idx], true
}

// NumVertices returns the number of vertices in the graph.
func (g *Graph) NumVertices() int { return len(g.vertices) }

// OutgoingEdges returns the edges leaving idx.
func (g *Graph) OutgoingEdges(idx NodeIndex) []graphEdge {
	out := g.outgoing[idx]
	edges := make([]graphEdge, len(out))
	for i, e := range out {
		edges[i] = g.edges[e]
	}
	return edges
}

///////////////////////////////////////////////////////////////////////////
// NavigationalData — the top-level container.

// NavigationalData is the fully built navigation database for one AIRAC
// cycle: the fix header, the navaid header, the graph, and per-airport
// CIFP procedures. Headers for the airway and hold files are validated
// against the fix cycle and then discarded.
type NavigationalData struct {
	FixHeader    Header
	NavaidHeader Header
	Graph        *Graph
	// CIFP maps airport ICAO identifier to that airport's decoded
	// procedures and runways.
	CIFP map[string]CIFPFile

	findCache   *lru.Cache[string, []QueryResult]
	airwayCache *lru.Cache[airwayFindKey, airwayFindCacheEntry]
}

func newNavigationalData(fixHeader, navHeader Header, g *Graph, cifp map[string]CIFPFile) *NavigationalData {
	findCache, _ := lru.New[string, []QueryResult](defaultQueryCacheSize)
	airwayCache, _ := lru.New[airwayFindKey, airwayFindCacheEntry](defaultQueryCacheSize)
	return &NavigationalData{
		FixHeader:    fixHeader,
		NavaidHeader: navHeader,
		Graph:        g,
		CIFP:         cifp,
		findCache:    findCache,
		airwayCache:  airwayCache,
	}
}

type buildConfig struct {
	logger         *log.Logger
	cacheDir       string
	maxCIFPWorkers int
}

// Option configures BuildFromFolder.
type Option func(*buildConfig)

// WithLogger attaches a logger to the build process.
func WithLogger(l *log.Logger) Option { return func(c *buildConfig) { c.logger = l } }

// WithCache enables an on-disk snapshot cache rooted at dir; a
// matching cached snapshot (same version/cycle/build)
// short-circuits re-parsing.
func WithCache(dir string) Option { return func(c *buildConfig) { c.cacheDir = dir } }

// WithMaxCIFPWorkers bounds the number of per-airport CIFP files parsed
// concurrently (default 8).
func WithMaxCIFPWorkers(n int) Option { return func(c *buildConfig) { c.maxCIFPWorkers = n } }

func fixIdentity(f Fix) [3]string { return [3]string{f.Ident, f.IcaoRegion, f.TerminalRegion} }

func overlayFixes(base []Fix, overlay []Fix) []Fix {
	index := make(map[[3]string]int, len(base))
	for i, f := range base {
		index[fixIdentity(f)] = i
	}
	for _, uf := range overlay {
		id := fixIdentity(uf)
		if i, ok := index[id]; ok {
			base[i] = uf
		} else {
			index[id] = len(base)
			base = append(base, uf)
		}
	}
	return base
}

type navaidIdentity struct {
	ident, region, discriminant string
}

func navaidIdentityOf(n Navaid) navaidIdentity {
	return navaidIdentity{ident: n.Ident, region: n.IcaoRegion, discriminant: navaidDiscriminant(n.TypeData)}
}

func overlayNavaids(base []Navaid, overlay []Navaid) []Navaid {
	index := make(map[navaidIdentity]int, len(base))
	for i, n := range base {
		index[navaidIdentityOf(n)] = i
	}
	for _, un := range overlay {
		id := navaidIdentityOf(un)
		if i, ok := index[id]; ok {
			base[i] = un
		} else {
			index[id] = len(base)
			base = append(base, un)
		}
	}
	return base
}

// matchWptPredicate implements the waypoint-reference-resolution rules
// rules: a parsed reference matches a Fix vertex on (ident, region); a
// VHF reference matches a VOR or a display-frequency DME; an NDB
// reference matches an NDB.
func matchWptPredicate(ref ParsedNodeRef, entry NavEntry) bool {
	switch e := entry.(type) {
	case Fix:
		return ref.Kind == WptKindFix && e.Ident == ref.Ident && e.IcaoRegion == ref.IcaoRegion
	case Navaid:
		if e.Ident != ref.Ident || e.IcaoRegion != ref.IcaoRegion {
			return false
		}
		switch ref.Kind {
		case WptKindVHF:
			switch td := e.TypeData.(type) {
			case VOR:
				return true
			case DME:
				return td.DisplayFreq
			}
			return false
		case WptKindNDB:
			_, ok := e.TypeData.(NDB)
			return ok
		}
	}
	return false
}

func findVertex(g *Graph, ref ParsedNodeRef) (NodeIndex, bool) {
	for i := 0; i < g.NumVertices(); i++ {
		entry, _ := g.Vertex(NodeIndex(i))
		if matchWptPredicate(ref, entry) {
			return NodeIndex(i), true
		}
	}
	return 0, false
}

// matchHoldPointPredicate is the terminal-region-aware pre-filter of
// rules: fixes must share the hold's terminal region; VORs match only
// when the hold's terminal region is ENRT; NDBs/DMEs must share the
// hold's terminal region.
func matchHoldPointPredicate(ref ParsedNodeRef, terminalRegion string, entry NavEntry) bool {
	switch e := entry.(type) {
	case Fix:
		return ref.Kind == WptKindFix && e.Ident == ref.Ident && e.IcaoRegion == ref.IcaoRegion &&
			e.TerminalRegion == terminalRegion
	case Navaid:
		if e.Ident != ref.Ident || e.IcaoRegion != ref.IcaoRegion {
			return false
		}
		switch ref.Kind {
		case WptKindVHF:
			if _, ok := e.TypeData.(VOR); ok {
				return terminalRegion == "ENRT"
			}
			if td, ok := e.TypeData.(DME); ok {
				return td.DisplayFreq && e.TerminalRegion == terminalRegion
			}
			return false
		case WptKindNDB:
			_, ok := e.TypeData.(NDB)
			return ok && e.TerminalRegion == terminalRegion
		}
	}
	return false
}

func findHoldVertex(g *Graph, ref ParsedNodeRef, terminalRegion string) (NodeIndex, bool) {
	for i := 0; i < g.NumVertices(); i++ {
		entry, _ := g.Vertex(NodeIndex(i))
		if matchHoldPointPredicate(ref, terminalRegion, entry) {
			return NodeIndex(i), true
		}
	}
	return 0, false
}

// BuildFromFolder parses the navigation-data files in dir and
// assembles a NavigationalData. Construction is single-threaded and
// synchronous except for per-airport CIFP parsing, which runs on a
// bounded worker pool. A failure anywhere aborts and discards the
// partially built value — there is no partial-failure recovery.
func BuildFromFolder(dir string, opts ...Option) (*NavigationalData, error) {
	cfg := buildConfig{logger: log.Discard(), maxCIFPWorkers: 8}
	for _, o := range opts {
		o(&cfg)
	}

	if cfg.cacheDir != "" {
		if nd, ok := tryLoadCache(cfg.cacheDir, dir, cfg.logger); ok {
			return nd, nil
		}
	}

	fixAcceptTag := func(tag string) bool { return tag == "FixXP1100" || tag == "FixXP1200" }
	fixes, fixHeader, err := loadFixes(dir, fixAcceptTag)
	if err != nil {
		return nil, err
	}

	navAcceptTag := func(tag string) bool { return tag == "NavXP1150" || tag == "NavXP1200" }
	navaids, navHeader, err := loadNavaids(dir, navAcceptTag)
	if err != nil {
		return nil, err
	}
	if navHeader.Cycle != fixHeader.Cycle {
		return nil, newCycleMismatchError(fixHeader.Cycle, navHeader.Cycle)
	}

	g := newGraph(len(fixes) + len(navaids))
	for _, f := range fixes {
		g.addVertex(f)
	}
	for _, n := range navaids {
		g.addVertex(n)
	}

	awyPath, err := requiredFile(dir, "earth_awy.dat")
	if err != nil {
		return nil, err
	}
	awyAcceptTag := func(tag string) bool { return tag == "AwyXP1100" }
	awyHeader, awyRows, err := readAirwayFile(awyPath, awyAcceptTag)
	if err != nil {
		return nil, err
	}
	if awyHeader.Cycle != fixHeader.Cycle {
		return nil, newCycleMismatchError(fixHeader.Cycle, awyHeader.Cycle)
	}
	if err := applyAirwayRows(g, awyRows); err != nil {
		return nil, err
	}

	holdPath, err := requiredFile(dir, "earth_hold.dat")
	if err != nil {
		return nil, err
	}
	holdAcceptTag := func(tag string) bool { return tag == "HoldXP1140" }
	holdHeader, holdRows, err := readHoldFile(holdPath, holdAcceptTag)
	if err != nil {
		return nil, err
	}
	if holdHeader.Cycle != fixHeader.Cycle {
		return nil, newCycleMismatchError(fixHeader.Cycle, holdHeader.Cycle)
	}
	if err := applyHoldRows(g, holdRows); err != nil {
		return nil, err
	}

	cifp, err := loadCIFP(dir, cfg.maxCIFPWorkers)
	if err != nil {
		return nil, err
	}

	nd := newNavigationalData(fixHeader, navHeader, g, cifp)

	if cfg.cacheDir != "" {
		if err := storeCache(cfg.cacheDir, dir, nd); err != nil {
			cfg.logger.Warnf("navdata: failed to write cache: %v", err)
		}
	}

	return nd, nil
}

func requiredFile(dir, name string) (string, error) {
	path, err := util.ResolveDataFile(dir, name)
	if err != nil {
		return "", newIOError(err)
	}
	return path, nil
}

func loadFixes(dir string, acceptTag func(string) bool) ([]Fix, Header, error) {
	path, err := requiredFile(dir, "earth_fix.dat")
	if err != nil {
		return nil, Header{}, err
	}
	rc, err := util.OpenMaybeCompressed(path)
	if err != nil {
		return nil, Header{}, newIOError(err)
	}
	defer rc.Close()

	header, fixes, err := parseFixFile(rc, acceptTag, XP1101, XP1200)
	if err != nil {
		return nil, Header{}, err
	}

	userPath := filepath.Join(dir, "user_fix.dat")
	if _, statErr := os.Stat(userPath); statErr == nil {
		urc, err := util.OpenMaybeCompressed(userPath)
		if err != nil {
			return nil, Header{}, newIOError(err)
		}
		defer urc.Close()

		_, userFixes, err := parseFixFile(urc, acceptTag, XP1101, XP1200)
		if err != nil {
			return nil, Header{}, err
		}
		fixes = overlayFixes(fixes, userFixes)
	}

	return fixes, header, nil
}

func loadNavaids(dir string, acceptTag func(string) bool) ([]Navaid, Header, error) {
	path, err := requiredFile(dir, "earth_nav.dat")
	if err != nil {
		return nil, Header{}, err
	}
	rc, err := util.OpenMaybeCompressed(path)
	if err != nil {
		return nil, Header{}, newIOError(err)
	}
	defer rc.Close()

	header, navaids, err := parseNavaidFile(rc, acceptTag, XP1150, XP1200)
	if err != nil {
		return nil, Header{}, err
	}

	userPath := filepath.Join(dir, "user_nav.dat")
	if _, statErr := os.Stat(userPath); statErr == nil {
		urc, err := util.OpenMaybeCompressed(userPath)
		if err != nil {
			return nil, Header{}, newIOError(err)
		}
		defer urc.Close()

		_, userNavaids, err := parseNavaidFile(urc, acceptTag, XP1150, XP1200)
		if err != nil {
			return nil, Header{}, err
		}
		navaids = overlayNavaids(navaids, userNavaids)
	}

	return navaids, header, nil
}

func readAirwayFile(path string, acceptTag func(string) bool) (Header, []airwayRow, error) {
	rc, err := util.OpenMaybeCompressed(path)
	if err != nil {
		return Header{}, nil, newIOError(err)
	}
	defer rc.Close()
	return parseAirwayFile(rc, acceptTag)
}

func readHoldFile(path string, acceptTag func(string) bool) (Header, []holdRow, error) {
	rc, err := util.OpenMaybeCompressed(path)
	if err != nil {
		return Header{}, nil, newIOError(err)
	}
	defer rc.Close()
	return parseHoldFile(rc, acceptTag)
}

// applyAirwayRows resolves each row's endpoints and adds one edge per
// name for an F/B direction, or two (both directions) for N.
func applyAirwayRows(g *Graph, rows []airwayRow) error {
	for _, row := range rows {
		start, ok := findVertex(g, row.Start)
		if !ok {
			return newReferencedNonexistentWptError(row.Start.Ident)
		}
		end, ok := findVertex(g, row.End)
		if !ok {
			return newReferencedNonexistentWptError(row.End.Ident)
		}

		for _, name := range row.Names {
			payload := AirwayEdge{Name: name, BaseFL: row.BaseFL, TopFL: row.TopFL, IsHigh: row.IsHigh}
			switch row.Direction {
			case 'N':
				g.addEdge(start, end, payload)
				g.addEdge(end, start, payload)
			case 'F':
				g.addEdge(start, end, payload)
			case 'B':
				g.addEdge(end, start, payload)
			default:
				return newInvalidAwyDirError(row.Direction)
			}
		}
	}
	return nil
}

func applyHoldRows(g *Graph, rows []holdRow) error {
	for _, row := range rows {
		idx, ok := findHoldVertex(g, row.Node, row.TerminalRegion)
		if !ok {
			return newReferencedNonexistentWptError(row.Node.Ident)
		}
		g.addEdge(idx, idx, row.Edge)
	}
	return nil
}

func loadCIFP(dir string, maxWorkers int) (map[string]CIFPFile, error) {
	cifpDir := filepath.Join(dir, "CIFP")
	entries, err := os.ReadDir(cifpDir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]CIFPFile{}, nil
		}
		return nil, newIOError(err)
	}

	type result struct {
		icao string
		file CIFPFile
	}

	results := make([]result, len(entries))
	g := new(errgroup.Group)
	if maxWorkers > 0 {
		g.SetLimit(maxWorkers)
	}

	for i, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".dat") {
			continue
		}
		g.Go(func() error {
			path := filepath.Join(cifpDir, e.Name())
			f, err := os.Open(path)
			if err != nil {
				return newIOError(err)
			}
			defer f.Close()

			parsed, err := ParseCIFPFile(f)
			if err != nil {
				return err
			}
			results[i] = result{icao: strings.TrimSuffix(e.Name(), ".dat"), file: parsed}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]CIFPFile, len(entries))
	for _, r := range results {
		if r.icao != "" {
			out[r.icao] = r.file
		}
	}
	return out, nil
}
