// navdata/cache.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package navdata

import (
	"bufio"
	"crypto/sha1"
	"encoding/hex"

	"github.com/iancoleman/orderedmap"

	"github.com/jdemille/xpnav/log"
	"github.com/jdemille/xpnav/util"
)

// A built Graph and CIFPFile hold values behind interfaces
// (NavEntry/NavEdge on the graph, TypeSpecificData inside Navaid) that
// msgpack cannot decode without a registered concrete type. snapshot and
// its nested *Snapshot types are the concrete, tag-plus-payload mirror
// of those values used only for on-disk caching; this mirrors the
// flatten-then-reconstruct approach the teacher's pkg/util cache takes
// with plain structs, extended here to cover our sum types.
type snapshot struct {
	FixHeader    Header
	NavaidHeader Header
	Fixes        []Fix
	Navaids      []navaidSnapshot
	Edges        []edgeSnapshot
	CIFP         map[string]cifpFileSnapshot
}

type navaidSnapshot struct {
	Lat, Lon       float64
	ElevationFt    int32
	Ident          string
	IcaoRegion     string
	TerminalRegion string
	Kind           string
	NDB            NDB
	VOR            VOR
	Localizer      Localizer
	Glideslope     Glideslope
	MarkerBeacon   MarkerBeacon
	DME            DME
	FPAP           FPAP
	ThresholdPoint ThresholdPoint
	GLS            GLS
}

func toNavaidSnapshot(n Navaid) navaidSnapshot {
	s := navaidSnapshot{
		Lat: n.Lat, Lon: n.Lon, ElevationFt: n.ElevationFt,
		Ident: n.Ident, IcaoRegion: n.IcaoRegion, TerminalRegion: n.TerminalRegion,
		Kind: n.TypeData.navaidKind(),
	}
	switch t := n.TypeData.(type) {
	case NDB:
		s.NDB = t
	case VOR:
		s.VOR = t
	case Localizer:
		s.Localizer = t
	case Glideslope:
		s.Glideslope = t
	case MarkerBeacon:
		s.MarkerBeacon = t
	case DME:
		s.DME = t
	case FPAP:
		s.FPAP = t
	case ThresholdPoint:
		s.ThresholdPoint = t
	case GLS:
		s.GLS = t
	}
	return s
}

func (s navaidSnapshot) toNavaid() Navaid {
	n := Navaid{
		Lat: s.Lat, Lon: s.Lon, ElevationFt: s.ElevationFt,
		Ident: s.Ident, IcaoRegion: s.IcaoRegion, TerminalRegion: s.TerminalRegion,
	}
	switch s.Kind {
	case s.NDB.navaidKind():
		n.TypeData = s.NDB
	case s.VOR.navaidKind():
		n.TypeData = s.VOR
	case s.Localizer.navaidKind():
		n.TypeData = s.Localizer
	case s.Glideslope.navaidKind():
		n.TypeData = s.Glideslope
	case s.MarkerBeacon.navaidKind():
		n.TypeData = s.MarkerBeacon
	case s.DME.navaidKind():
		n.TypeData = s.DME
	case s.FPAP.navaidKind():
		n.TypeData = s.FPAP
	case s.ThresholdPoint.navaidKind():
		n.TypeData = s.ThresholdPoint
	case s.GLS.navaidKind():
		n.TypeData = s.GLS
	}
	return n
}

type edgeSnapshot struct {
	From, To int
	Kind     string // "Airway" or "Hold"
	Airway   AirwayEdge
	Hold     HoldEdge
}

type cifpFileSnapshot struct {
	ProcedureKeys []string
	ProcedureVals []CIFPProcedure
	Runways       []CIFPRunwayRow
}

func toCIFPFileSnapshot(f CIFPFile) cifpFileSnapshot {
	s := cifpFileSnapshot{Runways: f.Runways}
	if f.Procedures == nil {
		return s
	}
	for _, key := range f.Procedures.Keys() {
		v, ok := f.Procedures.Get(key)
		if !ok {
			continue
		}
		proc, ok := v.(*CIFPProcedure)
		if !ok {
			continue
		}
		s.ProcedureKeys = append(s.ProcedureKeys, key)
		s.ProcedureVals = append(s.ProcedureVals, *proc)
	}
	return s
}

func (s cifpFileSnapshot) toCIFPFile() CIFPFile {
	f := CIFPFile{Procedures: orderedmap.New(), Runways: s.Runways}
	for i, key := range s.ProcedureKeys {
		proc := s.ProcedureVals[i]
		f.Procedures.Set(key, &proc)
	}
	return f
}

func toSnapshot(nd *NavigationalData) snapshot {
	g := nd.Graph
	s := snapshot{
		FixHeader:    nd.FixHeader,
		NavaidHeader: nd.NavaidHeader,
		CIFP:         make(map[string]cifpFileSnapshot, len(nd.CIFP)),
	}
	for i := 0; i < g.NumVertices(); i++ {
		entry, _ := g.Vertex(NodeIndex(i))
		switch e := entry.(type) {
		case Fix:
			s.Fixes = append(s.Fixes, e)
		case Navaid:
			s.Navaids = append(s.Navaids, toNavaidSnapshot(e))
		}
	}
	for _, e := range g.edges {
		es := edgeSnapshot{From: int(e.From), To: int(e.To)}
		switch p := e.Payload.(type) {
		case AirwayEdge:
			es.Kind, es.Airway = "Airway", p
		case HoldEdge:
			es.Kind, es.Hold = "Hold", p
		}
		s.Edges = append(s.Edges, es)
	}
	for icao, f := range nd.CIFP {
		s.CIFP[icao] = toCIFPFileSnapshot(f)
	}
	return s
}

func (s snapshot) toNavigationalData() *NavigationalData {
	g := newGraph(len(s.Fixes) + len(s.Navaids))
	for _, f := range s.Fixes {
		g.addVertex(f)
	}
	for _, n := range s.Navaids {
		g.addVertex(n.toNavaid())
	}
	for _, es := range s.Edges {
		var payload NavEdge
		switch es.Kind {
		case "Airway":
			payload = es.Airway
		case "Hold":
			payload = es.Hold
		}
		g.addEdge(NodeIndex(es.From), NodeIndex(es.To), payload)
	}

	cifp := make(map[string]CIFPFile, len(s.CIFP))
	for icao, f := range s.CIFP {
		cifp[icao] = f.toCIFPFile()
	}

	return newNavigationalData(s.FixHeader, s.NavaidHeader, g, cifp)
}

// cacheFingerprint names the snapshot file for one AIRAC cycle's worth of
// source data, so a build against a different folder never hits a stale
// snapshot by accident.
func cacheFingerprint(dir string) string {
	h := sha1.New()
	h.Write([]byte(dir))
	return hex.EncodeToString(h.Sum(nil))
}

func snapshotName(dir string) string {
	return "xpnav-graph-" + cacheFingerprint(dir) + ".cache"
}

func tryLoadCache(cacheDir, dir string, lg *log.Logger) (*NavigationalData, bool) {
	var s snapshot
	if _, err := util.CacheRetrieveObject(cacheDir, snapshotName(dir), &s); err != nil {
		return nil, false
	}

	fixPath, err := requiredFile(dir, "earth_fix.dat")
	if err != nil {
		return nil, false
	}
	if currentHeaderMatches(fixPath, s.FixHeader) {
		return s.toNavigationalData(), true
	}
	lg.Warnf("navdata: discarding stale cache for %s", dir)
	return nil, false
}

// currentHeaderMatches re-reads just the two-line header of the current
// earth_fix.dat to confirm the cache still matches the cycle/build on
// disk, without re-parsing the whole file.
func currentHeaderMatches(path string, cached Header) bool {
	h, err := peekFileHeader(path)
	if err != nil {
		return false
	}
	return h.Cycle == cached.Cycle && h.Build == cached.Build && h.Version == cached.Version
}

func storeCache(cacheDir, dir string, nd *NavigationalData) error {
	if err := util.CacheStoreObject(cacheDir, snapshotName(dir), toSnapshot(nd)); err != nil {
		return newIOError(err)
	}
	return nil
}

// CullCache trims the on-disk snapshot cache at cacheDir (as configured
// via WithCache) down to maxBytes, removing the oldest snapshots first.
// Callers running long-lived processes that rebuild against many AIRAC
// cycles over time may want to call this periodically.
func CullCache(cacheDir string, maxBytes int64) error {
	return util.CacheCullObjects(cacheDir, maxBytes)
}

func peekFileHeader(path string) (Header, error) {
	rc, err := util.OpenMaybeCompressed(path)
	if err != nil {
		return Header{}, err
	}
	defer rc.Close()

	sc := bufio.NewScanner(rc)
	sc.Buffer(make([]byte, 0, 4096), 1<<20)
	return readHeader("header", sc, nil)
}
