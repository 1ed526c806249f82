// Package storage writes finished edges to files or a graph database and
// reads edge files back.
package storage

import (
	"github.com/pkg/errors"

	"github.com/athapong/kgimport/pkg/graph"
	"github.com/athapong/kgimport/pkg/graph/nodes"
)

// edgeRecord is the on-disk shape of an edge, shared by the msgpack and
// JSON encodings.
type edgeRecord struct {
	URI         string         `json:"uri" msgpack:"uri"`
	Rel         string         `json:"rel" msgpack:"rel"`
	Start       string         `json:"start" msgpack:"start"`
	End         string         `json:"end" msgpack:"end"`
	Dataset     string         `json:"dataset" msgpack:"dataset"`
	Sources     []graph.Source `json:"sources" msgpack:"sources"`
	License     string         `json:"license" msgpack:"license"`
	Weight      float64        `json:"weight" msgpack:"weight"`
	SurfaceText string         `json:"surfaceText,omitempty" msgpack:"surfaceText,omitempty"`
}

func toRecord(e graph.Edge) edgeRecord {
	return edgeRecord{
		URI:         e.URI(),
		Rel:         e.Rel.URI(),
		Start:       e.Start.String(),
		End:         e.End.String(),
		Dataset:     e.Dataset,
		Sources:     []graph.Source{e.Source},
		License:     e.License,
		Weight:      e.Weight,
		SurfaceText: e.SurfaceText,
	}
}

func (r edgeRecord) edge() (graph.Edge, error) {
	start, err := nodes.Parse(r.Start)
	if err != nil {
		return graph.Edge{}, errors.Wrapf(err, "edge %s", r.URI)
	}
	end, err := nodes.Parse(r.End)
	if err != nil {
		return graph.Edge{}, errors.Wrapf(err, "edge %s", r.URI)
	}
	rel, err := graph.ParseRelation(r.Rel)
	if err != nil {
		return graph.Edge{}, errors.Wrapf(err, "edge %s", r.URI)
	}
	if len(r.Sources) == 0 {
		return graph.Edge{}, errors.Errorf("edge %s has no source", r.URI)
	}
	return graph.Edge{
		Start:       start,
		End:         end,
		Rel:         rel,
		Dataset:     r.Dataset,
		Source:      r.Sources[0],
		License:     r.License,
		Weight:      r.Weight,
		SurfaceText: r.SurfaceText,
	}, nil
}
