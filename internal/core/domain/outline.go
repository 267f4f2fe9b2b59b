package domain

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"go.trai.ch/zerr"
)

// SubIdentityDelimiter joins the sub-identities a cache owner reports.
const SubIdentityDelimiter = ";"

// FaceOutline is the boundary of a face resolved to vertex positions.
type FaceOutline struct {
	Face     string
	Vertices []string
	Points   []v3.Vec
	// Area is the signed area of the outline projected onto the XY plane; it is positive
	// for counter-clockwise loops.
	Area      float64
	Perimeter float64
}

// TraceOutline walks the edges of a face in order and returns its outline.
func TraceOutline(doc *Document, faceKey string) (*FaceOutline, error) {
	face, err := doc.mustKind(faceKey, EntityFace)
	if err != nil {
		return nil, err
	}
	if len(face.Edges) == 0 {
		return nil, zerr.With(ErrOpenLoop, "face", faceKey)
	}

	edges := make([]*Entity, 0, len(face.Edges))
	for _, key := range face.Edges {
		e, ok := doc.Edge(key)
		if !ok {
			err := zerr.With(ErrOpenLoop, "face", faceKey)
			return nil, zerr.With(err, "edge", key)
		}
		edges = append(edges, e)
	}

	start := edges[0].From
	if len(edges) > 1 && edges[1].Other(edges[0].From) != "" {
		start = edges[0].To
	}

	out := &FaceOutline{Face: faceKey}
	cur := start
	for _, e := range edges {
		v, ok := doc.Vertex(cur)
		next := e.Other(cur)
		if !ok || next == "" {
			err := zerr.With(ErrOpenLoop, "face", faceKey)
			return nil, zerr.With(err, "edge", e.Key())
		}
		out.Vertices = append(out.Vertices, cur)
		out.Points = append(out.Points, v.Position)
		cur = next
	}
	if cur != start {
		return nil, zerr.With(ErrOpenLoop, "face", faceKey)
	}

	for i, p := range out.Points {
		q := out.Points[(i+1)%len(out.Points)]
		out.Area += p.X*q.Y - q.X*p.Y
		d := q.Sub(p)
		out.Perimeter += math.Sqrt(d.Dot(d))
	}
	out.Area /= 2
	return out, nil
}
