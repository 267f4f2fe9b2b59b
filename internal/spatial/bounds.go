package spatial

import (
	"github.com/dhconnelly/rtreego"
	"go.trai.ch/zerr"
)

// minExtent pads degenerate box sides, since R-tree rectangles need positive lengths.
const minExtent = 1e-9

const (
	rtreeMinChildren = 4
	rtreeMaxChildren = 16
)

// Box is an axis-aligned bounding box.
type Box struct {
	Min []float64
	Max []float64
}

// BoxOf returns the smallest box containing every point.
func BoxOf(points ...[]float64) Box {
	if len(points) == 0 {
		return Box{}
	}
	b := Box{Min: append([]float64(nil), points[0]...), Max: append([]float64(nil), points[0]...)}
	for _, p := range points[1:] {
		for i := range p {
			b.Min[i] = min(b.Min[i], p[i])
			b.Max[i] = max(b.Max[i], p[i])
		}
	}
	return b
}

// Expand returns the box grown by d on every side.
func (b Box) Expand(d float64) Box {
	out := Box{Min: make([]float64, len(b.Min)), Max: make([]float64, len(b.Max))}
	for i := range b.Min {
		out.Min[i] = b.Min[i] - d
		out.Max[i] = b.Max[i] + d
	}
	return out
}

func (b Box) rect() (rtreego.Rect, error) {
	lengths := make([]float64, len(b.Min))
	for i := range b.Min {
		lengths[i] = max(b.Max[i]-b.Min[i], minExtent)
	}
	return rtreego.NewRect(rtreego.Point(b.Min), lengths)
}

type boxed[T any] struct {
	box   Box
	rect  rtreego.Rect
	value T
}

func (b *boxed[T]) Bounds() rtreego.Rect {
	return b.rect
}

// Bounded is a value stored in a BoundsIndex together with its box.
type Bounded[T any] struct {
	Box   Box
	Value T
}

// BoundsIndex is a bounding-volume tree over boxes, built once per batch of geometry.
type BoundsIndex[T any] struct {
	tree *rtreego.Rtree
	dim  int
}

// NewBoundsIndex builds an index over items. All boxes must share one dimension.
func NewBoundsIndex[T any](items []Bounded[T]) (*BoundsIndex[T], error) {
	dim := 0
	if len(items) > 0 {
		dim = len(items[0].Box.Min)
	}
	objs := make([]rtreego.Spatial, 0, len(items))
	for _, it := range items {
		if len(it.Box.Min) != dim || len(it.Box.Max) != dim {
			err := zerr.With(ErrDimensionMismatch, "expected", dim)
			return nil, zerr.With(err, "got", len(it.Box.Min))
		}
		r, err := it.Box.rect()
		if err != nil {
			return nil, zerr.Wrap(err, "invalid bounding box")
		}
		objs = append(objs, &boxed[T]{box: it.Box, rect: r, value: it.Value})
	}
	if dim == 0 {
		return &BoundsIndex[T]{}, nil
	}
	return &BoundsIndex[T]{
		tree: rtreego.NewTree(dim, rtreeMinChildren, rtreeMaxChildren, objs...),
		dim:  dim,
	}, nil
}

// Len returns the number of boxes in the index.
func (x *BoundsIndex[T]) Len() int {
	if x.tree == nil {
		return 0
	}
	return x.tree.Size()
}

// Intersecting returns the values whose boxes intersect the query box.
func (x *BoundsIndex[T]) Intersecting(query Box) []Bounded[T] {
	if x.tree == nil || len(query.Min) != x.dim {
		return nil
	}
	r, err := query.rect()
	if err != nil {
		return nil
	}
	return unwrap[T](x.tree.SearchIntersect(r))
}

// NearestK returns up to k values whose boxes are closest to p, nearest first.
func (x *BoundsIndex[T]) NearestK(p []float64, k int) []Bounded[T] {
	if x.tree == nil || k <= 0 || len(p) != x.dim {
		return nil
	}
	return unwrap[T](x.tree.NearestNeighbors(k, rtreego.Point(p)))
}

func unwrap[T any](objs []rtreego.Spatial) []Bounded[T] {
	out := make([]Bounded[T], 0, len(objs))
	for _, o := range objs {
		if b, ok := o.(*boxed[T]); ok {
			out = append(out, Bounded[T]{Box: b.box, Value: b.value})
		}
	}
	return out
}
