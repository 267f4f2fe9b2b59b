package spatial

import (
	"slices"
	"sort"

	"go.trai.ch/zerr"
)

// DistanceFunc measures the distance between two points of the same dimension. It must be
// monotone per axis so that splitting planes can prune subtrees.
type DistanceFunc func(a, b []float64) float64

// SquaredEuclidean is the default DistanceFunc. It avoids the square root because only the
// ordering of distances matters for neighbor queries.
func SquaredEuclidean(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// Item is a point carried by a KDTree together with its payload.
type Item[T any] struct {
	Point []float64
	Value T
}

// Neighbor is a query result.
type Neighbor[T any] struct {
	Item[T]
	Distance float64
}

type kdNode[T any] struct {
	item        Item[T]
	axis        int
	left, right *kdNode[T]
}

// KDTree is a static k-d tree over 2D or 3D points. It is built once and rebuilt wholesale
// when the point set changes.
type KDTree[T any] struct {
	root *kdNode[T]
	dim  int
	size int
	dist DistanceFunc
}

// KDOption configures a KDTree.
type KDOption func(*kdConfig)

type kdConfig struct {
	dist DistanceFunc
}

// WithDistance replaces the default squared Euclidean distance.
func WithDistance(fn DistanceFunc) KDOption {
	return func(c *kdConfig) {
		c.dist = fn
	}
}

// NewKDTree builds a tree over items. All points must share one dimension.
func NewKDTree[T any](items []Item[T], opts ...KDOption) (*KDTree[T], error) {
	cfg := kdConfig{dist: SquaredEuclidean}
	for _, opt := range opts {
		opt(&cfg)
	}

	t := &KDTree[T]{dist: cfg.dist, size: len(items)}
	if len(items) == 0 {
		return t, nil
	}
	t.dim = len(items[0].Point)
	for _, it := range items {
		if len(it.Point) != t.dim {
			err := zerr.With(ErrDimensionMismatch, "expected", t.dim)
			return nil, zerr.With(err, "got", len(it.Point))
		}
	}

	t.root = build(slices.Clone(items), 0, t.dim)
	return t, nil
}

func build[T any](items []Item[T], depth, dim int) *kdNode[T] {
	if len(items) == 0 {
		return nil
	}
	axis := depth % dim
	sort.SliceStable(items, func(i, j int) bool { return items[i].Point[axis] < items[j].Point[axis] })
	mid := len(items) / 2
	return &kdNode[T]{
		item:  items[mid],
		axis:  axis,
		left:  build(items[:mid], depth+1, dim),
		right: build(items[mid+1:], depth+1, dim),
	}
}

// Len returns the number of points in the tree.
func (t *KDTree[T]) Len() int {
	return t.size
}

// Nearest returns the point closest to q.
func (t *KDTree[T]) Nearest(q []float64) (Neighbor[T], bool) {
	res := t.NearestK(q, 1)
	if len(res) == 0 {
		return Neighbor[T]{}, false
	}
	return res[0], true
}

// NearestK returns up to k points closest to q, nearest first.
func (t *KDTree[T]) NearestK(q []float64, k int) []Neighbor[T] {
	if k <= 0 || t.root == nil || len(q) != t.dim {
		return nil
	}
	best := make([]Neighbor[T], 0, k)
	t.search(t.root, q, func(it Item[T], d float64) float64 {
		if len(best) == k && d >= best[k-1].Distance {
			return best[k-1].Distance
		}
		i := sort.Search(len(best), func(i int) bool { return best[i].Distance > d })
		if len(best) < k {
			best = append(best, Neighbor[T]{})
		}
		copy(best[i+1:], best[i:len(best)-1])
		best[i] = Neighbor[T]{Item: it, Distance: d}
		if len(best) < k {
			return -1
		}
		return best[k-1].Distance
	})
	return best
}

// Within returns every point whose distance to q is at most r, nearest first. r is in the
// units of the tree's DistanceFunc, so it is a squared radius by default.
func (t *KDTree[T]) Within(q []float64, r float64) []Neighbor[T] {
	if t.root == nil || len(q) != t.dim {
		return nil
	}
	var out []Neighbor[T]
	t.search(t.root, q, func(it Item[T], d float64) float64 {
		if d <= r {
			out = append(out, Neighbor[T]{Item: it, Distance: d})
		}
		return r
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Distance < out[j].Distance })
	return out
}

// search visits candidate nodes. visit receives each candidate and returns the current
// pruning bound, or a negative bound to disable pruning.
func (t *KDTree[T]) search(n *kdNode[T], q []float64, visit func(Item[T], float64) float64) float64 {
	if n == nil {
		return -1
	}
	bound := visit(n.item, t.dist(q, n.item.Point))

	near, far := n.left, n.right
	if q[n.axis] >= n.item.Point[n.axis] {
		near, far = far, near
	}
	if b := t.search(near, q, visit); near != nil {
		bound = b
	}

	// Distance from q to the splitting plane, measured with the tree's own metric.
	plane := slices.Clone(q)
	plane[n.axis] = n.item.Point[n.axis]
	if bound < 0 || t.dist(q, plane) <= bound {
		if b := t.search(far, q, visit); far != nil {
			bound = b
		}
	}
	return bound
}
