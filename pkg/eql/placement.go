package eql

import (
	"math"

	vec3d "github.com/flywave/go3d/float64/vec3"
	"gonum.org/v1/gonum/spatial/kdtree"

	"eqlayer/pkg/kernel"
)

const (
	// DefaultDepthFactor is the depth factor used when a Model leaves it
	// unset, matching the usual choice for inverse-distance layers.
	DefaultDepthFactor = 3.0

	// kdtreeCutoff is the observation count above which the brute-force
	// nearest-neighbor search switches to a kd-tree.
	kdtreeCutoff = 128

	// soloNearestDistance stands in for the nearest-neighbor distance of a
	// lone observation, which has no neighbor to measure against.
	soloNearestDistance = 1.0
)

// PlacePoints derives the default point sources for a set of observations:
// one source directly beneath each observation point, pushed down by the
// depth factor times the distance to the nearest other observation. A larger
// depth factor yields a deeper, smoother layer. Pure function of its inputs.
func PlacePoints(coords Coordinates, depthFactor float64) Coordinates {
	n := coords.Len()
	nearest := nearestDistances(coords.points())
	sources := Coordinates{
		Easting:  make([]float64, n),
		Northing: make([]float64, n),
		Vertical: make([]float64, n),
	}
	copy(sources.Easting, coords.Easting)
	copy(sources.Northing, coords.Northing)
	for i := 0; i < n; i++ {
		sources.Vertical[i] = coords.Vertical[i] - depthFactor*nearest[i]
	}
	return sources
}

// nearestDistances computes, for each point, the distance to its nearest
// other point. A single point has no neighbor and falls back to
// soloNearestDistance.
func nearestDistances(pts []vec3d.T) []float64 {
	if len(pts) == 1 {
		return []float64{soloNearestDistance}
	}
	if len(pts) <= kdtreeCutoff {
		return nearestBruteForce(pts)
	}
	return nearestKDTree(pts)
}

func nearestBruteForce(pts []vec3d.T) []float64 {
	out := make([]float64, len(pts))
	for i := range pts {
		min := math.Inf(1)
		for j := range pts {
			if i == j {
				continue
			}
			if d := kernel.Distance(pts[i], pts[j]); d < min {
				min = d
			}
		}
		out[i] = min
	}
	return out
}

// nearestKDTree answers the same query through a kd-tree. Each point queries
// for its two nearest tree members; the closer one is the point itself at
// distance zero, so the other is its nearest neighbor.
func nearestKDTree(pts []vec3d.T) []float64 {
	s := make(sites, len(pts))
	for i, p := range pts {
		s[i] = site(p)
	}
	tree := kdtree.New(s, false)

	out := make([]float64, len(pts))
	for i, p := range pts {
		keeper := kdtree.NewNKeeper(2)
		tree.NearestSet(keeper, site(p))
		nearestSq := 0.0
		for _, item := range keeper.Heap {
			if item.Comparable == nil {
				continue
			}
			if item.Dist > nearestSq {
				nearestSq = item.Dist
			}
		}
		out[i] = math.Sqrt(nearestSq)
	}
	return out
}

// site adapts a point to the kdtree interfaces. Distances are squared, as
// the tree requires a metric consistent with per-dimension differences.
type site vec3d.T

func (p site) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(site)
	return p[d] - q[d]
}

func (p site) Dims() int { return 3 }

func (p site) Distance(c kdtree.Comparable) float64 {
	q := c.(site)
	dx := p[0] - q[0]
	dy := p[1] - q[1]
	dz := p[2] - q[2]
	return dx*dx + dy*dy + dz*dz
}

type sites []site

func (s sites) Index(i int) kdtree.Comparable         { return s[i] }
func (s sites) Len() int                              { return len(s) }
func (s sites) Slice(start, end int) kdtree.Interface { return s[start:end] }

func (s sites) Pivot(d kdtree.Dim) int {
	return kdtree.Partition(sitePlane{sites: s, Dim: d}, kdtree.MedianOfRandoms(sitePlane{sites: s, Dim: d}, 100))
}

// sitePlane implements sort.Interface and kdtree.SortSlicer over a dimension.
type sitePlane struct {
	sites
	kdtree.Dim
}

func (p sitePlane) Less(i, j int) bool {
	return p.sites[i][p.Dim] < p.sites[j][p.Dim]
}

func (p sitePlane) Slice(start, end int) kdtree.SortSlicer {
	return sitePlane{sites: p.sites[start:end], Dim: p.Dim}
}

func (p sitePlane) Swap(i, j int) {
	p.sites[i], p.sites[j] = p.sites[j], p.sites[i]
}
