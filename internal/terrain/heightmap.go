package terrain

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/playmatatu/fairway/internal/physics"
)

const (
	// marchFraction is the ray-march step as a fraction of the cell size.
	marchFraction = 0.25
	// refineIterations bisects the bracketing interval of a swept hit.
	refineIterations = 12
)

// Heightmap is a regular grid of elevations with a material per cell. Rows run
// along +z, columns along +x, starting at (OriginX, OriginZ). Points outside
// the grid take the height of the nearest edge.
type Heightmap struct {
	Cols      int
	Rows      int
	CellSize  float64
	OriginX   float64
	OriginZ   float64
	Heights   []float64
	Materials []physics.Material
	Default   physics.Material
}

// NewHeightmap validates the grid dimensions. materials may be nil, in which
// case every cell reports def.
func NewHeightmap(cols, rows int, cellSize, originX, originZ float64, heights []float64, materials []physics.Material, def physics.Material) (*Heightmap, error) {
	if cols < 2 || rows < 2 {
		return nil, fmt.Errorf("heightmap needs at least 2x2 samples, got %dx%d", cols, rows)
	}
	if !(cellSize > 0) {
		return nil, errors.New("cell size must be positive")
	}
	if len(heights) != cols*rows {
		return nil, fmt.Errorf("expected %d heights, got %d", cols*rows, len(heights))
	}
	if materials != nil && len(materials) != cols*rows {
		return nil, fmt.Errorf("expected %d materials, got %d", cols*rows, len(materials))
	}
	for i, h := range heights {
		if math.IsNaN(h) || math.IsInf(h, 0) {
			return nil, fmt.Errorf("height %d is not finite", i)
		}
	}

	return &Heightmap{
		Cols:      cols,
		Rows:      rows,
		CellSize:  cellSize,
		OriginX:   originX,
		OriginZ:   originZ,
		Heights:   heights,
		Materials: materials,
		Default:   def,
	}, nil
}

func (h *Heightmap) at(col, row int) float64 {
	return h.Heights[row*h.Cols+col]
}

// grid converts world coordinates to clamped fractional grid coordinates.
func (h *Heightmap) grid(x, z float64) (float64, float64) {
	gx := (x - h.OriginX) / h.CellSize
	gz := (z - h.OriginZ) / h.CellSize
	gx = math.Max(0, math.Min(float64(h.Cols-1), gx))
	gz = math.Max(0, math.Min(float64(h.Rows-1), gz))
	return gx, gz
}

// HeightAt bilinearly interpolates the four surrounding samples.
func (h *Heightmap) HeightAt(x, z float64) float64 {
	gx, gz := h.grid(x, z)
	c0 := int(math.Floor(gx))
	r0 := int(math.Floor(gz))
	if c0 >= h.Cols-1 {
		c0 = h.Cols - 2
	}
	if r0 >= h.Rows-1 {
		r0 = h.Rows - 2
	}
	fx := gx - float64(c0)
	fz := gz - float64(r0)

	top := h.at(c0, r0)*(1-fx) + h.at(c0+1, r0)*fx
	bottom := h.at(c0, r0+1)*(1-fx) + h.at(c0+1, r0+1)*fx
	return top*(1-fz) + bottom*fz
}

// NormalAt takes the central difference of the interpolated height.
func (h *Heightmap) NormalAt(x, z float64) mgl64.Vec3 {
	e := h.CellSize * 0.5
	dx := h.HeightAt(x+e, z) - h.HeightAt(x-e, z)
	dz := h.HeightAt(x, z+e) - h.HeightAt(x, z-e)
	n := mgl64.Vec3{-dx, 2 * e, -dz}
	return n.Normalize()
}

// MaterialAt returns the material of the nearest sample.
func (h *Heightmap) MaterialAt(x, z float64) physics.Material {
	if h.Materials == nil {
		return h.Default
	}
	gx, gz := h.grid(x, z)
	col := int(math.Round(gx))
	row := int(math.Round(gz))
	return h.Materials[row*h.Cols+col]
}

// IntersectSweptPath marches the ray in quarter-cell steps and bisects the
// first interval that crosses the surface.
func (h *Heightmap) IntersectSweptPath(origin, direction mgl64.Vec3, maxDistance float64) (mgl64.Vec3, mgl64.Vec3, bool) {
	if !(maxDistance > 0) {
		return mgl64.Vec3{}, mgl64.Vec3{}, false
	}
	below := func(t float64) bool {
		p := origin.Add(direction.Mul(t))
		return p.Y() <= h.HeightAt(p.X(), p.Z())
	}
	if below(0) {
		return mgl64.Vec3{}, mgl64.Vec3{}, false
	}

	step := h.CellSize * marchFraction
	prev := 0.0
	for t := step; ; t += step {
		if t > maxDistance {
			t = maxDistance
		}
		if below(t) {
			lo, hi := prev, t
			for i := 0; i < refineIterations; i++ {
				mid := (lo + hi) / 2
				if below(mid) {
					hi = mid
				} else {
					lo = mid
				}
			}
			point := origin.Add(direction.Mul(hi))
			point[1] = h.HeightAt(point.X(), point.Z())
			return point, h.NormalAt(point.X(), point.Z()), true
		}
		if t >= maxDistance {
			return mgl64.Vec3{}, mgl64.Vec3{}, false
		}
		prev = t
	}
}
