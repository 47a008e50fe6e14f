package terrain

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/playmatatu/fairway/internal/physics"
)

// Document is the JSON form of a course: a heightmap plus the placement
// values the ball needs.
type Document struct {
	Name            string             `json:"name"`
	Cols            int                `json:"cols"`
	Rows            int                `json:"rows"`
	CellSize        float64            `json:"cell_size"`
	OriginX         float64            `json:"origin_x"`
	OriginZ         float64            `json:"origin_z"`
	Heights         []float64          `json:"heights"`
	Materials       []physics.Material `json:"materials,omitempty"`
	DefaultMaterial physics.Material   `json:"default_material"`
	Tee             [3]float64         `json:"tee"`
	WaterLevel      *float64           `json:"water_level,omitempty"`
	Bounds          *physics.Bounds    `json:"bounds,omitempty"`
}

// Decode reads a course document.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode course document: %w", err)
	}
	return &doc, nil
}

// Heightmap builds the terrain described by the document.
func (d *Document) Heightmap() (*Heightmap, error) {
	return NewHeightmap(d.Cols, d.Rows, d.CellSize, d.OriginX, d.OriginZ, d.Heights, d.Materials, d.DefaultMaterial)
}

// Apply copies the document's tee, water level and bounds onto params. When
// the document has no bounds the heightmap extent is used.
func (d *Document) Apply(params physics.Params) physics.Params {
	params.Tee = mgl64.Vec3{d.Tee[0], d.Tee[1], d.Tee[2]}
	if d.WaterLevel != nil {
		params.WaterLevel = *d.WaterLevel
	}
	if d.Bounds != nil {
		params.Bounds = *d.Bounds
	} else if d.Cols > 1 && d.Rows > 1 {
		params.Bounds.MinX = d.OriginX
		params.Bounds.MaxX = d.OriginX + float64(d.Cols-1)*d.CellSize
		params.Bounds.MinZ = d.OriginZ
		params.Bounds.MaxZ = d.OriginZ + float64(d.Rows-1)*d.CellSize
	}
	return params
}
