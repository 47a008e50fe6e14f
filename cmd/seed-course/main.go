package main

import (
	"bytes"
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/playmatatu/fairway/internal/config"
	"github.com/playmatatu/fairway/internal/database"
	"github.com/playmatatu/fairway/internal/game"
	"github.com/playmatatu/fairway/internal/terrain"
)

func main() {
	file := flag.String("file", "", "course document (JSON heightmap)")
	name := flag.String("name", "", "course name (defaults to the document name, then the file name)")
	flag.Parse()

	if *file == "" {
		log.Fatal("usage: seed-course -file course.json [-name \"Lakeside\"]")
	}

	cfg := config.Load()

	raw, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *file, err)
	}

	// Validate before storing so sessions never fail to build the terrain.
	doc, err := terrain.Decode(bytes.NewReader(raw))
	if err != nil {
		log.Fatalf("Invalid course document: %v", err)
	}
	hm, err := doc.Heightmap()
	if err != nil {
		log.Fatalf("Invalid heightmap: %v", err)
	}

	courseName := *name
	if courseName == "" {
		courseName = doc.Name
	}
	if courseName == "" {
		courseName = strings.TrimSuffix(filepath.Base(*file), filepath.Ext(*file))
	}

	db, err := database.Connect(cfg.DatabaseURL, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	id, err := game.SaveCourse(context.Background(), db, courseName, raw)
	if err != nil {
		log.Fatalf("Failed to save course: %v", err)
	}

	params := doc.Apply(cfg.PhysicsParams())
	log.Printf("✓ Course %q stored with id %d", courseName, id)
	log.Printf("  Grid: %dx%d cells of %.1fm", hm.Cols, hm.Rows, hm.CellSize)
	log.Printf("  Tee: %v  Water level: %.2f", params.Tee, params.WaterLevel)
	log.Printf("  Bounds: x %.1f..%.1f  z %.1f..%.1f", params.Bounds.MinX, params.Bounds.MaxX, params.Bounds.MinZ, params.Bounds.MaxZ)
}
