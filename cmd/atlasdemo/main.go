// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Command atlasdemo packs glyphs and random icons into atlas pages and
// writes every page as a PNG.
package main

import (
	"flag"
	"image"
	"image/color"
	"log"
	"log/slog"
	"math/rand/v2"
	"os"

	"github.com/gogpu/atlas"
	"github.com/gogpu/atlas/backend"
	"github.com/gogpu/atlas/backend/software"
	"github.com/gogpu/atlas/text/glyphatlas"
	"golang.org/x/image/font/gofont/goregular"
)

const sampleText = "The quick brown fox jumps over the lazy dog. 0123456789 àéîõü ÀÉÎÕÜ"

func main() {
	var (
		pageSize = flag.Int("page", 512, "page width and height")
		text     = flag.String("text", sampleText, "text whose glyphs are packed")
		fontSize = flag.Float64("size", 32, "font size in pixels")
		icons    = flag.Int("icons", 200, "number of random icons")
		churn    = flag.Float64("churn", 0.3, "fraction of icons destroyed and replaced")
		seed     = flag.Uint64("seed", 1, "random seed")
		output   = flag.String("output", "atlas-out", "output directory")
		verbose  = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	atlas.SetLogger(logger)

	b, err := backend.Open(backend.BackendSoftware)
	if err != nil {
		log.Fatalf("Failed to open backend: %v", err)
	}
	defer b.Close()

	a, err := atlas.New(atlas.DefaultConfig(),
		atlas.WithPageSize(*pageSize, *pageSize),
		atlas.WithProvider(b))
	if err != nil {
		log.Fatalf("Failed to create allocator: %v", err)
	}

	glyphs, err := glyphatlas.New(a, goregular.TTF, *fontSize)
	if err != nil {
		log.Fatalf("Failed to load font: %v", err)
	}
	if err := glyphs.Preload(*text); err != nil {
		log.Fatalf("Failed to preload glyphs: %v", err)
	}

	rng := rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15))
	ids := packIcons(a, rng, *icons)

	// Destroy a share of the icons and pack new ones into the freed space.
	destroyed := 0
	for _, id := range ids {
		if rng.Float64() < *churn {
			if err := a.Destroy(id); err != nil {
				log.Fatalf("Failed to destroy icon: %v", err)
			}
			destroyed++
		}
	}
	packIcons(a, rng, destroyed)

	sw, ok := b.(*software.Provider)
	if !ok {
		log.Fatalf("Unexpected backend %q", b.Name())
	}
	paths, err := sw.SavePNGs(*output)
	if err != nil {
		log.Fatalf("Failed to save pages: %v", err)
	}

	s := a.Stats()
	slog.Info("atlas packed",
		"glyphs", glyphs.Len(),
		"entries", s.Entries,
		"pages", s.Pages,
		"utilization", s.Utilization,
		"files", len(paths))
	for _, info := range a.PageInfos() {
		slog.Info("page",
			"index", info.Index,
			"sampling", info.Sampling.String(),
			"entries", info.EntryCount,
			"free_rects", info.FreeRects,
			"utilization", info.Utilization)
	}
}

// packIcons uploads n random icons and returns their ids.
func packIcons(a *atlas.Allocator, rng *rand.Rand, n int) []atlas.ID {
	modes := []atlas.SamplingMode{atlas.SamplingLinear, atlas.SamplingNearest, atlas.SamplingMipmapped}

	ids := make([]atlas.ID, 0, n)
	for i := 0; i < n; i++ {
		w, h := 4+rng.IntN(60), 4+rng.IntN(60)
		id, err := a.CreateFromImage(icon(rng, w, h), modes[rng.IntN(len(modes))])
		if err != nil {
			log.Fatalf("Failed to pack icon %dx%d: %v", w, h, err)
		}
		ids = append(ids, id)
	}
	return ids
}

// icon returns a w x h vertical gradient between two random colors.
func icon(rng *rand.Rand, w, h int) *image.RGBA {
	from := color.RGBA{R: uint8(rng.IntN(256)), G: uint8(rng.IntN(256)), B: uint8(rng.IntN(256)), A: 255}
	to := color.RGBA{R: uint8(rng.IntN(256)), G: uint8(rng.IntN(256)), B: uint8(rng.IntN(256)), A: 255}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		t := float64(y) / float64(max(h-1, 1))
		c := color.RGBA{
			R: lerp(from.R, to.R, t),
			G: lerp(from.G, to.G, t),
			B: lerp(from.B, to.B, t),
			A: 255,
		}
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t)
}
