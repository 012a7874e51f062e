package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"chunkforge/internal/block"
	"chunkforge/internal/chunk"
	"chunkforge/internal/config"
	"chunkforge/internal/gen"
	"chunkforge/internal/geom"
	"chunkforge/internal/logging"
	"chunkforge/internal/profiling"
	"chunkforge/internal/registry"
	"chunkforge/internal/world"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "generate":
		err = runGenerate(os.Args[2:])
	case "inspect":
		err = runInspect(os.Args[2:])
	case "preview":
		err = runPreview(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		logging.Errorf("%v", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: chunkforge <command> [flags]

commands:
  generate   generate a chunk region and write a snapshot
  inspect    verify a snapshot and print its contents
  preview    print an ASCII heightmap of terrain around the origin`)
}

// newLevel builds a level from the applied configuration.
func newLevel(reg *block.Registry) (*world.Level, error) {
	seed := config.GetWorldSeed()
	var tg world.TerrainGenerator
	switch kind := config.GetGeneratorKind(); kind {
	case "heightmap":
		tg = world.NewHeightmapGenerator(seed, reg)
	case "flat":
		tg = world.NewFlatGenerator(seed, reg)
	default:
		var (
			set gen.FeatureSet
			err error
		)
		if path := config.GetDatapackPath(); path != "" {
			set, err = registry.LoadFeatures(path, reg)
		} else {
			set, err = registry.BuiltinFeatures(reg)
		}
		if err != nil {
			return nil, err
		}
		tg, err = gen.NewGenerator(seed, reg, set)
		if err != nil {
			return nil, err
		}
	}
	return world.NewLevel(config.GetWorldName(), tg, reg), nil
}

func runGenerate(args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	cfgPath := fs.String("config", "", "path to YAML configuration file")
	seed := fs.Int64("seed", 0, "world seed (overrides config)")
	radius := fs.Int("radius", 0, "chunk radius around the origin (overrides config)")
	out := fs.String("out", "", "snapshot output path (optional)")
	metricsAddr := fs.String("metrics", "", "serve Prometheus metrics on this address while generating")
	logLevel := fs.String("log", "info", "log level: debug, info, warn, error")
	logFile := fs.String("logfile", "", "also write the full log to this file")
	fs.Parse(args)
	logging.SetLevel(logging.ParseLevel(*logLevel))
	if *logFile != "" {
		if err := logging.OpenFile(*logFile); err != nil {
			return err
		}
		defer logging.CloseFile()
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return err
	}
	if flagSet(fs, "seed") {
		cfg.World.Seed = *seed
	}
	if flagSet(fs, "radius") {
		cfg.Stream.Radius = *radius
	}
	cfg.Apply()

	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		go func() {
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				logging.Warnf("metrics server: %v", err)
			}
		}()
		logging.Infof("serving metrics on %s/metrics", *metricsAddr)
	}

	reg := block.NewRegistry()
	level, err := newLevel(reg)
	if err != nil {
		return err
	}

	profiling.ResetPass()
	start := time.Now()
	st := world.NewStreamer(level.Store(), level.Generator())
	st.StreamAroundSync(geom.ChunkPos{}, config.GetStreamRadius())
	st.Close()
	elapsed := time.Since(start)

	chunks := level.Store().All()
	sort.Slice(chunks, func(i, j int) bool {
		a, b := chunks[i].Pos, chunks[j].Pos
		if a.X != b.X {
			return a.X < b.X
		}
		return a.Z < b.Z
	})
	logging.Infof("generated %d chunks in %s (seed %d)", len(chunks), elapsed, level.Generator().Seed())
	lo, hi, mean := surfaceStats(chunks)
	logging.Infof("surface height: min %d, max %d, mean %.1f", lo, hi, mean)
	if top := profiling.TopN(3); top != "" {
		logging.Debugf("hot spots: %s", top)
	}

	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := world.WriteSnapshot(f, level.Generator().Seed(), chunks); err != nil {
			return err
		}
		logging.Infof("wrote snapshot %s", *out)
	} else {
		for _, d := range chunks {
			h := d.Hash()
			fmt.Printf("chunk %4d %4d  %x\n", d.Pos.X, d.Pos.Z, h[:8])
		}
	}
	return nil
}

// surfaceStats summarizes the world-surface heightmaps of a chunk set.
func surfaceStats(chunks []*chunk.Data) (lo, hi int, mean float64) {
	lo, hi = 1<<30, -(1 << 30)
	sum, n := 0, 0
	for _, d := range chunks {
		for _, h := range d.Heightmaps[chunk.WorldSurface] {
			if h < lo {
				lo = h
			}
			if h > hi {
				hi = h
			}
			sum += h
			n++
		}
	}
	if n == 0 {
		return 0, 0, 0
	}
	return lo, hi, float64(sum) / float64(n)
}

func runInspect(args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	logLevel := fs.String("log", "info", "log level: debug, info, warn, error")
	fs.Parse(args)
	logging.SetLevel(logging.ParseLevel(*logLevel))
	if fs.NArg() != 1 {
		return fmt.Errorf("inspect: expected one snapshot path")
	}

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	defer f.Close()

	reg := block.NewRegistry()
	seed, chunks, err := world.ReadSnapshot(f, reg)
	if err != nil {
		return err
	}
	logging.Infof("snapshot ok: seed %d, %d chunks", seed, len(chunks))
	for _, d := range chunks {
		h := d.Hash()
		fmt.Printf("chunk %4d %4d  %x\n", d.Pos.X, d.Pos.Z, h[:8])
	}
	return nil
}

// previewGlyphs maps ascending surface height bands to characters.
var previewGlyphs = []struct {
	maxY  int
	glyph byte
}{
	{gen.SeaLevel - 8, '~'},
	{gen.SeaLevel, '-'},
	{gen.SeaLevel + 8, '.'},
	{gen.SeaLevel + 24, '+'},
	{1 << 30, '#'},
}

func runPreview(args []string) error {
	fs := flag.NewFlagSet("preview", flag.ExitOnError)
	cfgPath := fs.String("config", "", "path to YAML configuration file")
	seed := fs.Int64("seed", 0, "world seed (overrides config)")
	size := fs.Int("size", 4, "chunk radius to preview")
	fs.Parse(args)

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return err
	}
	if flagSet(fs, "seed") {
		cfg.World.Seed = *seed
	}
	cfg.Apply()

	reg := block.NewRegistry()
	level, err := newLevel(reg)
	if err != nil {
		return err
	}

	r := *size
	for z := -r * chunk.SizeZ; z < r*chunk.SizeZ; z += 2 {
		line := make([]byte, 0, r*chunk.SizeX)
		for x := -r * chunk.SizeX; x < r*chunk.SizeX; x += 2 {
			h := level.SurfaceHeight(geom.ColumnPos{X: x, Z: z})
			line = append(line, glyphFor(h))
		}
		fmt.Println(string(line))
		// Bound memory on large previews: drop rows far behind the scan.
		center := geom.ChunkPos{Z: geom.FloorDiv(z, chunk.SizeZ)}
		level.Store().EvictFar(center, config.GetEvictRadius()+r)
	}
	return nil
}

func glyphFor(h int) byte {
	for _, band := range previewGlyphs {
		if h <= band.maxY {
			return band.glyph
		}
	}
	return '#'
}

func flagSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
