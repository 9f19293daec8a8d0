package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/OCharnyshevich/minecraft-renderer/internal/atlas"
	"github.com/OCharnyshevich/minecraft-renderer/internal/config"
	"github.com/OCharnyshevich/minecraft-renderer/internal/gamedata"
	"github.com/OCharnyshevich/minecraft-renderer/internal/mesh"
	"github.com/OCharnyshevich/minecraft-renderer/internal/model"
	"github.com/OCharnyshevich/minecraft-renderer/internal/render"
	"github.com/OCharnyshevich/minecraft-renderer/internal/world"
	"github.com/OCharnyshevich/minecraft-renderer/internal/world/gen"
)

func main() {
	cfg := config.DefaultConfig()

	configPath := flag.String("config", "", "YAML config file")
	layers := flag.String("layers", strings.Join(cfg.FlatLayers, ","), "flat world layers, bottom to top")
	flag.IntVar(&cfg.SectionSize, "section-size", cfg.SectionSize, "section edge length (16 or 32)")
	flag.IntVar(&cfg.ChunkHeight, "chunk-height", cfg.ChunkHeight, "sections per chunk")
	flag.StringVar(&cfg.Storage, "storage", cfg.Storage, "chunk storage kind")
	flag.IntVar(&cfg.ViewDistance, "view-distance", cfg.ViewDistance, "chunks to mesh around the origin")
	flag.IntVar(&cfg.Frames, "frames", cfg.Frames, "frames to run (0 = until every chunk is meshed)")
	flag.IntVar(&cfg.FrameRateHz, "fps", cfg.FrameRateHz, "frame rate")
	flag.StringVar(&cfg.BlocksPath, "blocks", cfg.BlocksPath, "block catalog")
	flag.StringVar(&cfg.ModelsPath, "models", cfg.ModelsPath, "model catalog")
	flag.IntVar(&cfg.AtlasTile, "atlas-tile", cfg.AtlasTile, "sprite size in pixels")
	flag.StringVar(&cfg.DumpPath, "dump", cfg.DumpPath, "write built mesh buffers to this zstd file")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	flag.Parse()

	explicit := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
	if explicit["layers"] {
		cfg.FlatLayers = splitList(*layers)
	}

	if *configPath != "" {
		fromFile, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		config.Merge(cfg, fromFile, explicit)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "invalid config:", err)
		os.Exit(2)
	}

	level, _ := cfg.SlogLevel()
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, log); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("mesher failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	reg, err := gamedata.LoadFile(cfg.BlocksPath)
	if err != nil {
		return err
	}
	log.Info("block catalog loaded", "blocks", len(reg.All()), "states", reg.Len())

	models := model.NewCatalog(reg.Len())
	if cfg.ModelsPath != "" {
		if models, err = model.LoadFile(cfg.ModelsPath, reg, log); err != nil {
			return err
		}
	}
	sprites := atlas.New(cfg.AtlasTile, models.TextureNames())
	log.Info("models baked", "states", models.Len(), "sprites", sprites.Len(), "atlas_px", sprites.Size())

	kind, err := world.ParseStorageKind(cfg.Storage)
	if err != nil {
		return err
	}
	st, err := world.NewStorage(kind, world.StorageOptions{
		Height:      cfg.ChunkHeight,
		SectionSize: cfg.SectionSize,
		Classifier:  reg,
	})
	if err != nil {
		return fmt.Errorf("create %s storage: %w", kind, err)
	}

	layers := make([]world.StateID, 0, len(cfg.FlatLayers))
	for _, name := range cfg.FlatLayers {
		id, ok := reg.StateByName(name)
		if !ok {
			return fmt.Errorf("flat layer %q: unknown block state", name)
		}
		layers = append(layers, id)
	}
	flat := gen.NewFlatGenerator(layers, cfg.ChunkHeight, cfg.SectionSize, reg)

	mem := &mesh.MemoryDevice{}
	var dev mesh.Device = mem
	if cfg.DumpPath != "" {
		f, err := os.Create(cfg.DumpPath)
		if err != nil {
			return fmt.Errorf("create dump: %w", err)
		}
		defer f.Close()
		dump, err := render.NewDumpDevice(mem, f)
		if err != nil {
			return err
		}
		defer func() {
			if err := dump.Close(); err != nil {
				log.Error("close dump", "path", cfg.DumpPath, "error", err)
				return
			}
			log.Info("mesh dump written", "path", cfg.DumpPath, "records", dump.Records)
		}()
		dev = dump
	}

	tess := mesh.NewTessellator(reg, models, sprites, log)
	r := render.New(st, flat.Generate, tess, dev, log)
	r.RequestRadius(world.ChunkPos{}, cfg.ViewDistance)
	log.Info("meshing", "chunks", r.Pending(), "frames", cfg.Frames, "fps", cfg.FrameRateHz)

	start := time.Now()
	err = r.Run(ctx, cfg.Frames, time.Second/time.Duration(cfg.FrameRateHz))
	stats := r.Stats()
	log.Info("done",
		"elapsed", time.Since(start).Round(time.Millisecond),
		"frames", stats.Frames,
		"chunks", stats.Chunks,
		"sections", stats.Sections,
		"triangles", stats.Indices/3,
		"pending", r.Pending(),
		"buffers", mem.Buffers,
		"bytes", mem.Bytes,
	)
	return err
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
