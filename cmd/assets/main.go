package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"

	get "github.com/hashicorp/go-getter"

	"github.com/OCharnyshevich/minecraft-renderer/internal/gamedata"
	"github.com/OCharnyshevich/minecraft-renderer/internal/model"
)

func main() {
	var (
		src    = flag.String("src", "git::https://github.com/OCharnyshevich/minecraft-renderer.git//assets", "catalog source (any go-getter URL)")
		out    = flag.String("o", "./assets", "output dir path")
		blocks = flag.String("blocks", "blocks.yaml", "block catalog file inside the source")
		models = flag.String("models", "models.json", "model catalog file inside the source")
	)
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *out == "" || *src == "" {
		log.Error("source and output dir required")
		os.Exit(2)
	}

	if err := os.RemoveAll(*out); err != nil {
		log.Error("clean output dir", "path", *out, "error", err)
		os.Exit(1)
	}

	log.Info("start downloading catalog", "src", *src, "dst", *out)
	if err := get.Get(*out, *src); err != nil {
		log.Error("download catalog", "error", err)
		os.Exit(1)
	}

	// A catalog that does not load is not worth keeping.
	reg, err := gamedata.LoadFile(filepath.Join(*out, *blocks))
	if err != nil {
		log.Error("check block catalog", "error", err)
		os.Exit(1)
	}
	cat, err := model.LoadFile(filepath.Join(*out, *models), reg, log)
	if err != nil {
		log.Error("check model catalog", "error", err)
		os.Exit(1)
	}
	log.Info("done downloading catalog", "dst", *out, "states", reg.Len(), "models", cat.Len(), "sprites", len(cat.TextureNames()))
}
