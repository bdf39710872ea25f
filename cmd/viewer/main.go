package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Swarm-Sense/internal/config"
	"github.com/Garsondee/Swarm-Sense/internal/viewer"
)

func main() {
	var configPath string
	var noPrefs bool
	flag.StringVar(&configPath, "config", "", "YAML run configuration")
	flag.BoolVar(&noPrefs, "no-prefs", false, "ignore saved viewer preferences")
	flag.Parse()

	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			log.Fatal(err)
		}
	}
	in, err := cfg.NewIntegrator()
	if err != nil {
		log.Fatal(err)
	}

	var prefs *viewer.PrefsStore
	if !noPrefs {
		if prefs, err = viewer.OpenPrefsStore("swarm_sense"); err != nil {
			log.Printf("preferences will not be saved: %v", err)
		}
	}

	ebiten.SetWindowTitle("Swarm Sense")
	ebiten.SetWindowSize(1280, 800)
	if err := ebiten.RunGame(viewer.New(in, prefs)); err != nil {
		log.Fatal(err)
	}
}
