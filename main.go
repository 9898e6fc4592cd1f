package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/shootinggallery/gallery"
	"github.com/milk9111/shootinggallery/prefabs"
)

func main() {
	galleryName := flag.String("gallery", "gallery.yaml", "gallery prefab name")
	seed := flag.Int64("seed", 0, "spawn seed (0 uses the prefab seed)")
	damage := flag.Int("damage", 25, "damage per shot")
	watch := flag.Bool("watch", false, "reload prefabs when they change on disk")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	fx := newEffects(newSounds())
	rg, err := gallery.Load(gallery.Options{Gallery: *galleryName, Seed: *seed, Feedback: fx})
	if err != nil {
		log.Fatalf("load gallery: %v", err)
	}

	var watcher *prefabs.Watcher
	if *watch {
		watcher, err = prefabs.NewWatcher(prefabs.Dir, prefabs.Dir+"/scripts")
		if err != nil {
			log.Fatalf("watch prefabs: %v", err)
		}
		defer watcher.Close()
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth*2, baseHeight*2)
	ebiten.SetWindowTitle("shooting gallery")

	game := NewGame(rg, fx, watcher, *damage)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
