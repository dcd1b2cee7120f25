package main

import (
	"flag"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/emberfx/ember"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	debug := flag.Bool("debug", false, "Enable debug logging")
	preset := flag.String("preset", "flame", "Built-in emitter preset (flame, fountain, smoke, sparks)")
	presetFile := flag.String("file", "", "Load emitters from a preset JSON file instead")
	gravity := flag.Bool("gravity", false, "Attach a travelling gravity well to every emitter")
	flag.Parse()

	log := ember.NewDefaultLogger("ember", *debug)

	window := ember.CreateWindowState(1280, 720, "Ember")
	defer glfw.Terminate()

	gpu := ember.CreateGpuState(window)

	scene, err := ember.NewScene(gpu, log)
	if err != nil {
		log.Errorf("scene setup: %v", err)
		return
	}
	defer scene.Release()

	var emitters []*ember.Emitter
	if *presetFile != "" {
		emitters, err = ember.LoadPreset(*presetFile)
		if err != nil {
			log.Errorf("load preset: %v", err)
			return
		}
	} else {
		em, err := ember.NamedPreset(*preset)
		if err != nil {
			log.Errorf("%v", err)
			return
		}
		emitters = []*ember.Emitter{em}
	}

	for _, em := range emitters {
		state, err := scene.AddEmitter(em)
		if err != nil {
			log.Errorf("add emitter: %v", err)
			return
		}
		if *gravity {
			if err := state.AddAnimation(gpu, ember.NewGravityAnimation()); err != nil {
				log.Errorf("attach gravity: %v", err)
				return
			}
		}
	}

	win := window.Window()
	win.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		gpu.Resize(width, height)
	})

	for !win.ShouldClose() {
		glfw.PollEvents()

		scene.Camera().Orbit(0.002)
		if err := scene.Frame(); err != nil {
			log.Warnf("frame: %v", err)
		}
	}
}
