package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gdamore/tcell/v2"

	"blobtile/internal/config"
	"blobtile/internal/maps"
	"blobtile/internal/preview"
	"blobtile/internal/render"
)

func main() {
	log.SetFlags(log.Ltime | log.Lshortfile)

	configPath := flag.String("config", "blobtile.yaml", "config file")
	worldPath := flag.String("world", "", "open a single world file instead of the worlds directory")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	worlds, err := loadWorlds(cfg, *worldPath)
	if err != nil {
		log.Fatalf("Load error: %v", err)
	}

	// The screen owns the terminal; hub messages are printed on exit.
	var logBuf bytes.Buffer
	catalog := preview.NewCatalog(worlds, cfg.BlendRules(), cfg.Workers)
	hub := preview.NewHub(catalog, cfg.SamplerMode(), log.New(&logBuf, "", log.Ltime))
	if cfg.DefaultWorld != "" {
		if err := hub.SetStartWorld(cfg.DefaultWorld); err != nil {
			log.Printf("default world: %v", err)
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("Screen error: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("Screen init: %v", err)
	}

	v := newViewer(screen, hub, os.Getenv("USER"))
	v.run()
	screen.Fini()

	os.Stderr.Write(logBuf.Bytes())
}

func loadWorlds(cfg config.Config, path string) (map[string]*maps.World, error) {
	if path != "" {
		w, err := maps.LoadWorld(path)
		if err != nil {
			return nil, err
		}
		return map[string]*maps.World{w.Name: w}, nil
	}
	worlds, err := maps.LoadWorlds(cfg.WorldsDir)
	if err != nil || len(worlds) == 0 {
		log.Printf("Could not load worlds from %s (%v), using the default world", cfg.WorldsDir, err)
		dw := maps.DefaultWorld()
		worlds = map[string]*maps.World{dw.Name: dw}
	}
	return worlds, nil
}

type viewer struct {
	screen tcell.Screen
	hub    *preview.Hub
	id     string
	frames preview.RenderChan
	engine *render.Engine
}

func newViewer(screen tcell.Screen, hub *preview.Hub, user string) *viewer {
	if user == "" {
		user = "local"
	}
	id, frames := hub.AddSession(user)
	w, h := screen.Size()
	return &viewer{
		screen: screen,
		hub:    hub,
		id:     id,
		frames: frames,
		engine: render.NewEngine(w, h),
	}
}

func (v *viewer) run() {
	defer v.hub.RemoveSession(v.id)
	v.step(nil)
	for {
		switch ev := v.screen.PollEvent().(type) {
		case *tcell.EventKey:
			actions := actionsForKey(ev.Key(), ev.Rune())
			for _, a := range actions {
				if a == preview.ActionQuit {
					return
				}
			}
			v.step(actions)
		case *tcell.EventResize:
			v.screen.Sync()
			v.step(nil)
		case nil:
			return
		}
	}
}

// step applies actions through the hub and draws the resulting frame.
func (v *viewer) step(actions []preview.Action) {
	for _, a := range actions {
		v.hub.InputChan() <- preview.InputEvent{SessionID: v.id, Action: a}
	}
	v.hub.Tick(context.Background())

	view, ok := <-v.frames
	if !ok {
		return
	}
	w, h := v.screen.Size()
	v.engine.Render(view, w, h)
	for y, row := range v.engine.Cells() {
		for x, c := range row {
			v.screen.SetContent(x, y, c.Ch, nil, cellStyle(c))
		}
	}
	v.screen.Show()
}

func actionsForKey(key tcell.Key, r rune) []preview.Action {
	switch key {
	case tcell.KeyUp:
		return []preview.Action{preview.ActionUp}
	case tcell.KeyDown:
		return []preview.Action{preview.ActionDown}
	case tcell.KeyLeft:
		return []preview.Action{preview.ActionLeft}
	case tcell.KeyRight:
		return []preview.Action{preview.ActionRight}
	case tcell.KeyTab:
		return []preview.Action{preview.ActionNextWorld}
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return []preview.Action{preview.ActionQuit}
	case tcell.KeyRune:
		return preview.ParseInput([]byte(string(r)))
	}
	return nil
}

func cellStyle(c render.Cell) tcell.Style {
	return tcell.StyleDefault.
		Foreground(tcell.NewRGBColor(int32(c.FgR), int32(c.FgG), int32(c.FgB))).
		Background(tcell.NewRGBColor(int32(c.BgR), int32(c.BgG), int32(c.BgB))).
		Bold(c.Bold)
}

func init() {
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tileview [-config blobtile.yaml] [-world file.json]")
		flag.PrintDefaults()
	}
}
