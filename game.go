package main

import (
	"fmt"
	"image/color"
	"log"
	"time"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"

	"github.com/milk9111/shootinggallery/common"
	"github.com/milk9111/shootinggallery/gallery"
	"github.com/milk9111/shootinggallery/prefabs"
	"github.com/milk9111/shootinggallery/target"
)

const (
	baseWidth  = 640
	baseHeight = 360

	// pixels per world unit
	worldScale = 40.0

	fireInterval = 150 * time.Millisecond
)

type Game struct {
	frames int

	rg       *gallery.Range
	fx       *effects
	watcher  *prefabs.Watcher
	damage   int
	cooldown time.Duration

	paused  bool
	pauseUI *ebitenui.UI
	face    ebtext.Face
}

func NewGame(rg *gallery.Range, fx *effects, watcher *prefabs.Watcher, damage int) *Game {
	g := &Game{
		rg:      rg,
		fx:      fx,
		watcher: watcher,
		damage:  damage,
		face:    ebtext.NewGoXFace(basicfont.Face7x13),
	}
	g.pauseUI = NewPauseUI(g)
	return g
}

func (g *Game) tick() time.Duration {
	return time.Second / time.Duration(ebiten.TPS())
}

func (g *Game) Update() error {
	g.frames++

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.paused = !g.paused
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	g.reloadChanged()

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) && !g.rg.Board.Running() {
		g.restart()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.rg.Spawner.SpawnOne()
	}

	dt := g.tick()
	if g.cooldown > 0 {
		g.cooldown -= dt
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && g.cooldown <= 0 && g.rg.Board.Running() {
		g.cooldown = fireInterval
		g.shoot(ebiten.CursorPosition())
	}

	g.fx.Update()
	g.rg.Update(dt)
	return nil
}

func (g *Game) shoot(px, py int) {
	point := toWorld(float64(px), float64(py))
	t := g.rg.TargetAt(point)
	if t == nil {
		return
	}
	g.rg.Shoot(point, gallery.IsHeadshot(t, point), g.damage)
}

func (g *Game) restart() {
	g.fx.Reset()
	g.rg.Start()
	g.paused = false
}

func (g *Game) reloadChanged() {
	if g.watcher == nil {
		return
	}
	select {
	case err, ok := <-g.watcher.Errors:
		if ok && err != nil {
			log.Printf("prefabs: watch: %v", err)
		}
	default:
	}
	changes := g.watcher.Drain()
	if len(changes) == 0 {
		return
	}
	for _, c := range changes {
		log.Printf("prefabs: %s changed", c.Path)
	}
	if err := g.rg.Reload(); err != nil {
		log.Printf("prefabs: reload failed, keeping current settings: %v", err)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.rg.Background(colornames.Darkslategray))

	for _, pt := range g.rg.Points {
		x, y := toScreen(pt.Position())
		vector.StrokeCircle(screen, x, y, float32(pt.Radius()*worldScale), 1, color.RGBA{R: 255, G: 255, B: 255, A: 40}, true)
	}
	for _, o := range g.rg.Obstacles() {
		x, y := toScreen(common.Vec{X: o.X, Y: o.Y})
		vector.FillCircle(screen, x, y, float32(o.Radius*worldScale), colornames.Dimgray, true)
	}
	for _, t := range g.rg.Spawner.Active() {
		g.drawTarget(screen, t)
	}
	for _, f := range g.fx.flashes {
		x, y := toScreen(f.pos)
		c := colornames.White
		if f.headshot {
			c = colornames.Orangered
		}
		rad := common.Lerp(2, 10, 1-float32(f.left)/flashTicks)
		vector.StrokeCircle(screen, x, y, rad, 2, c, true)
	}

	g.drawHUD(screen)

	if g.paused {
		g.pauseUI.Draw(screen)
		return
	}
	mx, my := ebiten.CursorPosition()
	vector.StrokeLine(screen, float32(mx-6), float32(my), float32(mx+6), float32(my), 1, colornames.Red, true)
	vector.StrokeLine(screen, float32(mx), float32(my-6), float32(mx), float32(my+6), 1, colornames.Red, true)
}

func (g *Game) drawTarget(screen *ebiten.Image, t *target.Target) {
	x, y := toScreen(t.Position())
	r := float32(t.Radius() * worldScale)

	c := color.RGBAModel.Convert(g.rg.Color(t, colornames.Burlywood)).(color.RGBA)
	if t.State() == target.StateDying {
		a := g.fx.fade(t)
		c = color.RGBA{R: uint8(float32(c.R) * a), G: uint8(float32(c.G) * a), B: uint8(float32(c.B) * a), A: uint8(float32(c.A) * a)}
	}
	vector.FillCircle(screen, x, y, r, c, true)
	vector.StrokeCircle(screen, x, y, r, 1.5, colornames.Black, true)

	// head band
	band := y - r + 2*r/3
	vector.StrokeLine(screen, x-r*0.8, band, x+r*0.8, band, 1, color.RGBA{A: 120}, true)

	if t.State() == target.StateActive {
		maxHP := t.EffectiveMaxHP()
		if maxHP > 0 && t.CurrentHP() < maxHP {
			w := 2 * r * float32(t.CurrentHP()) / float32(maxHP)
			vector.FillRect(screen, x-r, y+r+3, w, 3, colornames.Limegreen, false)
		}
	}
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	b := g.rg.Board
	lines := []string{
		fmt.Sprintf("%s  score %d  best %d", b.Clock(), b.Total(), b.Best()),
		fmt.Sprintf("kills %d  headshots %d  active %d", b.Kills(), b.Headshots(), g.rg.Spawner.ActiveCount()),
	}
	if !b.Running() {
		lines = append(lines, "press space to start")
	}
	for i, line := range lines {
		op := &ebtext.DrawOptions{}
		op.GeoM.Translate(8, float64(8+i*16))
		op.ColorScale.ScaleWithColor(colornames.White)
		ebtext.Draw(screen, line, g.face, op)
	}
}

func toScreen(v common.Vec) (float32, float32) {
	return float32(v.X * worldScale), float32(v.Y * worldScale)
}

func toWorld(x, y float64) common.Vec {
	return common.Vec{X: x / worldScale, Y: y / worldScale}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
