package radar

import (
	"fmt"
	"math"

	"dogfight-arena/internal/game"
	"dogfight-arena/internal/protocol"
	"dogfight-arena/internal/round"

	"github.com/gdamore/tcell/v2"
)

var (
	styleFrame  = tcell.StyleDefault.Foreground(tcell.ColorDarkCyan)
	styleHUD    = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleDim    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleHuman  = tcell.StyleDefault.Foreground(tcell.ColorLime).Bold(true)
	styleAI     = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleTarget = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleWreck  = tcell.StyleDefault.Foreground(tcell.ColorDimGray)
	styleShot   = tcell.StyleDefault.Foreground(tcell.ColorOrange)
	styleNuke   = tcell.StyleDefault.Foreground(tcell.ColorFuchsia).Bold(true)
	stylePickup = tcell.StyleDefault.Foreground(tcell.ColorAqua)
	styleBanner = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow)
)

// heading glyphs, clockwise from +X; screen rows grow with +Z
var headings = [8]rune{'→', '↘', '↓', '↙', '←', '↖', '↑', '↗'}

var pickupGlyphs = map[string]rune{"health": '+', "shield": 'O', "weapon": 'W', "boost": '»'}

// Rect is an inclusive cell rectangle
type Rect struct{ X0, Y0, X1, Y1 int }

// Radar draws game state onto a tcell screen
type Radar struct {
	screen tcell.Screen
	Mode   round.Mode // menu selection
	Muted  bool
}

// New creates a radar on screen
func New(screen tcell.Screen) *Radar {
	return &Radar{screen: screen, Mode: round.ModePlayer}
}

// Field returns the square playfield frame for the current screen size.
// Terminal cells are about twice as tall as wide, so columns are doubled.
func (r *Radar) Field() Rect {
	w, h := r.screen.Size()
	rows := h - 2
	if rows < 3 {
		rows = 3
	}
	cols := rows * 2
	if cols > w {
		cols = w
		rows = cols / 2
	}
	x0 := (w - cols) / 2
	return Rect{X0: x0, Y0: 1, X1: x0 + cols - 1, Y1: rows}
}

// Project maps arena x/z onto a cell inside f, clamped to the frame interior
func Project(f Rect, size, x, z float64) (int, int) {
	ix0, iy0, ix1, iy1 := f.X0+1, f.Y0+1, f.X1-1, f.Y1-1
	if size <= 0 || ix1 < ix0 || iy1 < iy0 {
		return ix0, iy0
	}
	u := (x + size) / (2 * size)
	v := (z + size) / (2 * size)
	cx := ix0 + int(math.Round(u*float64(ix1-ix0)))
	cy := iy0 + int(math.Round(v*float64(iy1-iy0)))
	return clampInt(cx, ix0, ix1), clampInt(cy, iy0, iy1)
}

// Heading picks the arrow for a facing vector's horizontal component
func Heading(fx, fz float64) rune {
	if fx == 0 && fz == 0 {
		return '•'
	}
	a := math.Atan2(fz, fx)
	i := int(math.Round(a/(math.Pi/4))) % 8
	if i < 0 {
		i += 8
	}
	return headings[i]
}

// Draw renders one frame and shows it
func (r *Radar) Draw(gs *protocol.GameState) {
	r.screen.Clear()
	switch gs.State {
	case round.Menu.String():
		r.drawMenu()
	default:
		r.drawField(gs)
		r.drawHUD(gs)
		if gs.State == round.Ended.String() {
			r.drawResult(gs)
		}
	}
	r.screen.Show()
}

func (r *Radar) drawMenu() {
	w, h := r.screen.Size()
	lines := []string{
		"D O G F I G H T   A R E N A",
		"",
		"[1] AI battle   [2] pilot   [3] mixed",
		"",
		"Enter start   Esc quit",
	}
	y := h/2 - len(lines)/2
	for i, l := range lines {
		r.text((w-len([]rune(l)))/2, y+i, styleHUD, l)
	}
	sel := fmt.Sprintf("mode: %s", r.Mode)
	r.text((w-len(sel))/2, y+len(lines)+1, styleTarget, sel)
}

func (r *Radar) drawField(gs *protocol.GameState) {
	f := r.Field()
	r.frame(f)

	for _, p := range gs.Pickups {
		g, ok := pickupGlyphs[p.Type]
		if !ok {
			g = '?'
		}
		x, y := Project(f, gs.ArenaSize, p.Pos.X, p.Pos.Z)
		r.screen.SetContent(x, y, g, nil, stylePickup)
	}
	for _, p := range gs.Projectiles {
		g, st := '·', styleShot
		switch p.Kind {
		case game.Rocket.String():
			g = '*'
		case game.NuclearMissile.String():
			g, st = '☢', styleNuke
		}
		x, y := Project(f, gs.ArenaSize, p.Pos.X, p.Pos.Z)
		r.screen.SetContent(x, y, g, nil, st)
	}

	human, hasHuman := humanShip(gs)
	// wrecks first so live ships draw over them
	for _, alive := range []bool{false, true} {
		for _, s := range gs.Ships {
			if s.Alive != alive {
				continue
			}
			x, y := Project(f, gs.ArenaSize, s.Pos.X, s.Pos.Z)
			switch {
			case !s.Alive:
				r.screen.SetContent(x, y, 'x', nil, styleWreck)
			case s.Human:
				r.screen.SetContent(x, y, Heading(s.Facing.X, s.Facing.Z), nil, styleHuman)
			case hasHuman && human.Target == s.ID:
				r.screen.SetContent(x, y, Heading(s.Facing.X, s.Facing.Z), nil, styleTarget)
			default:
				r.screen.SetContent(x, y, Heading(s.Facing.X, s.Facing.Z), nil, styleAI)
			}
		}
	}
}

func (r *Radar) drawHUD(gs *protocol.GameState) {
	_, h := r.screen.Size()
	alive := 0
	for _, s := range gs.Ships {
		if s.Alive {
			alive++
		}
	}
	secs := int(math.Ceil(gs.TimeLeft))
	top := fmt.Sprintf(" %s  %02d:%02d  alive %d/%d  mode %s", gs.State, secs/60, secs%60, alive, len(gs.Ships), gs.Mode)
	if r.Muted {
		top += "  [muted]"
	}
	r.text(0, 0, styleHUD, top)

	bottom := " spectating"
	if s, ok := humanShip(gs); ok {
		special := "ready"
		if s.SpecialIn > 0 {
			special = fmt.Sprintf("%.0fs", math.Ceil(s.SpecialIn))
		}
		bottom = fmt.Sprintf(" HP %3.0f  SH %2.0f  %-7s  BOOST %3.0f  NUKE %-5s  ALT %3.0f  K %d  SC %d",
			s.Health, s.Shield, s.Weapon, s.Boost, special, s.Pos.Y, s.Kills, s.Score)
		if !s.Alive {
			bottom = " destroyed"
		}
	} else if len(gs.Ships) > 0 {
		// follow the AI ship with the best score
		best := gs.Ships[0]
		for _, s := range gs.Ships[1:] {
			if s.Alive && (!best.Alive || s.Score > best.Score) {
				best = s
			}
		}
		bottom = fmt.Sprintf(" %s  HP %3.0f  SH %2.0f  %s/%s  K %d", best.Name, best.Health, best.Shield, best.AIState, best.AIMode, best.Kills)
	}
	r.text(0, h-1, styleDim, bottom)
}

func (r *Radar) drawResult(gs *protocol.GameState) {
	w, h := r.screen.Size()
	lines := []string{" ROUND OVER "}
	if res := gs.Result; res != nil {
		lines = append(lines,
			fmt.Sprintf(" winner %s ", res.WinnerName),
			fmt.Sprintf(" kills %d  score %d  hp %.0f ", res.Kills, res.Score, res.Health),
			fmt.Sprintf(" survived %.1fs  (%s) ", res.SurvivalTime, res.Reason),
		)
	}
	if gs.RestartIn > 0 {
		lines = append(lines, fmt.Sprintf(" next round in %.0fs ", math.Ceil(gs.RestartIn)))
	} else {
		lines = append(lines, " Enter replay  Esc menu ")
	}
	y := h/2 - len(lines)/2
	for i, l := range lines {
		r.text((w-len([]rune(l)))/2, y+i, styleBanner, l)
	}
}

func (r *Radar) frame(f Rect) {
	for x := f.X0 + 1; x < f.X1; x++ {
		r.screen.SetContent(x, f.Y0, tcell.RuneHLine, nil, styleFrame)
		r.screen.SetContent(x, f.Y1, tcell.RuneHLine, nil, styleFrame)
	}
	for y := f.Y0 + 1; y < f.Y1; y++ {
		r.screen.SetContent(f.X0, y, tcell.RuneVLine, nil, styleFrame)
		r.screen.SetContent(f.X1, y, tcell.RuneVLine, nil, styleFrame)
	}
	r.screen.SetContent(f.X0, f.Y0, tcell.RuneULCorner, nil, styleFrame)
	r.screen.SetContent(f.X1, f.Y0, tcell.RuneURCorner, nil, styleFrame)
	r.screen.SetContent(f.X0, f.Y1, tcell.RuneLLCorner, nil, styleFrame)
	r.screen.SetContent(f.X1, f.Y1, tcell.RuneLRCorner, nil, styleFrame)
}

func (r *Radar) text(x, y int, st tcell.Style, s string) {
	if x < 0 {
		x = 0
	}
	for _, c := range s {
		r.screen.SetContent(x, y, c, nil, st)
		x++
	}
}

func humanShip(gs *protocol.GameState) (protocol.ShipState, bool) {
	for _, s := range gs.Ships {
		if s.Human {
			return s, true
		}
	}
	return protocol.ShipState{}, false
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
