package loop

import (
	"image/color"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/tomz197/spaceshooter/internal/draw"
	"github.com/tomz197/spaceshooter/internal/object"
)

// RestartMessage is shown while the ship is destroyed.
const RestartMessage = "You Lose! Press the R key to restart."

const hudTab = "        "

var (
	orangeRed  = color.RGBA{R: 255, G: 69, A: 255}
	lightGreen = color.RGBA{R: 144, G: 238, B: 144, A: 255}
	red        = color.RGBA{R: 255, A: 255}
)

// printer groups digits in HUD numbers.
var printer = message.NewPrinter(language.English)

// Draw renders the field and the overlay for the current state.
func (g *Game) Draw(canvas *draw.Canvas, w *draw.ChunkWriter) {
	canvas.Clear()
	if g.state != GameStateStart {
		g.field.Draw(object.DrawContext{Canvas: canvas, Camera: g.camera})
	} else {
		g.field.Perimeter.Draw(object.DrawContext{Canvas: canvas, Camera: g.camera})
	}
	canvas.Render(w)

	for _, t := range g.overlay(canvas.TerminalWidth(), canvas.TerminalHeight()) {
		t.Draw(w)
	}
}

// overlay returns the text lines for a canvas of width x height cells.
func (g *Game) overlay(width, height int) []object.Text {
	centerX := width / 2
	centerY := height / 2

	var lines []object.Text
	switch g.state {
	case GameStateStart:
		return []object.Text{
			object.Centered(centerX, centerY-2, "3 D   S P A C E   S H O O T E R", orangeRed),
			object.Centered(centerX, centerY+1, "Press ENTER or SPACE to start", color.RGBA{}),
			object.Centered(centerX, centerY+4, "WASD/arrows move, SPACE shoots, TAB score, M mute, Q quits", color.RGBA{}),
		}
	case GameStateDead:
		lines = append(lines, object.Centered(centerX, centerY, RestartMessage, red))
	}

	if g.showHUD {
		lines = append(lines, g.hud(centerX)...)
	}
	return lines
}

func (g *Game) hud(centerX int) []object.Text {
	sc := g.ctx.Score
	line1 := printer.Sprintf("Level: %d%sLevel Up In: %d", sc.Level(), hudTab, g.nextLevelIn)
	line2 := printer.Sprintf("Asteroids Hit: %d%sAsteroids Passed: %d%sShots Fired: %d",
		sc.Hits(), hudTab, sc.Misses(), hudTab, sc.Shots())
	line3 := printer.Sprintf("Score: %d", sc.Points())
	if g.audio.Muted() {
		line3 += hudTab + "(muted)"
	}
	return []object.Text{
		object.Centered(centerX, 1, line1, orangeRed),
		object.Centered(centerX, 2, line2, lightGreen),
		object.Centered(centerX, 3, line3, orangeRed),
	}
}
