package object

import (
	"image/color"
	"strconv"
	"unicode/utf8"

	"github.com/tomz197/spaceshooter/internal/draw"
)

// Text is a line of overlay text at a 1-based canvas cell.
type Text struct {
	X      int
	Y      int
	Value  string
	Colour color.RGBA // zero means the terminal default
}

// Centered places value so that it is centred on column centerX.
func Centered(centerX, y int, value string, colour color.RGBA) Text {
	return Text{X: centerX - utf8.RuneCountInString(value)/2, Y: y, Value: value, Colour: colour}
}

// Draw queues the text on w.
func (t Text) Draw(w *draw.ChunkWriter) {
	if t.Value == "" {
		return
	}
	w.MoveCursor(max(t.X, 1), max(t.Y, 1))
	if t.Colour.A == 0 {
		_, _ = w.Write([]byte(t.Value))
		return
	}
	seq := "\033[38;2;" + strconv.Itoa(int(t.Colour.R)) + ";" +
		strconv.Itoa(int(t.Colour.G)) + ";" + strconv.Itoa(int(t.Colour.B)) + "m"
	_, _ = w.Write([]byte(seq + t.Value + "\033[0m"))
}
