package draw

import (
	"bytes"
	"image/color"
	"strings"
	"testing"
)

func TestDrawLineSetsEndpoints(t *testing.T) {
	c := NewScaledCanvas(10, 5, 10, 10)
	c.DrawLine(Point{X: 0, Y: 0}, Point{X: 9, Y: 9})

	for _, p := range [][2]int{{0, 0}, {9, 9}, {4, 4}} {
		if _, ok := c.At(p[0], p[1]); !ok {
			t.Errorf("pixel %v not set", p)
		}
	}
	if _, ok := c.At(9, 0); ok {
		t.Error("pixel off the line is set")
	}
}

func TestFilledPolygonCoversInterior(t *testing.T) {
	c := NewScaledCanvas(20, 10, 20, 20)
	c.DrawPolygon([]Point{{X: 2, Y: 2}, {X: 12, Y: 2}, {X: 12, Y: 12}, {X: 2, Y: 12}}, true)

	if _, ok := c.At(7, 7); !ok {
		t.Error("interior not filled")
	}
	if _, ok := c.At(15, 15); ok {
		t.Error("exterior filled")
	}
}

func TestPolygonOffCanvasIsClipped(t *testing.T) {
	c := NewScaledCanvas(4, 2, 4, 4)
	// Must not panic.
	c.DrawPolygon([]Point{{X: -50, Y: -50}, {X: 50, Y: -50}, {X: 50, Y: 50}}, true)
}

func TestRenderHalfBlocks(t *testing.T) {
	c := NewScaledCanvas(3, 1, 3, 2)
	c.SetFloat(0, 0) // top
	c.SetFloat(1, 1) // bottom
	c.SetFloat(2, 0)
	c.SetFloat(2, 1) // both

	var buf bytes.Buffer
	c.Render(&buf)
	out := buf.String()

	for _, want := range []string{"\033[1;1H▀", "\033[1;2H▄", "\033[1;3H█"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q in %q", want, out)
		}
	}
	if strings.Contains(out, "38;2;") {
		t.Error("white pixels should not carry colour escapes")
	}
}

func TestRenderColour(t *testing.T) {
	c := NewScaledCanvas(1, 1, 1, 2)
	c.SetPen(color.RGBA{R: 255, G: 10})
	c.SetFloat(0, 0)
	c.ResetPen()

	var buf bytes.Buffer
	c.Render(&buf)
	if !strings.Contains(buf.String(), "\033[38;2;255;10;0m▀\033[0m") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestRenderOffset(t *testing.T) {
	c := NewScaledCanvas(2, 1, 2, 2)
	c.SetOffset(3, 4)
	c.SetFloat(0, 0)

	var buf bytes.Buffer
	c.Render(&buf)
	if !strings.HasPrefix(buf.String(), "\033[5;4H") {
		t.Errorf("offset not applied: %q", buf.String())
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		name                 string
		termW, termH         int
		wantW, wantH         int
		wantOffCol, wantOffR int
	}{
		{"exact", 160, 48, 160, 48, 0, 0},
		{"wide terminal", 300, 48, 160, 48, 70, 0},
		{"tall terminal", 160, 100, 160, 48, 0, 26},
		{"narrow", 80, 48, 80, 24, 0, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h, oc, or := Fit(tt.termW, tt.termH, 1000, 1000, 160, 96)
			if w != tt.wantW || h != tt.wantH || oc != tt.wantOffCol || or != tt.wantOffR {
				t.Errorf("Fit = %d,%d,%d,%d; want %d,%d,%d,%d",
					w, h, oc, or, tt.wantW, tt.wantH, tt.wantOffCol, tt.wantOffR)
			}
		})
	}
}

func TestChunkWriterFlush(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 1, 2)
	cw.WriteAt(3, 4, strings.Repeat("x", maxChunkSize*2))
	if cw.Len() == 0 {
		t.Fatal("nothing buffered")
	}
	if err := cw.Flush(); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.String(), "\033[6;4H") {
		t.Errorf("prefix = %q", out.String()[:8])
	}
	if cw.Len() != 0 {
		t.Error("buffer not reset")
	}
}
