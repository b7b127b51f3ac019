package render

import (
	"bytes"
	"image"
	"image/color"
	"strings"
	"testing"
)

func fill(img *image.RGBA, c color.RGBA) {
	for y := img.Rect.Min.Y; y < img.Rect.Max.Y; y++ {
		for x := img.Rect.Min.X; x < img.Rect.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

func TestHalfBlockCell(t *testing.T) {
	c := HalfBlockCell(color.RGBA{1, 2, 3, 255}, color.RGBA{4, 5, 6, 255})
	want := Cell{Ch: HalfBlock, FgR: 1, FgG: 2, FgB: 3, BgR: 4, BgG: 5, BgB: 6}
	if c != want {
		t.Errorf("HalfBlockCell = %+v, want %+v", c, want)
	}

	var sb strings.Builder
	WriteCellSGR(&sb, c)
	if got := sb.String(); got != "\x1b[0;38;2;1;2;3;48;2;4;5;6m▀" {
		t.Errorf("WriteCellSGR = %q", got)
	}

	// The sentinel only has to differ from every real cell.
	if sentinel.Ch == HalfBlock {
		t.Error("sentinel collides with half-block cells")
	}
	e := NewEngine(2, 1)
	if out := e.Render(image.NewRGBA(image.Rect(0, 0, 2, 2))); strings.Contains(out, "\x1b[0;1;") {
		t.Errorf("first frame sets bold: %q", out)
	}
}

func TestEngineDiff(t *testing.T) {
	green := color.RGBA{0, 200, 0, 255}
	img := image.NewRGBA(image.Rect(0, 0, 3, 4))
	fill(img, green)

	e := NewEngine(3, 2)
	first := e.Render(img)
	if n := strings.Count(first, string(HalfBlock)); n != 6 {
		t.Errorf("first frame drew %d cells, want 6", n)
	}
	if n := strings.Count(first, "H"); n != 2 {
		t.Errorf("first frame moved the cursor %d times, want once per row", n)
	}

	if again := e.Render(img); again != "" {
		t.Errorf("unchanged frame emitted %q", again)
	}

	img.SetRGBA(1, 3, color.RGBA{255, 0, 0, 255})
	diff := e.Render(img)
	if n := strings.Count(diff, string(HalfBlock)); n != 1 {
		t.Fatalf("changed frame drew %d cells, want 1", n)
	}
	if !strings.HasPrefix(diff, MoveTo(2, 2)) {
		t.Errorf("diff starts %q, want cursor at row 2 col 2", diff)
	}
	if !strings.Contains(diff, "38;2;0;200;0;48;2;255;0;0m") {
		t.Errorf("diff %q does not carry green over red", diff)
	}
	if !strings.HasSuffix(diff, Reset) {
		t.Error("diff not terminated by reset")
	}
}

func TestEngineResizeRedrawsEverything(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	e := NewEngine(2, 2)
	e.Render(img)

	e.Resize(4, 2)
	if n := strings.Count(e.Render(img), string(HalfBlock)); n != 8 {
		t.Errorf("after resize drew %d cells, want 8", n)
	}

	e.Invalidate()
	if n := strings.Count(e.Render(img), string(HalfBlock)); n != 8 {
		t.Errorf("after invalidate drew %d cells, want 8", n)
	}
}

func TestEngineOutsideImageIsBlack(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	fill(img, color.RGBA{9, 9, 9, 255})
	e := NewEngine(2, 1)
	out := e.Render(img)
	if !strings.Contains(out, "38;2;9;9;9;48;2;0;0;0m") || !strings.Contains(out, "38;2;0;0;0;48;2;0;0;0m") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestTerminalPresent(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(&out, 4, 3)
	if w, h := term.Size(); w != 4 || h != 6 {
		t.Fatalf("pixel size %dx%d, want 4x6", w, h)
	}

	term.FillGradient(image.Rect(0, 0, 4, 6), color.RGBA{0, 0, 255, 255}, color.RGBA{0, 0, 100, 255})
	if err := term.Present(); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(out.String(), string(HalfBlock)); n != 12 {
		t.Errorf("presented %d cells, want 12", n)
	}

	out.Reset()
	if err := term.Present(); err != nil {
		t.Fatal(err)
	}
	if out.Len() != 0 {
		t.Errorf("unchanged present wrote %d bytes", out.Len())
	}

	term.Resize(2, 2)
	if cols, rows := term.Cells(); cols != 2 || rows != 2 {
		t.Errorf("Cells = %dx%d, want 2x2", cols, rows)
	}
	if w, h := term.Size(); w != 2 || h != 4 {
		t.Errorf("pixel size %dx%d after resize, want 2x4", w, h)
	}
}

func TestPreview(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 5))
	fill(img, color.RGBA{10, 20, 30, 255})
	bg := color.RGBA{1, 1, 1, 255}

	out := Preview(img, bg)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if n := strings.Count(lines[2], string(HalfBlock)); n != 3 {
		t.Errorf("last line has %d cells", n)
	}
	// odd height: the last row's lower half is background
	if !strings.Contains(lines[2], "48;2;1;1;1m") {
		t.Errorf("last line %q lacks background fill", lines[2])
	}
}

func TestEnterLeave(t *testing.T) {
	if !strings.Contains(Enter(), "?1049h") || !strings.Contains(Enter(), "?25l") {
		t.Error("Enter does not switch screens and hide the cursor")
	}
	if !strings.HasSuffix(Leave(), DisableAltScreen()) {
		t.Error("Leave does not restore the main screen")
	}
}
