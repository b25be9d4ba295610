package rendering

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/artcollab/drawgrid/internal/application/port"
)

func encodePNG(t *testing.T, w, h int, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode fixture: %v", err)
	}
	return buf.Bytes()
}

func TestGridRenderer_OutputDimensions(t *testing.T) {
	r := NewGridRenderer(Config{TileSize: 100, Columns: 3})

	tiles := make([]*port.RenderTile, 7)
	tiles[0] = &port.RenderTile{
		ArtistName: "Youmu",
		ImageData:  encodePNG(t, 40, 40, color.RGBA{R: 0xff, A: 0xff}),
	}

	out, err := r.RenderPNG(context.Background(), port.RenderBoard{
		MainTheme: "Autumn",
		SubTitle:  "week 3",
		Tiles:     tiles,
	})
	if err != nil {
		t.Fatalf("RenderPNG() error = %v", err)
	}

	decoded, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not a valid png: %v", err)
	}

	// 3 колонки по 100px + 4 отступа; 3 ряда по (100+36) + заголовок + 4 отступа.
	wantW := 3*100 + 4*16
	wantH := 96 + 3*(100+36) + 4*16
	bounds := decoded.Bounds()
	if bounds.Dx() != wantW || bounds.Dy() != wantH {
		t.Fatalf("unexpected dimensions %dx%d, want %dx%d", bounds.Dx(), bounds.Dy(), wantW, wantH)
	}
}

func TestGridRenderer_BrokenImageFallsBackToPlaceholder(t *testing.T) {
	r := NewGridRenderer(Config{TileSize: 60, Columns: 2})

	tiles := []*port.RenderTile{
		{ArtistName: "Broken", ImageData: []byte("not an image")},
		nil,
	}

	out, err := r.RenderPNG(context.Background(), port.RenderBoard{MainTheme: "T", Tiles: tiles})
	if err != nil {
		t.Fatalf("RenderPNG() must tolerate undecodable tiles: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(out)); err != nil {
		t.Fatalf("output is not a valid png: %v", err)
	}
}

func TestGridRenderer_EmptyBoardRejected(t *testing.T) {
	r := NewGridRenderer(Config{})

	if _, err := r.RenderPNG(context.Background(), port.RenderBoard{MainTheme: "T"}); err == nil {
		t.Fatalf("expected error for a board without tiles")
	}
}

func TestTruncateToWidth(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		widthPx int
		want    string
	}{
		{name: "fits", text: "short", widthPx: 70, want: "short"},
		{name: "truncated with ellipsis", text: "a very long artist name", widthPx: 70, want: "a very ..."},
		{name: "too narrow for ellipsis", text: "abcdef", widthPx: 14, want: "ab"},
		{name: "zero width", text: "abc", widthPx: 3, want: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := truncateToWidth(tc.text, tc.widthPx); got != tc.want {
				t.Fatalf("truncateToWidth(%q, %d) = %q, want %q", tc.text, tc.widthPx, got, tc.want)
			}
		})
	}
}
