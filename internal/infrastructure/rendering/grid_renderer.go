package rendering

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	"image/png"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/artcollab/drawgrid/internal/application/port"
)

const (
	headerHeight    = 96
	nameStripHeight = 36
	gutter          = 16
)

var (
	colorBackground = color.RGBA{R: 0xf4, G: 0xf1, B: 0xea, A: 0xff}
	colorTileEmpty  = color.RGBA{R: 0xe3, G: 0xde, B: 0xd3, A: 0xff}
	colorNameStrip  = color.RGBA{R: 0x2b, G: 0x2b, B: 0x2b, A: 0xff}
	colorText       = color.RGBA{R: 0x2b, G: 0x2b, B: 0x2b, A: 0xff}
	colorNameText   = color.RGBA{R: 0xf4, G: 0xf1, B: 0xea, A: 0xff}
)

type Config struct {
	TileSize int
	Columns  int
}

// GridRenderer собирает доску в один PNG: заголовок темы, плитки с картинками,
// подпись автора под каждой занятой плиткой.
type GridRenderer struct {
	tileSize int
	columns  int
}

func NewGridRenderer(cfg Config) *GridRenderer {
	if cfg.TileSize <= 0 {
		cfg.TileSize = 320
	}
	if cfg.Columns <= 0 {
		cfg.Columns = 3
	}
	return &GridRenderer{
		tileSize: cfg.TileSize,
		columns:  cfg.Columns,
	}
}

func (r *GridRenderer) RenderPNG(ctx context.Context, board port.RenderBoard) ([]byte, error) {
	tileCount := len(board.Tiles)
	if tileCount == 0 {
		return nil, fmt.Errorf("board has no tiles to render")
	}

	rows := (tileCount + r.columns - 1) / r.columns
	cellHeight := r.tileSize + nameStripHeight
	width := r.columns*r.tileSize + (r.columns+1)*gutter
	height := headerHeight + rows*cellHeight + (rows+1)*gutter

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(colorBackground), image.Point{}, draw.Src)

	r.drawHeader(canvas, board.MainTheme, board.SubTitle)

	for i, tile := range board.Tiles {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		col := i % r.columns
		row := i / r.columns
		x := gutter + col*(r.tileSize+gutter)
		y := headerHeight + gutter + row*(cellHeight+gutter)

		r.drawTile(canvas, tile, x, y)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}

	return buf.Bytes(), nil
}

func (r *GridRenderer) drawHeader(canvas *image.RGBA, mainTheme, subTitle string) {
	drawText(canvas, mainTheme, gutter, 40, colorText)
	if subTitle != "" {
		drawText(canvas, subTitle, gutter, 68, colorText)
	}
}

func (r *GridRenderer) drawTile(canvas *image.RGBA, tile *port.RenderTile, x, y int) {
	tileRect := image.Rect(x, y, x+r.tileSize, y+r.tileSize)

	var decoded image.Image
	if tile != nil && len(tile.ImageData) > 0 {
		if img, _, err := image.Decode(bytes.NewReader(tile.ImageData)); err == nil {
			decoded = img
		}
	}

	if decoded == nil {
		// Пустой слот или битая картинка: плитка-заглушка.
		draw.Draw(canvas, tileRect, image.NewUniform(colorTileEmpty), image.Point{}, draw.Src)
	} else {
		scaleToFill(canvas, tileRect, decoded)
	}

	if tile == nil || tile.ArtistName == "" {
		return
	}

	stripRect := image.Rect(x, y+r.tileSize, x+r.tileSize, y+r.tileSize+nameStripHeight)
	draw.Draw(canvas, stripRect, image.NewUniform(colorNameStrip), image.Point{}, draw.Src)
	drawText(canvas, truncateToWidth(tile.ArtistName, r.tileSize-2*8), x+8, y+r.tileSize+23, colorNameText)
}

// scaleToFill масштабирует картинку с сохранением пропорций и центральным кропом,
// чтобы плитка была заполнена целиком.
func scaleToFill(dst *image.RGBA, dstRect image.Rectangle, src image.Image) {
	srcBounds := src.Bounds()
	srcW, srcH := srcBounds.Dx(), srcBounds.Dy()
	if srcW == 0 || srcH == 0 {
		return
	}

	dstW, dstH := dstRect.Dx(), dstRect.Dy()
	srcRect := srcBounds

	// Кроп по длинной стороне: видимая часть источника имеет пропорции плитки.
	if srcW*dstH > srcH*dstW {
		cropW := srcH * dstW / dstH
		offset := (srcW - cropW) / 2
		srcRect = image.Rect(srcBounds.Min.X+offset, srcBounds.Min.Y, srcBounds.Min.X+offset+cropW, srcBounds.Max.Y)
	} else if srcW*dstH < srcH*dstW {
		cropH := srcW * dstH / dstW
		offset := (srcH - cropH) / 2
		srcRect = image.Rect(srcBounds.Min.X, srcBounds.Min.Y+offset, srcBounds.Max.X, srcBounds.Min.Y+offset+cropH)
	}

	xdraw.CatmullRom.Scale(dst, dstRect, src, srcRect, xdraw.Src, nil)
}

func drawText(dst *image.RGBA, text string, x, y int, clr color.Color) {
	if text == "" {
		return
	}

	drawer := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(clr),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	drawer.DrawString(text)
}

// truncateToWidth обрезает подпись под ширину плитки (шрифт моноширинный, 7px на символ).
func truncateToWidth(text string, widthPx int) string {
	maxRunes := widthPx / 7
	if maxRunes < 1 {
		return ""
	}

	runes := []rune(text)
	if len(runes) <= maxRunes {
		return text
	}
	if maxRunes <= 3 {
		return string(runes[:maxRunes])
	}
	return string(runes[:maxRunes-3]) + "..."
}
