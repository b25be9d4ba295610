package port

import "context"

// RenderTile — одна плитка экспорта. Nil-плитка в RenderBoard означает пустой слот.
type RenderTile struct {
	ArtistName string
	ImageData  []byte
}

// RenderBoard — всё, что нужно для отрисовки доски в одну картинку.
type RenderBoard struct {
	MainTheme string
	SubTitle  string
	Tiles     []*RenderTile
}

// GridRenderer собирает доску в один PNG фиксированного разрешения.
type GridRenderer interface {
	RenderPNG(ctx context.Context, board RenderBoard) ([]byte, error)
}
