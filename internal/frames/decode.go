package frames

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	_ "image/png" // 必加，否则 image: unknown format
	"io"
	"io/fs"
	"path"
	"strings"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

var ErrNoFrames = errors.New("frames: source has no frames")

// cleanSource 目录里的路径可能来自 Windows，统一成 fs.FS 能用的形式
func cleanSource(source string) string {
	p := strings.ReplaceAll(source, `\`, "/")
	p = strings.TrimPrefix(path.Clean("/"+p), "/")
	return p
}

// decode 读取动画源，返回按顺序排列的完整帧
// .gif 逐帧合成 (处理 disposal)，其他格式当作单帧静图
func decode(fsys fs.FS, source string) ([]*image.RGBA, error) {
	name := cleanSource(source)
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("frames: open %s: %w", source, err)
	}
	defer f.Close()

	var out []*image.RGBA
	if strings.EqualFold(path.Ext(name), ".gif") {
		out, err = decodeGIF(f)
	} else {
		var img image.Image
		img, _, err = image.Decode(f)
		if err == nil {
			out = []*image.RGBA{toRGBA(img)}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("frames: decode %s: %w", source, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoFrames, source)
	}
	return out, nil
}

func decodeGIF(r io.Reader) ([]*image.RGBA, error) {
	g, err := gif.DecodeAll(r)
	if err != nil {
		return nil, err
	}
	if len(g.Image) == 0 {
		return nil, nil
	}

	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() {
		bounds = g.Image[0].Bounds()
		for _, frame := range g.Image[1:] {
			bounds = bounds.Union(frame.Bounds())
		}
	}

	// GIF 的每一帧只描述变化的部分，要在画布上叠出完整画面
	canvas := image.NewRGBA(bounds)
	out := make([]*image.RGBA, 0, len(g.Image))
	for i, frame := range g.Image {
		var disposal byte
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}
		var saved *image.RGBA
		if disposal == gif.DisposalPrevious {
			saved = clone(canvas)
		}

		draw.Draw(canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)
		out = append(out, clone(canvas))

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, frame.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			canvas = saved
		}
	}
	return out, nil
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

func clone(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}

// scale 缩放到目标尺寸，输出的帧左上角都在 (0,0)
func scale(src *image.RGBA, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// Mirror 水平翻转一帧
func Mirror(src *image.RGBA) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	w := b.Dx()
	for y := 0; y < b.Dy(); y++ {
		so := src.PixOffset(b.Min.X, b.Min.Y+y)
		srow := src.Pix[so : so+w*4]
		drow := dst.Pix[y*dst.Stride : y*dst.Stride+w*4]
		for x := 0; x < w; x++ {
			copy(drow[(w-1-x)*4:(w-x)*4], srow[x*4:(x+1)*4])
		}
	}
	return dst
}
