package frames

import (
	"fmt"
	"image"
	"io/fs"
)

// Drawable 宿主图形系统里的一块位图，用完必须 Release
type Drawable interface {
	Release()
}

// Device 把一帧像素变成 Drawable
type Device interface {
	NewDrawable(img image.Image) (Drawable, error)
}

// Pipeline 动画帧流水线：解码 → 缩放 → 生成 Drawable
type Pipeline struct {
	fsys        fs.FS
	dev         Device
	cacheMirror bool
}

// NewPipeline fsys 是动画资源的根目录
// cacheMirror 为 true 时，朝左用的翻转帧第一次用到后缓存在 Set 里，跟 Set 一起释放
func NewPipeline(fsys fs.FS, dev Device, cacheMirror bool) *Pipeline {
	return &Pipeline{fsys: fsys, dev: dev, cacheMirror: cacheMirror}
}

// Load 解码并缩放，不创建 Drawable
func (p *Pipeline) Load(source string, size Size) ([]*image.RGBA, error) {
	raw, err := decode(p.fsys, source)
	if err != nil {
		return nil, err
	}
	out := make([]*image.RGBA, len(raw))
	for i, f := range raw {
		w, h := size.Scale(f.Bounds().Dx(), f.Bounds().Dy())
		out[i] = scale(f, w, h)
	}
	return out, nil
}

// Build 生成一个完整的帧集合
// 中途创建 Drawable 失败时，已经创建的会被释放
func (p *Pipeline) Build(source string, size Size) (*Set, error) {
	imgs, err := p.Load(source, size)
	if err != nil {
		return nil, err
	}
	return p.newSet(imgs)
}

// Freeze 用 s 的第 i 帧复制出一个只有一帧的新集合
// 新集合有自己的 Drawable，s 释放后仍然可用
func (p *Pipeline) Freeze(s *Set, i int) (*Set, error) {
	return p.newSet([]*image.RGBA{clone(s.frames[i])})
}

func (p *Pipeline) newSet(imgs []*image.RGBA) (*Set, error) {
	if len(imgs) == 0 {
		return nil, ErrNoFrames
	}
	s := &Set{
		dev:       p.dev,
		frames:    imgs,
		drawables: make([]Drawable, 0, len(imgs)),
		width:     imgs[0].Bounds().Dx(),
		height:    imgs[0].Bounds().Dy(),
	}
	for i, img := range imgs {
		d, err := p.dev.NewDrawable(img)
		if err != nil {
			s.Release()
			return nil, fmt.Errorf("frames: drawable %d: %w", i, err)
		}
		s.drawables = append(s.drawables, d)
	}
	if p.cacheMirror {
		s.mirrored = make([]Drawable, len(imgs))
	}
	return s, nil
}

// Set 一个状态的全部帧，frames 和 drawables 一一对应，长度至少为 1
type Set struct {
	dev       Device
	frames    []*image.RGBA
	drawables []Drawable
	mirrored  []Drawable // nil 表示不缓存翻转帧
	width     int
	height    int
}

func (s *Set) Len() int    { return len(s.frames) }
func (s *Set) Width() int  { return s.width }
func (s *Set) Height() int { return s.height }

// Frame 第 i 帧的像素
func (s *Set) Frame(i int) *image.RGBA { return s.frames[i] }

// Drawable 第 i 帧 (朝右)
func (s *Set) Drawable(i int) Drawable { return s.drawables[i] }

// Released 是否已经释放
func (s *Set) Released() bool { return s.drawables == nil }

// Mirrored 第 i 帧的水平翻转版本
// 不缓存时每次新建，调用方画完后必须调用返回的 release
func (s *Set) Mirrored(i int) (Drawable, func(), error) {
	if s.mirrored != nil && s.mirrored[i] != nil {
		return s.mirrored[i], func() {}, nil
	}
	d, err := s.dev.NewDrawable(Mirror(s.frames[i]))
	if err != nil {
		return nil, nil, fmt.Errorf("frames: mirrored drawable %d: %w", i, err)
	}
	if s.mirrored != nil {
		s.mirrored[i] = d
		return d, func() {}, nil
	}
	return d, d.Release, nil
}

// Release 释放所有 Drawable，可以重复调用
func (s *Set) Release() {
	for _, d := range s.drawables {
		d.Release()
	}
	for _, d := range s.mirrored {
		if d != nil {
			d.Release()
		}
	}
	s.drawables = nil
	s.mirrored = nil
}
