package overlay

import (
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
)

// surface 一只宠物的悬浮层，双缓冲
// back 只有调度 goroutine 会写；交换 front/back 和 ebiten 读 front 都在 mu 下进行，
// 所以屏幕上要么是旧帧要么是新帧，不会出现画了一半的帧
type surface struct {
	mu    sync.Mutex
	front *ebiten.Image
	back  *ebiten.Image
	x, y  int
}

// present 把 src 复制到后台缓冲，然后和前台交换
func (s *surface) present(src *ebiten.Image, x, y, w, h int) {
	if s.back != nil {
		if b := s.back.Bounds(); b.Dx() != w || b.Dy() != h {
			s.back.Deallocate()
			s.back = nil
		}
	}
	if s.back == nil {
		s.back = ebiten.NewImage(w, h)
	}

	// BlendCopy：连 alpha 一起覆盖，不和上一帧混合
	op := &ebiten.DrawImageOptions{Blend: ebiten.BlendCopy}
	s.back.Clear()
	s.back.DrawImage(src, op)

	s.mu.Lock()
	s.front, s.back = s.back, s.front
	s.x, s.y = x, y
	s.mu.Unlock()
}

// composite 把前台缓冲按逐像素 alpha 画到屏幕上
func (s *surface) composite(screen *ebiten.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.front == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(s.x), float64(s.y))
	screen.DrawImage(s.front, op)
}

func (s *surface) release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, img := range []*ebiten.Image{s.front, s.back} {
		if img != nil {
			img.Deallocate()
		}
	}
	s.front, s.back = nil, nil
}
