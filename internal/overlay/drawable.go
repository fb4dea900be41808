package overlay

import (
	"errors"
	"image"
	"sync"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"

	"deskpets/internal/frames"
)

var ErrEmptyFrame = errors.New("overlay: empty frame")

// drawable 一帧对应的 GPU 纹理
type drawable struct {
	img  *ebiten.Image
	live *atomic.Int64
	once sync.Once
}

// Release 释放纹理，重复调用无效果
func (dr *drawable) Release() {
	dr.once.Do(func() {
		dr.img.Deallocate()
		dr.live.Add(-1)
	})
}

// NewDrawable 实现 frames.Device
func (d *Desktop) NewDrawable(img image.Image) (frames.Drawable, error) {
	if img.Bounds().Empty() {
		return nil, ErrEmptyFrame
	}
	d.live.Add(1)
	return &drawable{img: ebiten.NewImageFromImage(img), live: &d.live}, nil
}
