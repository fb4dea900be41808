package frames

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownSize = errors.New("frames: unknown size class")

// Size 显示尺寸档位。height 为 0 表示 "original"：保持素材原高度
type Size struct {
	name   string
	height int
}

// 档位 → 目标像素高度
var sizes = map[string]int{
	"very small": 20,
	"small":      40,
	"original":   0,
	"medium":     125,
	"big":        150,
	"really big": 200,
}

// ParseSize 解析档位名，不区分大小写
func ParseSize(name string) (Size, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	h, ok := sizes[key]
	if !ok {
		return Size{}, fmt.Errorf("%w: %q", ErrUnknownSize, name)
	}
	return Size{name: key, height: h}, nil
}

func (s Size) String() string { return s.name }

// Scale 给定素材宽高，算出缩放后的宽高 (宽度按比例，向下取整，至少 1)
func (s Size) Scale(w, h int) (int, int) {
	nh := s.height
	if nh == 0 {
		nh = h
	}
	nw := w * nh / h
	if nw < 1 {
		nw = 1
	}
	return nw, nh
}
