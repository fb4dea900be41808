package ascii

import (
	"image"
	"image/color"
	"strings"
)

// ASCII 字符集 (从黑到白)，最后一个是空格
const asciiChars = "@%#*+=-:. "

// 低于这个 alpha 的像素当作透明，画成空格
const alphaCutoff = 128

// Convert 将一帧转换为 ASCII 字符串切片
// targetWidth: 生成的宽度（字符数），<= 0 时按原图宽度
func Convert(img image.Image, targetWidth int) []string {
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil
	}

	// 1. 计算缩放步长
	stepX := 1
	if targetWidth > 0 {
		stepX = bounds.Dx() / targetWidth
	}
	if stepX < 1 {
		stepX = 1
	}

	// 终端字符的高通常是宽的 2 倍，所以 Y 轴采样步长要翻倍
	stepY := stepX * 2

	var result []string

	// 2. 遍历像素 (采样)
	for y := bounds.Min.Y; y < bounds.Max.Y; y += stepY {
		var line strings.Builder
		for x := bounds.Min.X; x < bounds.Max.X; x += stepX {
			line.WriteByte(pixelToASCII(img.At(x, y)))
		}
		// 行尾的透明部分没用
		result = append(result, strings.TrimRight(line.String(), " "))
	}

	return result
}

func pixelToASCII(c color.Color) byte {
	r, g, b, a := c.RGBA()
	if a>>8 < alphaCutoff {
		return ' '
	}
	// RGBA 返回的是预乘过 alpha 的值，先还原
	r, g, b = r*0xffff/a, g*0xffff/a, b*0xffff/a

	// Go 的 RGBA 返回 16bit (0-65535)，右移 8 位变成 0-255
	gray := 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)

	// 映射到字符集索引，空格留给透明像素
	idx := int(gray / 255 * float64(len(asciiChars)-2))
	if idx > len(asciiChars)-2 {
		idx = len(asciiChars) - 2
	}

	return asciiChars[idx]
}
