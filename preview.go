package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"deskpets/internal/ascii"
	"deskpets/internal/catalog"
	"deskpets/internal/frames"
	"deskpets/internal/roster"
)

// runPreview 按原始大小解码一个动画，逐帧打印成 ASCII
func runPreview(out io.Writer, cat *catalog.Catalog, assets fs.FS, target string, width int) error {
	parts := strings.Split(target, "/")
	if len(parts) != 3 {
		return fmt.Errorf("preview: want species/color/state, got %q", target)
	}
	species, color, state := parts[0], parts[1], parts[2]

	palette, err := cat.Palette(species, color, roster.DefaultFPS)
	if errors.Is(err, catalog.ErrUnknownSpecies) {
		return fmt.Errorf("%w (have: %s)", err, strings.Join(cat.Species(), ", "))
	}
	if err != nil {
		return err
	}
	entry, err := palette.Lookup(state)
	if err != nil {
		return fmt.Errorf("%w (have: %s)", err, strings.Join(palette.Names(), ", "))
	}
	size, err := frames.ParseSize("original")
	if err != nil {
		return err
	}

	// 只解码不上传，不需要 Device
	imgs, err := frames.NewPipeline(assets, nil, false).Load(entry.Source, size)
	if err != nil {
		return err
	}
	for i, img := range imgs {
		fmt.Fprintf(out, "-- %s frame %d/%d (%dx%d)\n", target, i+1, len(imgs), img.Bounds().Dx(), img.Bounds().Dy())
		for _, line := range ascii.Convert(img, width) {
			fmt.Fprintln(out, line)
		}
	}
	return nil
}
