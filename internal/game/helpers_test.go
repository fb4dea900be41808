package game

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"math/rand/v2"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"deskpets/internal/catalog"
	"deskpets/internal/entity"
	"deskpets/internal/frames"
	"deskpets/internal/roster"
)

type fakeDrawable struct {
	gen      int
	released int
}

func (d *fakeDrawable) Release() { d.released++ }

type fakeDevice struct {
	mu      sync.Mutex
	gen     int
	created []*fakeDrawable
}

func (dev *fakeDevice) NewDrawable(img image.Image) (frames.Drawable, error) {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	d := &fakeDrawable{gen: dev.gen}
	dev.created = append(dev.created, d)
	return d, nil
}

func (dev *fakeDevice) setGen(g int) {
	dev.mu.Lock()
	dev.gen = g
	dev.mu.Unlock()
}

func (dev *fakeDevice) all() []*fakeDrawable {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	return append([]*fakeDrawable(nil), dev.created...)
}

type fakeHost struct{}

func (fakeHost) CursorPosition() (int, int) { return -5000, -5000 }
func (fakeHost) ScreenSize() (int, int) { return 1000, 800 }
func (fakeHost) Taskbar() entity.Taskbar { return entity.Taskbar{AutoHide: true} }

// fakeCompositor 记录每只宠物画了几次、销毁了几次
// 画的时候如果拿到已释放的资源或已关闭的宠物，记为 violation
type fakeCompositor struct {
	mu         sync.Mutex
	draws      map[int]int
	destroys   map[int]int
	fail       map[int]bool
	violations int
}

func newFakeCompositor() *fakeCompositor {
	return &fakeCompositor{draws: map[int]int{}, destroys: map[int]int{}, fail: map[int]bool{}}
}

func (c *fakeCompositor) Present(p *entity.Pet, d frames.Drawable) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if d.(*fakeDrawable).released > 0 || p.Closed() || c.destroys[p.ID()] > 0 {
		c.violations++
	}
	if c.fail[p.ID()] {
		return errors.New("surface lost")
	}
	c.draws[p.ID()]++
	return nil
}

func (c *fakeCompositor) Destroy(p *entity.Pet) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.destroys[p.ID()]++
}

func (c *fakeCompositor) totalDraws() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, v := range c.draws {
		n += v
	}
	return n
}

func (c *fakeCompositor) waitDraws(t *testing.T, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for c.totalDraws() < n {
		if time.Now().After(deadline) {
			t.Fatalf("only %d draws within 2s, want %d", c.totalDraws(), n)
		}
		time.Sleep(time.Millisecond)
	}
}

const catJSON = `{"cat": {
  "defaults": {"idle": {"hold": 100000}},
  "states": {"black": {"idle": "idle.gif"}, "white": {"idle": "idle.gif"}, "ginger": {"idle": "idle.gif"}}
}}`

func idleGIF(t *testing.T) []byte {
	t.Helper()
	pal := color.Palette{color.Transparent, color.White}
	g := &gif.GIF{Config: image.Config{ColorModel: pal, Width: 64, Height: 32}}
	for i := 0; i < 2; i++ {
		img := image.NewPaletted(image.Rect(0, 0, 64, 32), pal)
		img.Pix[i] = 1
		g.Image = append(g.Image, img)
		g.Delay = append(g.Delay, 10)
	}
	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, g); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

type fixture struct {
	cat  *catalog.Catalog
	dev  *fakeDevice
	comp *fakeCompositor
	pipe *frames.Pipeline
	rng  *rand.Rand
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cat, err := catalog.Decode([]byte(catJSON), ".json", "")
	if err != nil {
		t.Fatal(err)
	}
	dev := &fakeDevice{gen: 1}
	return &fixture{
		cat:  cat,
		dev:  dev,
		comp: newFakeCompositor(),
		pipe: frames.NewPipeline(fstest.MapFS{"idle.gif": {Data: idleGIF(t)}}, dev, false),
		rng:  rand.New(rand.NewPCG(1, 2)),
	}
}

func (f *fixture) pet(t *testing.T, id, fps int) *entity.Pet {
	t.Helper()
	p, err := entity.New(id, roster.Request{Species: "cat", Color: "black", FPS: fps, Size: "small"}, f.cat, f.pipe, fakeHost{}, f.rng)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func (f *fixture) manager(load Loader) *Manager {
	return NewManager(Options{
		Catalog:    f.cat,
		Pipeline:   f.pipe,
		Host:       fakeHost{},
		Compositor: f.comp,
		Load:       load,
		Poll:       time.Millisecond,
		Rand:       f.rng,
	})
}

func requests(colors ...string) []roster.Request {
	var reqs []roster.Request
	for _, c := range colors {
		reqs = append(reqs, roster.Request{Species: "cat", Color: c, FPS: 100, Size: "small"})
	}
	return reqs
}
