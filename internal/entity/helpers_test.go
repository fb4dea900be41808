package entity

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"testing"
	"testing/fstest"

	"deskpets/internal/catalog"
	"deskpets/internal/frames"
	"deskpets/internal/roster"
)

type fakeDrawable struct {
	released int
}

func (d *fakeDrawable) Release() { d.released++ }

type fakeDevice struct {
	created []*fakeDrawable
	fail    bool
}

func (dev *fakeDevice) NewDrawable(img image.Image) (frames.Drawable, error) {
	if dev.fail {
		return nil, errors.New("no more handles")
	}
	d := &fakeDrawable{}
	dev.created = append(dev.created, d)
	return d, nil
}

func (dev *fakeDevice) live() int {
	n := 0
	for _, d := range dev.created {
		if d.released == 0 {
			n++
		}
	}
	return n
}

type fakeHost struct {
	w, h    int
	mx, my  int
	taskbar Taskbar
}

func (h *fakeHost) CursorPosition() (int, int) { return h.mx, h.my }
func (h *fakeHost) ScreenSize() (int, int) { return h.w, h.h }
func (h *fakeHost) Taskbar() Taskbar { return h.taskbar }

// scriptedRand 按队列返回，队列用完后 Float64 返回 0.99 (不触发任何随机事件)，IntN 返回 0
type scriptedRand struct {
	floats []float64
	ints   []int
}

func (r *scriptedRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0.99
	}
	f := r.floats[0]
	r.floats = r.floats[1:]
	return f
}

func (r *scriptedRand) IntN(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	i := r.ints[0]
	r.ints = r.ints[1:]
	return i % n
}

func gifData(t *testing.T, w, h, n int) []byte {
	t.Helper()
	pal := color.Palette{color.Transparent, color.RGBA{200, 120, 40, 255}}
	g := &gif.GIF{Config: image.Config{ColorModel: pal, Width: w, Height: h}}
	for i := 0; i < n; i++ {
		img := image.NewPaletted(image.Rect(0, 0, w, h), pal)
		img.Pix[i%len(img.Pix)] = 1
		g.Image = append(g.Image, img)
		g.Delay = append(g.Delay, 10)
	}
	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, g); err != nil {
		t.Fatalf("encode gif: %v", err)
	}
	return buf.Bytes()
}

// assets 给每个状态名生成一个 64x32、两帧的 gif
func assets(t *testing.T, states ...string) fstest.MapFS {
	t.Helper()
	fsys := fstest.MapFS{}
	for _, s := range states {
		fsys[s+".gif"] = &fstest.MapFile{Data: gifData(t, 64, 32, 2)}
	}
	return fsys
}

type fixture struct {
	cat  *catalog.Catalog
	dev  *fakeDevice
	host *fakeHost
	rng  *scriptedRand
	pipe *frames.Pipeline
}

func newFixture(t *testing.T, doc string, states ...string) *fixture {
	t.Helper()
	cat, err := catalog.Decode([]byte(doc), ".json", "")
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	f := &fixture{
		cat:  cat,
		dev:  &fakeDevice{},
		host: &fakeHost{w: 1000, h: 800, mx: -5000, my: -5000, taskbar: Taskbar{Height: 40, Edge: EdgeBottom}},
		rng:  &scriptedRand{},
	}
	f.pipe = frames.NewPipeline(assets(t, states...), f.dev, false)
	return f
}

func (f *fixture) pet(t *testing.T, species, color string) *Pet {
	t.Helper()
	p, err := New(1, roster.Request{Species: species, Color: color, FPS: 8, Size: "small"}, f.cat, f.pipe, f.host, f.rng)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

const catJSON = `{
  "cat": {
    "defaults": {
      "walk": {"hold": 1000, "movement_speed": 50},
      "sleep": {"speed_animation": 0},
      "idle": {"hold": 2, "speed_animation": 2},
      "lie": {"speed_animation": 1}
    },
    "states": {
      "walker": {"walk": "walk.gif"},
      "sleeper": {"sleep": "sleep.gif"},
      "idler": {"idle": "idle.gif", "with_ball": "with_ball.gif"},
      "shy": {"idle": "idle.gif", "lie": "lie.gif"},
      "broken": {"idle": "missing.gif"},
      "ballonly": {"with_ball": "with_ball.gif"}
    }
  }
}`

const squirrelJSON = `{
  "squirrel": {
    "wall_scene": true,
    "defaults": {
      "walk": {"hold": 2, "movement_speed": 10},
      "wallclimb": {"movement_speed": 20},
      "walldig": {"hold": 3},
      "wallnap": {"hold": 3},
      "wallgrab": {"hold": 3, "movement_speed": 5},
      "fall_from_grab": {"movement_speed": 20}
    },
    "states": {
      "brown": {
        "walk": "walk.gif",
        "with_ball": "with_ball.gif",
        "wallclimb": "wallclimb.gif",
        "walldig": "walldig.gif",
        "wallnap": "wallnap.gif",
        "wallgrab": "wallgrab.gif",
        "fall_from_grab": "fall_from_grab.gif"
      },
      "nodig": {
        "walk": "walk.gif",
        "wallclimb": "wallclimb.gif",
        "wallnap": "wallnap.gif",
        "wallgrab": "wallgrab.gif",
        "fall_from_grab": "fall_from_grab.gif"
      }
    }
  }
}`

var allStates = []string{"walk", "sleep", "idle", "lie", "with_ball", "wallclimb", "walldig", "wallnap", "wallgrab", "fall_from_grab"}
