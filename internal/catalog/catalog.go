package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownSpecies = errors.New("catalog: unknown species")
	ErrUnknownColor   = errors.New("catalog: unknown color")
	ErrMissingState   = errors.New("catalog: missing state")
)

// Timing 每个状态的默认节奏，字段为空时由 Palette 补默认值
type Timing struct {
	Hold           *int     `json:"hold,omitempty" yaml:"hold,omitempty"`
	MovementSpeed  *int     `json:"movement_speed,omitempty" yaml:"movement_speed,omitempty"`
	SpeedAnimation *float64 `json:"speed_animation,omitempty" yaml:"speed_animation,omitempty"`
}

// species 对应文档里一个物种的内容
type species struct {
	WallScene bool                         `json:"wall_scene" yaml:"wall_scene"`
	Defaults  map[string]Timing            `json:"defaults" yaml:"defaults"`
	States    map[string]map[string]string `json:"states" yaml:"states"`
}

// Entry 某个状态解析后的结果：动画路径 + 节奏
type Entry struct {
	Source         string
	Hold           int
	MovementSpeed  int
	SpeedAnimation float64
}

// Palette 某个 (物种, 颜色) 下所有可用状态
type Palette map[string]Entry

// Lookup 取一个状态，找不到返回 ErrMissingState
func (p Palette) Lookup(name string) (Entry, error) {
	e, ok := p[name]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrMissingState, name)
	}
	return e, nil
}

// Names 按字母序返回状态名 (map 遍历顺序不稳定，随机选择要基于固定顺序)
func (p Palette) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Catalog 进程启动时加载一次，之后只读
type Catalog struct {
	root    string
	species map[string]species
}

// Load 从硬盘读取资源目录文件 (.json / .yaml / .yml)
// 动画路径相对于该文件所在目录
func Load(filename string) (*Catalog, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("catalog: load %s: %w", filename, err)
	}
	return Decode(data, filepath.Ext(filename), filepath.Dir(filename))
}

// Decode 解析文档内容，ext 决定用 JSON 还是 YAML
func Decode(data []byte, ext, root string) (*Catalog, error) {
	doc := map[string]species{}
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("catalog: unmarshal yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("catalog: unmarshal json: %w", err)
		}
	}
	return &Catalog{root: root, species: doc}, nil
}

// Root 动画资源根目录
func (c *Catalog) Root() string { return c.root }

// Species 所有物种名，已排序
func (c *Catalog) Species() []string {
	names := make([]string, 0, len(c.species))
	for name := range c.species {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WallScene 该物种是否带爬墙剧情
func (c *Catalog) WallScene(name string) bool {
	return c.species[name].WallScene
}

// Palette 生成某个 (物种, 颜色) 的状态表
// fps 是 hold 的默认值：没配置 hold 的状态默认持续一秒的帧数
// 每次调用返回新的 map，调用方随便改也不会影响 Catalog
func (c *Catalog) Palette(name, color string, fps int) (Palette, error) {
	sp, ok := c.species[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSpecies, name)
	}
	states, ok := sp.States[color]
	if !ok {
		return nil, fmt.Errorf("%w: %q for %q", ErrUnknownColor, color, name)
	}
	if len(states) == 0 {
		return nil, fmt.Errorf("%w: %s/%s has no states", ErrMissingState, name, color)
	}

	p := make(Palette, len(states))
	for state, source := range states {
		e := Entry{Source: source, Hold: fps, SpeedAnimation: 1.0}
		if t, ok := sp.Defaults[state]; ok {
			if t.Hold != nil {
				e.Hold = *t.Hold
			}
			if t.MovementSpeed != nil {
				e.MovementSpeed = *t.MovementSpeed
			}
			if t.SpeedAnimation != nil {
				e.SpeedAnimation = *t.SpeedAnimation
			}
		}
		p[state] = e
	}
	return p, nil
}
