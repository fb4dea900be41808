package roster

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultFPS  = 8
	DefaultSize = "small"
)

// Entry 名单文件里的一项：一个物种 + 若干颜色
type Entry struct {
	Species string   `json:"species" yaml:"species"`
	Enabled *bool    `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	FPS     int      `json:"fps,omitempty" yaml:"fps,omitempty"`
	Size    string   `json:"size,omitempty" yaml:"size,omitempty"`
	Colors  []string `json:"colors" yaml:"colors"`
}

type document struct {
	Pets []Entry `json:"pets" yaml:"pets"`
}

// Request 构造一只宠物需要的参数
type Request struct {
	Species string
	Color   string
	FPS     int
	Size    string
}

// Load 读取名单文件，每个启用的 (物种, 颜色) 生成一个 Request
func Load(filename string) ([]Request, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("roster: load %s: %w", filename, err)
	}
	return Decode(data, filepath.Ext(filename))
}

// Decode 解析名单内容，ext 决定格式
func Decode(data []byte, ext string) ([]Request, error) {
	var doc document
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("roster: unmarshal yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("roster: unmarshal json: %w", err)
		}
	}

	var reqs []Request
	for _, e := range doc.Pets {
		if e.Enabled != nil && !*e.Enabled {
			continue
		}
		fps := e.FPS
		if fps <= 0 {
			fps = DefaultFPS
		}
		size := e.Size
		if size == "" {
			size = DefaultSize
		}
		for _, color := range e.Colors {
			reqs = append(reqs, Request{Species: e.Species, Color: color, FPS: fps, Size: size})
		}
	}
	return reqs, nil
}
