package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config 结构体：对应 config.json 的内容
type Config struct {
	RosterPath    string `json:"roster_path"`    // 宠物列表 (pets_list.json)
	CatalogPath   string `json:"catalog_path"`   // 动画目录 (pets_data.json)，图片路径相对它所在的目录
	PollMS        int    `json:"poll_ms"`        // 调度循环轮询间隔 (毫秒)
	CacheMirrored bool   `json:"cache_mirrored"` // 是否缓存镜像帧 (省 CPU，多占一倍显存)
	WatchRoster   bool   `json:"watch_roster"`   // 宠物列表改动后自动刷新
	ShowMonitor   bool   `json:"show_monitor"`   // 是否开启监控文字

	// 拿不到显示器信息时使用
	ScreenWidth  int `json:"screen_width"`
	ScreenHeight int `json:"screen_height"`

	// 非 Windows 平台用这里的任务栏设置
	TaskbarHeight   int  `json:"taskbar_height"`
	TaskbarEdge     int  `json:"taskbar_edge"` // 0 左 1 上 2 右 3 下
	TaskbarAutoHide bool `json:"taskbar_autohide"`
}

// NewDefault 生成一份默认配置
// 当找不到配置文件，或者读取失败时，用这个“保底”
func NewDefault() *Config {
	return &Config{
		RosterPath:    "pets_list.json",
		CatalogPath:   "assets/pets_data.json",
		PollMS:        10,
		CacheMirrored: true,
		WatchRoster:   true,
		ShowMonitor:   false,
		ScreenWidth:   1920,
		ScreenHeight:  1080,
		TaskbarHeight: 40,
		TaskbarEdge:   3,
	}
}

// Poll 轮询间隔，配置不合法时用 10ms
func (c *Config) Poll() time.Duration {
	if c.PollMS <= 0 {
		return 10 * time.Millisecond
	}
	return time.Duration(c.PollMS) * time.Millisecond
}

// Load 从硬盘读取配置
func Load(filename string) (*Config, error) {
	// 1. 尝试打开文件
	file, err := os.Open(filename)
	if err != nil {
		// 如果文件不存在，直接返回默认配置，不算报错
		if os.IsNotExist(err) {
			return NewDefault(), nil
		}
		return nil, err
	}
	defer file.Close()

	// 2. 解析 JSON，文件里没写的字段保持默认值
	cfg := NewDefault()
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(cfg); err != nil {
		// 如果 JSON 格式坏了，也返回默认配置
		return NewDefault(), nil
	}

	return cfg, nil
}

// Save 把当前配置写入硬盘
// 先写同目录下的临时文件再改名，写到一半出错不会留下坏掉的配置
func Save(cfg *Config, filename string) error {
	// 1. 目录不存在就建出来
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("config: save %s: %w", filename, err)
	}

	// 2. 写入 JSON (SetIndent 让生成的 JSON 带缩进，方便人类阅读)
	tmp, err := os.CreateTemp(dir, filepath.Base(filename)+".*")
	if err != nil {
		return fmt.Errorf("config: save %s: %w", filename, err)
	}
	defer os.Remove(tmp.Name())

	encoder := json.NewEncoder(tmp)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(cfg); err != nil {
		tmp.Close()
		return fmt.Errorf("config: save %s: %w", filename, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("config: save %s: %w", filename, err)
	}

	// 3. 替换旧文件
	return os.Rename(tmp.Name(), filename)
}

// Ensure 读取配置；文件不存在时把默认配置写出去，方便用户照着改
func Ensure(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		cfg := NewDefault()
		if err := Save(cfg, filename); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return Load(filename)
}
