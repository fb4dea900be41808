package monitor

import (
	"context"
	"math"
	"os"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// DefaultInterval 采样间隔，太频繁会占资源
const DefaultInterval = 2 * time.Second

// Stats 一次采样的结果
type Stats struct {
	CPU float64 // 全部核的平均占用 (%)
	Mem float64 // 系统内存占用 (%)
	RSS uint64  // 本进程常驻内存 (字节)
}

// Monitor 后台采集系统占用，给 HUD 显示用
type Monitor struct {
	interval time.Duration
	proc     *process.Process // 拿不到本进程时为 nil

	mu    sync.Mutex
	stats Stats
}

// New 创建监控器，interval <= 0 时用默认值
func New(interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	m := &Monitor{interval: interval}
	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		m.proc = p
	}
	return m
}

// Start 启动监控协程，ctx 取消后退出
func (m *Monitor) Start(ctx context.Context) {
	go func() {
		t := time.NewTicker(m.interval)
		defer t.Stop()
		for {
			m.sample()
			select {
			case <-ctx.Done():
				return
			case <-t.C:
			}
		}
	}()
}

// Stats 最近一次采样
func (m *Monitor) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

// sample 真正去干活获取数据的函数，某一项失败就保留上一次的值
func (m *Monitor) sample() {
	m.mu.Lock()
	s := m.stats
	m.mu.Unlock()

	// 1. 获取内存
	if v, err := mem.VirtualMemory(); err == nil {
		s.Mem = v.UsedPercent
	}

	// 2. 获取 CPU
	// 间隔传 0 时用的是和上次调用之间的差值，第一次可能拿到 0
	if c, err := cpu.Percent(0, false); err == nil && len(c) > 0 {
		s.CPU = c[0]
	}

	// 3. 本进程内存
	if m.proc != nil {
		if info, err := m.proc.MemoryInfo(); err == nil {
			s.RSS = info.RSS
		}
	}

	// 保留 1 位小数，看着干净
	s.CPU = round1(s.CPU)
	s.Mem = round1(s.Mem)

	m.mu.Lock()
	m.stats = s
	m.mu.Unlock()
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
