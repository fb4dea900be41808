package main

import (
	"context"
	"flag"
	"log"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"deskpets/config"
	"deskpets/internal/catalog"
	"deskpets/internal/frames"
	"deskpets/internal/game"
	"deskpets/internal/monitor"
	"deskpets/internal/overlay"
	"deskpets/internal/roster"
)

func main() {
	configPath := flag.String("config", "config.json", "配置文件路径")
	preview := flag.String("preview", "", "以 ASCII 打印某个动画后退出，格式 species/color/state")
	width := flag.Int("width", 60, "-preview 输出的宽度 (字符数)")
	flag.Parse()

	// 1. 配置和动画目录
	cfg, err := config.Ensure(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Fatal(err)
	}
	assets := os.DirFS(cat.Root())

	if *preview != "" {
		if err := runPreview(os.Stdout, cat, assets, *preview, *width); err != nil {
			log.Fatal(err)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. 系统监控 (后台线程开始定时采集数据)
	var mon *monitor.Monitor
	if cfg.ShowMonitor {
		mon = monitor.New(monitor.DefaultInterval)
		mon.Start(ctx)
	}

	// 3. 窗口、帧管线、管理器
	desk := overlay.New(cfg, mon)
	mgr := game.NewManager(game.Options{
		Catalog:    cat,
		Pipeline:   frames.NewPipeline(assets, desk, cfg.CacheMirrored),
		Host:       desk,
		Compositor: desk,
		Load: func() ([]roster.Request, error) {
			return roster.Load(cfg.RosterPath)
		},
		Poll: cfg.Poll(),
		Rand: rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), uint64(os.Getpid()))),
	})

	// 窗口跑起来之后才能查光标和显示器
	go func() {
		select {
		case <-ctx.Done():
			return
		case <-desk.Ready():
		}
		if err := mgr.Start(); err != nil {
			log.Printf("main: load roster: %v", err)
		}
		if cfg.WatchRoster {
			watchRoster(ctx, cfg.RosterPath, mgr)
		}
	}()

	go func() {
		<-ctx.Done()
		desk.Close()
	}()

	// 4. 启动 (阻塞到窗口关闭)
	if err := desk.Run(); err != nil {
		log.Print(err)
	}
	stop()
	mgr.Stop()
}

// watchRoster 名单文件改了就整体刷新
func watchRoster(ctx context.Context, filename string, mgr *game.Manager) {
	w, err := roster.NewWatcher(filename)
	if err != nil {
		log.Printf("main: watch roster: %v", err)
		return
	}
	defer w.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-w.Events:
			if !ok {
				return
			}
			log.Printf("main: %s changed, refreshing", filename)
			if err := mgr.Refresh(); err != nil {
				log.Printf("main: refresh: %v", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Printf("main: watch roster: %v", err)
		}
	}
}
