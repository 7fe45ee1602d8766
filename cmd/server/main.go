package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	httpadapter "colonyai/internal/adapter/http"
	"colonyai/internal/adapter/journal"
	metricsinmem "colonyai/internal/adapter/metrics/inmemory"
	gormrepo "colonyai/internal/adapter/repo/gorm"
	"colonyai/internal/adapter/repo/kv"
	"colonyai/internal/adapter/repo/memory"
	sqliterepo "colonyai/internal/adapter/repo/sqlite"
	"colonyai/internal/adapter/world/sim"
	"colonyai/internal/app/chainbuild"
	"colonyai/internal/app/memorymaint"
	"colonyai/internal/app/movement"
	"colonyai/internal/app/ports"
	"colonyai/internal/app/replay"
	"colonyai/internal/app/roomstate"
	"colonyai/internal/app/spawn"
	"colonyai/internal/app/status"
	"colonyai/internal/app/tick"
	"colonyai/internal/app/worker"
	"colonyai/internal/config"

	"github.com/cloudwego/hertz/pkg/app/server"
)

func main() {
	cfg, err := config.FromEnv(os.Getenv)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	backend, tx, closeStore, err := buildStore(context.Background(), cfg)
	if err != nil {
		log.Fatalf("open %s store: %v", cfg.Store, err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Printf("close store: %v", err)
		}
	}()

	a, err := buildApp(cfg, backend, tx, log.Default())
	if err != nil {
		log.Fatalf("build colony: %v", err)
	}
	defer func() {
		if err := a.close(); err != nil {
			log.Printf("close journal: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if !cfg.ManualStep {
		go a.loop.Run(ctx, cfg.TickInterval())
	}

	s := server.Default(server.WithHostPorts(cfg.HTTPAddr))
	a.handler.RegisterRoutes(s)
	log.Printf("colony server listening on %s (store=%s seed=%d regions=%v manual=%t)", cfg.HTTPAddr, cfg.Store, cfg.Sim.Seed, cfg.Sim.Regions, cfg.ManualStep)
	s.Spin()
}

// buildStore opens the persisted memory backend selected by cfg.Store.
func buildStore(ctx context.Context, cfg config.Config) (kv.Backend, ports.TxManager, func() error, error) {
	switch cfg.Store {
	case config.StorePostgres:
		db, err := gormrepo.OpenPostgres(cfg.DBDSN)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := gormrepo.ApplyMigrations(ctx, db); err != nil {
			return nil, nil, nil, fmt.Errorf("apply migrations: %w", err)
		}
		closer := func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		}
		return gormrepo.NewMemoryEntryRepo(db), gormrepo.NewTxManager(db), closer, nil
	case config.StoreSQLite:
		st, err := sqliterepo.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, nil, err
		}
		return st, st, st.Close, nil
	default:
		st := memory.NewStore()
		return st, memory.NewTxManager(st), func() error { return nil }, nil
	}
}

type colonyApp struct {
	loop    *tick.Loop
	handler httpadapter.Handler
	world   *sim.World
	journal *journal.Writer
}

func (a colonyApp) close() error {
	if a.journal == nil {
		return nil
	}
	return a.journal.Close()
}

func buildApp(cfg config.Config, backend kv.Backend, tx ports.TxManager, logger ports.Logger) (colonyApp, error) {
	nodeBody, err := cfg.NodeBody()
	if err != nil {
		return colonyApp{}, err
	}
	defaults, err := cfg.ColonyConfig()
	if err != nil {
		return colonyApp{}, err
	}

	store := kv.NewStore(backend)
	recorder := metricsinmem.NewRecorder()
	w := sim.New(sim.Config{Seed: cfg.Sim.Seed, Regions: cfg.Sim.Regions, Anchor: cfg.Anchor()})

	chains := chainbuild.UseCase{
		Store:     store,
		Metrics:   recorder,
		Logger:    logger,
		Stride:    cfg.Chain.Stride,
		Anchor:    cfg.Anchor(),
		BaseRange: cfg.Chain.BaseRange,
		PlainCost: cfg.Chain.PlainCost,
		SwampCost: cfg.Chain.SwampCost,
	}
	loop := &tick.Loop{
		World: w,
		Clock: w,
		Tx:    tx,
		Store: store,
		Maint: memorymaint.UseCase{Store: store, Logger: logger, Defaults: defaults},
		Rooms: roomstate.UseCase{
			Store:               store,
			Chains:              chains,
			Logger:              logger,
			DowngradeAlertTicks: cfg.Room.DowngradeAlertTicks,
			AlertPriority:       cfg.Room.AlertPriority,
			NormalPriority:      cfg.Room.NormalPriority,
		},
		Spawner: spawn.UseCase{
			World:        w,
			Store:        store,
			Metrics:      recorder,
			Logger:       logger,
			NodeBody:     nodeBody,
			MaxBodyScale: cfg.Spawn.MaxBodyScale,
			Defaults:     defaults,
		},
		Workers: worker.Runner{
			World:  w,
			Chains: store,
			Mover: movement.Mover{
				World:      w,
				ReuseTicks: cfg.Movement.PathReuseTicks,
				PlainCost:  cfg.Chain.PlainCost,
				SwampCost:  cfg.Chain.SwampCost,
			},
			Metrics: recorder,
			Logger:  logger,
		},
		Metrics: recorder,
		Logger:  logger,
	}

	a := colonyApp{loop: loop, world: w}
	var history replay.UseCase
	if cfg.JournalDir != "" {
		a.journal = journal.NewWriter(cfg.JournalDir)
		loop.Journal = a.journal
		history.History = a.journal
	}
	a.handler = httpadapter.Handler{
		StatusUC:  status.UseCase{Store: store, World: w, Ticks: loop},
		ReplayUC:  history,
		KPI:       recorder,
		Stepper:   loop,
		Documents: store,
	}
	return a, nil
}
