package main

import (
	"context"
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/Garsondee/battle-report/internal/config"
	"github.com/Garsondee/battle-report/internal/logging"
	"github.com/Garsondee/battle-report/internal/scenario"
)

func main() {
	var cfgPath string
	var scenarioPath string

	flag.StringVar(&cfgPath, "config", "", "config file (YAML)")
	flag.StringVar(&scenarioPath, "scenario", "", "phase script (YAML); empty uses the built-in skirmish")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal(err)
	}
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	var s *scenario.Scenario
	if scenarioPath != "" {
		s, err = scenario.Load(scenarioPath)
	} else {
		s, err = scenario.Skirmish()
	}
	if err != nil {
		logger.Fatal("load scenario", zap.Error(err))
	}
	r, err := scenario.NewRenderer(s, cfg, logger, nil)
	if err != nil {
		logger.Fatal("build renderer", zap.Error(err))
	}
	views, err := r.RenderAll(context.Background(), s.Log, s.Recipients)
	if err != nil {
		logger.Fatal("render", zap.Error(err))
	}

	ebiten.SetWindowTitle("Battle Report - " + s.Log.Name())
	ebiten.SetWindowSize(panelWidth, panelHeight)
	if err := ebiten.RunGame(NewViewer(s.Log.Name(), views)); err != nil {
		logger.Fatal("viewer", zap.Error(err))
	}
}
