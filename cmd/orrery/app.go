package main

import (
	"github.com/oxygene76/orrery/pkg/astronomy/catalog"
	"github.com/oxygene76/orrery/pkg/orrery/clock"
	"github.com/oxygene76/orrery/pkg/orrery/control"
	"github.com/oxygene76/orrery/pkg/orrery/simulation"
	"github.com/oxygene76/orrery/pkg/utils"
)

// loadCatalog returns the configured catalog or the built-in solar system
func loadCatalog(cfg *utils.Config) (*catalog.Catalog, error) {
	if cfg.CatalogPath == "" {
		return catalog.Default(), nil
	}
	return catalog.LoadFile(cfg.CatalogPath)
}

// newSimulation builds a simulation from cfg. Extra options are applied
// after the configured ones.
func newSimulation(cfg *utils.Config, extra ...simulation.Option) (*simulation.Simulation, error) {
	cat, err := loadCatalog(cfg)
	if err != nil {
		return nil, err
	}

	opts := []simulation.Option{
		simulation.WithTimeProvider(clock.NewMonotonicTimeProvider(), cfg.Runner.MaxStep),
		simulation.WithStartupTimings(simulation.StartupTimings{
			Welcome: cfg.Startup.WelcomeDelay,
			Author:  cfg.Startup.AuthorDelay,
			Reveal:  cfg.Startup.RevealDuration,
		}),
		simulation.WithInitialState(control.State{
			Speed:  cfg.Control.InitialSpeed,
			Scale:  cfg.Control.InitialScale,
			Skybox: cfg.Control.Skybox,
			Phase:  control.PhaseLoading,
		}),
	}
	opts = append(opts, extra...)

	sim := simulation.New(cat, cfg.Kinematics.Params(), cfg.Control.Limits(), opts...)
	if cfg.Startup.Skip {
		sim.SkipStartup()
	} else {
		// the catalog is static, so there is nothing left to load
		sim.MarkReady()
	}
	return sim, nil
}
