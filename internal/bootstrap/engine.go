package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/applypilot/applypilot/config"
	"github.com/applypilot/applypilot/internal/applier"
	"github.com/applypilot/applypilot/internal/core"
	"github.com/applypilot/applypilot/internal/dryrun"
	"github.com/applypilot/applypilot/internal/pacing"
	"github.com/applypilot/applypilot/internal/runner"
	"github.com/applypilot/applypilot/internal/store"
)

// Engine bundles the wired control loop and its operator channel.
type Engine struct {
	Runner   *runner.Runner
	Operator *runner.Operator
	Store    *store.Store
	Governor *pacing.Governor
}

// collaborators is one driver's set of portal-facing implementations.
type collaborators struct {
	listing core.ListingProvider
	form    core.ApplicationForm
	oracle  core.Oracle
	docs    core.DocumentGenerator
}

// BuildEngine wires the store, pacing governor, applier, and runner for the
// configured driver.
func BuildEngine(cfg config.AppConfig, logger *slog.Logger) (*Engine, error) {
	collab, err := buildDriver(cfg, logger)
	if err != nil {
		return nil, err
	}

	st, err := store.New(store.Options{Config: cfg.Storage, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("open record store: %w", err)
	}

	governor := pacing.New(pacing.Options{Config: cfg.Pacing, Logger: logger})
	operator := runner.NewOperator(logger)

	jobApplier := applier.New(applier.Options{
		Page:      collab.listing,
		Form:      collab.form,
		Oracle:    collab.oracle,
		Documents: collab.docs,
		Store:     st,
		ResumeDir: cfg.ResumeDir,
		Manual:    cfg.Mode == config.ModeManual,
		Confirm:   operator.Confirm(),
		Logger:    logger,
	})

	run, err := runner.New(runner.Options{
		Config:   cfg,
		Listing:  collab.listing,
		Applier:  jobApplier,
		Store:    st,
		Governor: governor,
		Operator: operator,
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}

	return &Engine{Runner: run, Operator: operator, Store: st, Governor: governor}, nil
}

func buildDriver(cfg config.AppConfig, logger *slog.Logger) (collaborators, error) {
	switch cfg.Driver {
	case "dryrun":
		portal := dryrun.NewPortal(logger)
		return collaborators{
			listing: portal,
			form:    portal.Form(),
			oracle:  dryrun.NewOracle(),
			docs:    dryrun.NewDocs(),
		}, nil
	default:
		return collaborators{}, fmt.Errorf("unknown driver %q", cfg.Driver)
	}
}
