// Package cmd - shared loading helpers
package cmd

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"craft-cost/adapters/pricesheet"
	"craft-cost/adapters/table"
	"craft-cost/core/cost"
	"craft-cost/core/engine"
	"craft-cost/core/output"
	"craft-cost/core/types"
	"craft-cost/internal/config"
	"craft-cost/internal/errors"
	"craft-cost/internal/logging"
)

// session is one loaded computation pass plus the settings it was built with
type session struct {
	cfg    *config.Config
	engine *engine.Engine

	// sheetRate is the success rate declared by the price sheet, if any
	sheetRate *decimal.Decimal
}

// loadSession reads both tables, builds the engine and applies the
// configured price sheet.
func loadSession(ctx context.Context) (*session, error) {
	cfg := config.Get()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := logging.Named("ingest")

	delim, _ := firstRune(cfg.Input.Delimiter)
	tables, err := table.Load(ctx, cfg.Input.MaterialsPath, cfg.Input.RecipesPath, table.Options{
		Columns:   cfg.Input.Columns,
		Delimiter: delim,
		Logger:    log,
	})
	if err != nil {
		return nil, err
	}

	engCfg := engine.DefaultEngineConfig()
	engCfg.DefaultSource = cfg.Input.DefaultSource
	engCfg.DefaultSuccessRate = decimal.NewFromInt(int64(cfg.Calculation.SuccessRate))

	eng, err := engine.Build(tables.Materials, tables.Recipes,
		engine.WithLogger(logging.Named("engine")),
		engine.WithConfig(engCfg),
	)
	if err != nil {
		return nil, err
	}

	log.Info("tables loaded",
		zap.Int("materials", eng.Catalog().Len()),
		zap.Int("recipes", eng.Recipes().Len()),
		zap.Int("professions", len(eng.Professions())),
		zap.String("materials_encoding", tables.MaterialsEncoding),
		zap.String("recipes_encoding", tables.RecipesEncoding),
	)

	s := &session{cfg: cfg, engine: eng}
	if path := cfg.Input.PriceSheetPath; path != "" {
		sheet, err := pricesheet.Load(path)
		if err != nil {
			return nil, err
		}
		eng.ApplyPrices(sheet.Prices)
		s.sheetRate = sheet.SuccessRate
		log.Info("price sheet applied", zap.String("path", path), zap.Int("prices", len(sheet.Prices)))
	}
	return s, nil
}

// successRate picks the rate for a query: the flag when given, else the
// price sheet's, else the configured default. An unparsable flag falls
// back to the configured fallback rate. The result is clamped to [1, 100].
func (s *session) successRate(flag string, changed bool) decimal.Decimal {
	if changed {
		return parseSuccessRate(flag, s.cfg.Calculation.FallbackSuccessRate)
	}
	if s.sheetRate != nil {
		return cost.ClampSuccessRate(*s.sheetRate)
	}
	return cost.ClampSuccessRate(decimal.NewFromInt(int64(s.cfg.Calculation.SuccessRate)))
}

// outputOptions maps config to presentation settings
func (s *session) outputOptions() output.Options {
	return output.Options{
		Variant:       output.ParseVariant(s.cfg.Output.Variant),
		CurrencyLabel: s.cfg.Output.CurrencyLabel,
	}
}

// parseSuccessRate reads a user-entered percentage. Blank or unparsable
// input yields fallback.
func parseSuccessRate(raw string, fallback int) decimal.Decimal {
	raw = strings.TrimSuffix(strings.TrimSpace(raw), "%")
	rate, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		rate = decimal.NewFromInt(int64(fallback))
	}
	return cost.ClampSuccessRate(rate)
}

// parsePriceOverride splits "name=price"
func parsePriceOverride(raw string) (string, int64, error) {
	name, value, ok := strings.Cut(raw, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", 0, errors.Newf(errors.TypeInput, "price override %q must look like name=price", raw)
	}
	price, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return "", 0, errors.Wrapf(errors.TypeInput, err, "price override %q", raw)
	}
	n, ok := types.Whole(price)
	if !ok {
		return "", 0, errors.Newf(errors.TypeInput, "price override %q is out of range", raw)
	}
	return name, n, nil
}

func firstRune(s string) (rune, bool) {
	for _, r := range s {
		return r, true
	}
	return 0, false
}
