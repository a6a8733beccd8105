// Package engine provides the API-primary cost engine.
// CLI is a thin wrapper around this engine.
package engine

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"craft-cost/core/catalog"
	"craft-cost/core/cost"
	"craft-cost/core/determinism"
	"craft-cost/core/graph"
	"craft-cost/core/recipe"
	"craft-cost/core/types"
	"craft-cost/internal/errors"
	"craft-cost/internal/logging"
)

// Engine owns one computation pass: the catalog, the recipe arena and the
// emission order. Prices may change between queries; every query reads
// them afresh.
type Engine struct {
	catalog *catalog.Catalog
	recipes *recipe.Set
	order   graph.Ordering
	agg     *cost.Aggregator
	report  recipe.BuildReport

	logger *zap.Logger
	config EngineConfig
}

// EngineConfig configures the engine
type EngineConfig struct {
	// DefaultSource replaces a blank material source
	DefaultSource string

	// DefaultSuccessRate is used by callers that have no explicit rate
	DefaultSuccessRate decimal.Decimal
}

// DefaultEngineConfig returns the defaults used when no config is given
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		DefaultSource:      "未知",
		DefaultSuccessRate: decimal.NewFromInt(100),
	}
}

// Option customises an engine
type Option func(*Engine)

// WithLogger sets the logger; the default discards everything
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithConfig replaces the engine configuration
func WithConfig(cfg EngineConfig) Option {
	return func(e *Engine) {
		e.config = cfg
	}
}

func newEngine(opts []Option) *Engine {
	e := &Engine{
		logger: zap.NewNop(),
		config: DefaultEngineConfig(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Build creates an engine from raw table rows
func Build(materials []types.MaterialRow, recipes []types.RecipeRow, opts ...Option) (*Engine, error) {
	e := newEngine(opts)

	cat := catalog.FromRows(materials, e.config.DefaultSource)
	if cat.Len() == 0 {
		return nil, errors.EmptyTable("materials")
	}
	set, report := recipe.Build(recipes, cat)
	if set.Len() == 0 {
		return nil, errors.EmptyTable("recipes")
	}

	e.init(cat, set, report)
	return e, nil
}

// New creates an engine over an already built catalog and recipe set
func New(cat *catalog.Catalog, set *recipe.Set, opts ...Option) *Engine {
	e := newEngine(opts)
	e.init(cat, set, recipe.BuildReport{})
	return e
}

func (e *Engine) init(cat *catalog.Catalog, set *recipe.Set, report recipe.BuildReport) {
	e.catalog = cat
	e.recipes = set
	e.report = report
	e.agg = cost.NewAggregator(cat, set)
	e.order = graph.OrderRecipes(set)

	e.logger.Debug("engine built",
		zap.Int("materials", cat.Len()),
		zap.Int("recipes", set.Len()),
		zap.Int("skipped_rows", report.SkippedRows),
		zap.Int("skipped_lines", report.SkippedLines),
	)
	for _, name := range report.DuplicateNames {
		e.logger.Warn("duplicate recipe name, last row wins", zap.String("recipe", name))
	}
	for _, name := range report.UnknownMaterials {
		e.logger.Warn("material not in catalog, treated as zero cost", zap.String("material", name))
	}
	if len(e.order.Cyclic) > 0 {
		e.logger.Warn("recipes caught in component cycles",
			zap.Strings("recipes", e.order.Cyclic))
	}
}

// Estimate is the answer to one cost query
type Estimate struct {
	Product *recipe.Recipe `json:"product"`
	*cost.Result

	EstimatedAt time.Time     `json:"estimated_at"`
	Duration    time.Duration `json:"duration"`
}

// Resolve finds a recipe by id or exact name. Surrounding whitespace is
// ignored.
func (e *Engine) Resolve(ref string) (*recipe.Recipe, error) {
	ref = strings.TrimSpace(ref)
	if r, ok := e.recipes.Get(ref); ok {
		return r, nil
	}
	if r, ok := e.recipes.Lookup(ref); ok {
		return r, nil
	}
	return nil, errors.NotFound("product", ref)
}

// Cost computes the cost of one craft of the referenced product
func (e *Engine) Cost(ctx context.Context, ref string, successRate decimal.Decimal) (*Estimate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r, err := e.Resolve(ref)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result := e.agg.ComputeCost(r.ID, successRate)
	est := &Estimate{
		Product:     r,
		Result:      result,
		EstimatedAt: start,
		Duration:    time.Since(start),
	}

	e.logger.Debug("cost computed",
		logging.Product(r.ID),
		zap.String("rate", result.SuccessRate.String()),
		zap.String("total", result.Total.String()),
		zap.Int("materials", len(result.Breakdown)),
	)
	return est, nil
}

// Tree expands the referenced product into its bill of materials
func (e *Engine) Tree(ctx context.Context, ref string, successRate decimal.Decimal) (*cost.TreeNode, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r, err := e.Resolve(ref)
	if err != nil {
		return nil, err
	}
	node, ok := e.agg.Tree(r.ID, successRate)
	if !ok {
		return nil, errors.Internal("recipe vanished while building tree", nil).WithContext("id", r.ID)
	}
	return node, nil
}

// UsedMaterials returns the catalog materials the product consumes,
// directly or through components, sorted by id.
func (e *Engine) UsedMaterials(ref string) ([]*catalog.Material, error) {
	r, err := e.Resolve(ref)
	if err != nil {
		return nil, err
	}
	ids := e.agg.MaterialIDs(r.ID)
	result := make([]*catalog.Material, 0, len(ids))
	for _, id := range ids {
		if m, ok := e.catalog.Material(id); ok {
			result = append(result, m)
		}
	}
	return result, nil
}

// Ordered returns every recipe with components before their consumers
func (e *Engine) Ordered() []*recipe.Recipe {
	return e.order.Recipes
}

// Cyclic names the recipes that could not be ordered after their components
func (e *Engine) Cyclic() []string {
	return e.order.Cyclic
}

// Products returns the recipes in presentation order
func (e *Engine) Products() []*recipe.Recipe {
	return recipe.SortForDisplay(e.recipes.All())
}

// Professions returns the distinct recipe professions, sorted
func (e *Engine) Professions() []string {
	seen := make(map[string]bool)
	for _, r := range e.recipes.All() {
		if r.Profession != "" {
			seen[r.Profession] = true
		}
	}
	return determinism.SortedKeys(seen)
}

// SetPrice sets a material price by id or name
func (e *Engine) SetPrice(ref string, price int64) error {
	ref = strings.TrimSpace(ref)
	id := ref
	if _, ok := e.catalog.Material(id); !ok {
		var found bool
		if id, found = e.catalog.Lookup(ref); !found {
			return errors.NotFound("material", ref)
		}
	}
	e.catalog.SetPrice(id, price)
	e.logger.Debug("price set", logging.Material(id), zap.Int64("price", price))
	return nil
}

// ApplyPrices sets prices by material name and returns the names that
// matched nothing, sorted.
func (e *Engine) ApplyPrices(prices map[string]int64) []string {
	unmatched := e.catalog.ApplyPrices(prices, determinism.SortedKeys(prices))
	for _, name := range unmatched {
		e.logger.Warn("price for unknown material ignored", zap.String("material", name))
	}
	e.logger.Debug("prices applied",
		zap.Int("given", len(prices)),
		zap.Int("unmatched", len(unmatched)),
	)
	return unmatched
}

// Check runs the recipe health checks
func (e *Engine) Check(strict bool) ([]graph.Violation, error) {
	c := graph.NewChecker(strict)
	err := c.Run(e.recipes, e.catalog, e.order)
	return c.Violations(), err
}

// Catalog returns the material catalog
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Recipes returns the recipe arena
func (e *Engine) Recipes() *recipe.Set {
	return e.recipes
}

// BuildReport returns what was dropped while building the recipes
func (e *Engine) BuildReport() recipe.BuildReport {
	return e.report
}

// Config returns the engine configuration
func (e *Engine) Config() EngineConfig {
	return e.config
}
