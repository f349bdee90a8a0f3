// Package app is the composition root shared by the server and the CLI.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/hervoice/internal/config"
	"github.com/kailas-cloud/hervoice/internal/db"
	"github.com/kailas-cloud/hervoice/internal/db/memory"
	dbRedis "github.com/kailas-cloud/hervoice/internal/db/redis"
	"github.com/kailas-cloud/hervoice/internal/domain"
	"github.com/kailas-cloud/hervoice/internal/metrics"
	budgetrepo "github.com/kailas-cloud/hervoice/internal/repository/budget"
	"github.com/kailas-cloud/hervoice/internal/repository/corpus"
	"github.com/kailas-cloud/hervoice/internal/repository/embcache"
	chiTransport "github.com/kailas-cloud/hervoice/internal/transport/chi"
	openaiTransport "github.com/kailas-cloud/hervoice/internal/transport/openai"
	cataloguc "github.com/kailas-cloud/hervoice/internal/usecase/catalog"
	embeddinguc "github.com/kailas-cloud/hervoice/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/hervoice/internal/usecase/health"
	"github.com/kailas-cloud/hervoice/internal/usecase/ranking"
	searchuc "github.com/kailas-cloud/hervoice/internal/usecase/search"
	"github.com/kailas-cloud/hervoice/internal/usecase/understanding"
	usageuc "github.com/kailas-cloud/hervoice/internal/usecase/usage"
)

// budgetProvider keys the shared token budget of both remote providers.
const budgetProvider = "remote"

// App holds the wired services.
type App struct {
	Search  *searchuc.Service
	Catalog *cataloguc.Service
	Usage   *usageuc.Service
	Health  *healthuc.Service
	Corpus  *corpus.Repo

	cfg    config.Config
	store  db.Store
	logger *zap.Logger
}

// New builds every component from cfg. The caller must Close the App.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	// Register pipeline metrics explicitly (no init())
	metrics.Register()

	repo, err := corpus.Open(cfg.Corpus.Path, logger.Named("corpus"))
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	store, err := openStore(ctx, cfg.Cache)
	if err != nil {
		return nil, err
	}

	// One tracker shared by embedding and keyword extraction. Zero limits
	// still count tokens so GET /api/usage reports consumption.
	budget := embeddinguc.NewBudgetTracker(
		budgetProvider,
		cfg.Budget.DailyTokenLimit,
		cfg.Budget.MonthlyTokenLimit,
		embeddinguc.BudgetAction(cfg.Budget.Action),
		logger.Named("budget"),
	).WithStore(ctx, budgetrepo.New(store, 48*time.Hour, 62*24*time.Hour))

	vectors := buildEmbedder(cfg, store, budget, logger)

	// Pass nil interface (not typed nil pointer!) when the LLM is not configured.
	// Go gotcha: (*KeywordExtractor)(nil) wrapped in Extractor != nil.
	var extractor understanding.Extractor
	var llmHealth healthuc.RemoteChecker = disabledRemote{name: "llm"}
	if domain.HasCredential(cfg.LLM.APIKey) {
		x := openaiTransport.NewKeywordExtractor(&openaiTransport.Config{
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			Logger:      logger,
		})
		extractor = x
		llmHealth = x
	}

	understand := understanding.New(
		extractor, budget, seconds(cfg.LLM.TimeoutSec), logger.Named("understanding"),
	)
	rank := ranking.New(vectors, logger.Named("ranking"))

	logger.Info("Remote providers configured",
		zap.Bool("llm_enabled", extractor != nil),
		zap.String("llm_model", cfg.LLM.Model),
		zap.Bool("embedding_enabled", domain.HasCredential(cfg.Embedding.APIKey)),
		zap.String("embedding_model", cfg.Embedding.Model),
		zap.String("cache_driver", cfg.Cache.Driver),
	)

	return &App{
		Search:  searchuc.New(repo, understand, rank, logger.Named("search")),
		Catalog: cataloguc.New(repo, logger.Named("catalog")),
		Usage:   usageuc.New(budget),
		Health: healthuc.New(repo, store).
			WithRemote(embeddinguc.StageName, vectors).
			WithRemote("llm", llmHealth),
		Corpus: repo,
		cfg:    cfg,
		store:  store,
		logger: logger,
	}, nil
}

// Handler returns the HTTP API with its middleware chain.
func (a *App) Handler() http.Handler {
	server := chiTransport.NewServer(a.Search, a.Catalog, a.Usage, a.Health, a.logger.Named("http"))
	return chiTransport.NewRouter(server, chiTransport.RouterConfig{
		APIKeys:        a.cfg.Auth.APIKeys,
		AllowedOrigins: a.cfg.CORS.AllowedOrigins,
	}, a.logger)
}

// Close releases the KV store.
func (a *App) Close() {
	a.store.Close()
}

func openStore(ctx context.Context, cfg config.CacheConfig) (db.Store, error) {
	if cfg.Driver != "redis" {
		return memory.NewStore(), nil
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Addrs,
		Password: cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("create redis store: %w", err)
	}
	if err := store.WaitForReady(ctx, seconds(cfg.ReadinessTimeout)); err != nil {
		store.Close()
		return nil, fmt.Errorf("redis not ready: %w", err)
	}
	return store, nil
}

// buildEmbedder assembles the decorator chain: OpenAI -> Budgeted -> Cached -> Instrumented.
// The budget gates only remote calls; cache hits are served after exhaustion.
func buildEmbedder(
	cfg config.Config,
	store db.Store,
	budget embeddinguc.BudgetChecker,
	logger *zap.Logger,
) *embeddinguc.InstrumentedEmbedder {
	var base domain.Embedder = domain.DisabledEmbedder{}
	if domain.HasCredential(cfg.Embedding.APIKey) {
		base = openaiTransport.NewEmbedder(&openaiTransport.Config{
			APIKey:     cfg.Embedding.APIKey,
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
			Logger:     logger,
		})
	}

	budgeted := embeddinguc.NewBudgetedEmbedder(base, budget)
	cached := embcache.New(budgeted, store, cfg.Embedding.Model, metrics.EmbeddingCacheTotal, logger.Named("embcache")).
		WithTTL(seconds(cfg.Cache.TTLSec))

	return embeddinguc.NewInstrumentedEmbedder(
		cached, "openai", cfg.Embedding.Model, seconds(cfg.Embedding.TimeoutSec), logger.Named("embedding"),
	)
}

// disabledRemote reports a provider without a credential.
type disabledRemote struct{ name string }

func (d disabledRemote) HealthCheck(context.Context) error {
	return fmt.Errorf("%s disabled: %w", d.name, domain.ErrCredentialMissing)
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
