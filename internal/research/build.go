package research

import (
	"fmt"
	"log"

	"github.com/prometheus/client_golang/prometheus"

	"cryptoscout/config"
	"cryptoscout/internal/assets"
	"cryptoscout/internal/contextstore"
	"cryptoscout/internal/expand"
	"cryptoscout/internal/market"
	"cryptoscout/internal/scrape"
	"cryptoscout/internal/telemetry"
	"cryptoscout/provider"
	"cryptoscout/tools/web_fetch"
	"cryptoscout/tools/web_search"
)

// Build assembles a Pipeline from configuration. reg may be nil when the
// metrics endpoint is off.
func Build(cfg *config.Config, logger *log.Logger, reg prometheus.Registerer) (*Pipeline, error) {
	llm, err := provider.NewProvider(provider.Client(cfg.LLM.Provider), cfg.LLM.APIKey,
		cfg.LLM.Model, cfg.LLM.Temperature, cfg.LLM.MaxTokens, cfg.LLM.Timeout)
	if err != nil {
		return nil, fmt.Errorf("llm provider: %w", err)
	}

	searcher, err := web_search.NewWebSearcher(web_search.Provider(cfg.Search.Provider), cfg.Search.APIKey)
	if err != nil {
		return nil, fmt.Errorf("search provider: %w", err)
	}

	static, err := web_fetch.NewWebFetcher(web_fetch.StaticFetcherType, cfg.Scraper.StaticTimeout)
	if err != nil {
		return nil, fmt.Errorf("static fetcher: %w", err)
	}
	var browser web_fetch.WebFetcher
	if !cfg.Scraper.DisableBrowser {
		browser, err = web_fetch.NewWebFetcher(web_fetch.ChromedpFetcherType, cfg.Scraper.BrowserTimeout)
		if err != nil {
			return nil, fmt.Errorf("browser fetcher: %w", err)
		}
	}
	scraper := scrape.New(static, browser, logger)
	if cfg.Scraper.BatchSize > 0 {
		scraper.BatchSize = cfg.Scraper.BatchSize
	}
	if cfg.Scraper.InterBatchDelay > 0 {
		scraper.InterBatchDelay = cfg.Scraper.InterBatchDelay
	}

	var mkt market.Client
	var resolver assets.Resolver = assets.PatternResolver{}
	if cfg.Market.Enabled {
		mkt = market.NewCoinGecko(cfg.Market.BaseURL, cfg.Market.APIKey, cfg.Market.Timeout)
		resolver = assets.CatalogResolver{Catalog: assets.NewCatalog(mkt)}
	}

	var store contextstore.Store
	switch cfg.ContextStore.Backend {
	case "", "none":
		store = nil
	case "memory":
		store = contextstore.NewStore(contextstore.InMemoryStoreType, "", "", 0)
	case "redis":
		store = contextstore.NewStore(contextstore.RedisStoreType,
			cfg.ContextStore.Redis.Addr, cfg.ContextStore.Redis.Password, cfg.ContextStore.Redis.DB)
	default:
		return nil, fmt.Errorf("unknown context store backend %q", cfg.ContextStore.Backend)
	}

	var tele *telemetry.Telemetry
	if cfg.Telemetry.Enabled {
		tele = telemetry.New(reg, logger)
	}

	return &Pipeline{
		LLM:       llm,
		Searcher:  searcher,
		Scraper:   scraper,
		Expander:  &expand.Expander{LLM: llm, Logger: logger},
		Resolver:  resolver,
		Market:    mkt,
		Store:     store,
		Telemetry: tele,
		Logger:    logger,
	}, nil
}
