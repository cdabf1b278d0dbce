package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"billaudit/internal/advisor"
	"billaudit/internal/advisor/claude"
	"billaudit/internal/advisor/gemini"
	"billaudit/internal/advisor/openai"
	"billaudit/internal/charges"
	"billaudit/internal/config"
	"billaudit/internal/handler"
	"billaudit/internal/logging"
	"billaudit/internal/port"
	"billaudit/internal/router"
	"billaudit/internal/service"
	s3storage "billaudit/internal/storage/s3"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bill analysis HTTP server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func registerProviders() {
	advisor.RegisterProvider("openai", func(cfg *config.AdvisorProviderConfig) (port.BillAdvisor, error) {
		return openai.NewAdvisor(cfg), nil
	})
	advisor.RegisterProvider("claude", func(cfg *config.AdvisorProviderConfig) (port.BillAdvisor, error) {
		return claude.NewAdvisor(cfg), nil
	})
	advisor.RegisterProvider("gemini", func(cfg *config.AdvisorProviderConfig) (port.BillAdvisor, error) {
		return gemini.NewAdvisor(cfg), nil
	})
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log := logging.Setup(cfg.Log.Level, cfg.Log.Format)

	// Build the charge index once, before serving. A missing or broken
	// dataset degrades to an empty index rather than aborting startup.
	index := loadIndex(&cfg.Dataset, log)

	registerProviders()
	billAdvisor, err := buildAdvisor(&cfg.Advisor, log)
	if err != nil {
		return fmt.Errorf("failed to configure advisor: %w", err)
	}

	analysisSvc := service.NewAnalysisService(index, billAdvisor, log)

	analysisH := handler.NewAnalysisHandler(analysisSvc, log)
	lookupH := handler.NewLookupHandler(index)
	healthH := handler.NewHealthHandler(index)

	r := router.Setup(cfg, log, analysisH, lookupH, healthH)

	log.Info().Str("port", cfg.Server.Port).Msg("server starting")
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

// loadIndex reads the disclosure dataset from the configured source. Any
// failure yields an empty index and a warning.
func loadIndex(cfg *config.DatasetConfig, log zerolog.Logger) *charges.Index {
	if cfg.Source == "s3" {
		fetcher, err := s3storage.NewDatasetFetcher(cfg)
		if err != nil {
			log.Warn().Err(err).Msg("s3 dataset fetcher unavailable, charge index is empty")
			return charges.Load(nil, log)
		}
		data, err := fetcher.Fetch(context.Background(), cfg.Bucket, cfg.Key)
		if err != nil {
			log.Warn().Err(err).
				Str("bucket", cfg.Bucket).
				Str("key", cfg.Key).
				Msg("disclosure dataset not fetchable, charge index is empty")
			return charges.Load(nil, log)
		}
		return charges.Load(data, log)
	}
	return charges.LoadFile(cfg.Path, log)
}

// buildAdvisor wires the configured provider chain, wrapping multiple
// providers in a fallback.
func buildAdvisor(cfg *config.AdvisorConfig, log zerolog.Logger) (port.BillAdvisor, error) {
	providerCfgs := cfg.Providers()
	if len(providerCfgs) == 0 {
		return nil, fmt.Errorf("no advisor provider configured")
	}

	var advisors []port.BillAdvisor
	var names []string
	for _, pc := range providerCfgs {
		a, err := advisor.NewAdvisor(pc)
		if err != nil {
			return nil, err
		}
		advisors = append(advisors, a)
		names = append(names, pc.Provider)
	}

	if len(advisors) == 1 {
		return advisors[0], nil
	}
	return advisor.NewFallbackAdvisor(advisors, names, log), nil
}
