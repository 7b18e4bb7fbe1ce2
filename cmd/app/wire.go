//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/transcript-summarizer/internal/bootstrap"
	"github.com/yanqian/transcript-summarizer/internal/domain/summarizer"
	"github.com/yanqian/transcript-summarizer/internal/infra/config"
	httpiface "github.com/yanqian/transcript-summarizer/internal/interface/http"
	"github.com/yanqian/transcript-summarizer/pkg/logger"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		provideSummaryConfig,
		provideProvider,
		provideRecorder,
		provideRateLimitStore,
		provideLimiter,
		summarizer.NewService,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
