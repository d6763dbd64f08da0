package main

import (
	"log"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/remedytax/intake-engine/internal/audit"
	"github.com/remedytax/intake-engine/internal/config"
	"github.com/remedytax/intake-engine/internal/handler"
	"github.com/remedytax/intake-engine/internal/payment"
	"github.com/remedytax/intake-engine/internal/wizard"
)

func main() {
	cfg := config.FromEnv()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer logger.Sync()

	gateway := payment.NewClient(cfg.GatewayURL, cfg.GatewayAccessToken, cfg.GatewayLocationID, logger)
	collector := payment.NewCollector(gateway, logger, nil)
	sink := audit.New(cfg.AuditWebhookURL, logger)
	engine := wizard.New()

	h := handler.New(engine, collector, sink, logger)

	logger.Info("intake engine starting", zap.String("port", cfg.Port))
	if err := fasthttp.ListenAndServe(":"+cfg.Port, h.Serve); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}
