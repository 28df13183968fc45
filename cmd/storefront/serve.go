package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vasiliy-maslov/storefront/internal/auth"
	"github.com/vasiliy-maslov/storefront/internal/checkout"
	"github.com/vasiliy-maslov/storefront/internal/config"
	"github.com/vasiliy-maslov/storefront/internal/db"
	"github.com/vasiliy-maslov/storefront/internal/events"
	"github.com/vasiliy-maslov/storefront/internal/logger"
	"github.com/vasiliy-maslov/storefront/internal/order"
	"github.com/vasiliy-maslov/storefront/internal/payment"
	"github.com/vasiliy-maslov/storefront/internal/product"
	"github.com/vasiliy-maslov/storefront/internal/transport"
)

func serveCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Apply migrations and start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*envFile)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, cfg)
		},
	}
}

func loadConfig(envFile string) (*config.Config, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Setup(cfg.Log, cfg.App); err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	return cfg, nil
}

func runServer(ctx context.Context, cfg *config.Config) error {
	log.Info().Str("env", cfg.App.Env).Msg("Storefront starting...")

	store, err := db.Open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer store.Close()

	if err := store.Migrate(); err != nil {
		return err
	}

	var publisher order.Publisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.OrdersTopic)
		defer func() {
			if err := kafkaPublisher.Close(); err != nil {
				log.Warn().Err(err).Msg("Failed to close Kafka writer")
			}
		}()
		publisher = kafkaPublisher
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.OrdersTopic).Msg("Publishing order events to Kafka")
	}

	var gateway payment.Gateway
	if cfg.Payment.StripeSecretKey != "" {
		gateway = payment.NewStripeGateway(cfg.Payment.StripeSecretKey, nil)
	} else {
		log.Warn().Msg("STRIPE_SECRET_KEY is not set, using the local payment stand-in")
		gateway = payment.NewLocalGateway()
	}

	sessionStore, err := auth.NewStore(cfg.Session, cfg.App.IsProduction())
	if err != nil {
		return err
	}

	products := product.NewService(product.NewRepository(store))
	ledger := order.NewService(order.NewRepository(store), products, cfg.Payment.ShippingCost, publisher)

	router := transport.NewRouter(log.Logger, transport.Services{
		Products: products,
		Orders:   ledger,
		Checkout: checkout.NewService(products, gateway, ledger, cfg.Payment),
		Sessions: auth.NewManager(sessionStore, auth.NewAuthenticator(cfg.Admin), cfg.Session.TTL),
	}, !cfg.App.IsProduction())

	if err := transport.Serve(ctx, transport.NewServer(cfg.App.Port, router)); err != nil {
		return fmt.Errorf("http server: %w", err)
	}
	log.Info().Msg("Storefront stopped gracefully")
	return nil
}
