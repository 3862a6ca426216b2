package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/JustJay7/consumer-complaint-assistant/internal/analytics"
	"github.com/JustJay7/consumer-complaint-assistant/internal/api"
	"github.com/JustJay7/consumer-complaint-assistant/internal/chat"
	"github.com/JustJay7/consumer-complaint-assistant/internal/config"
	"github.com/JustJay7/consumer-complaint-assistant/internal/database"
	"github.com/JustJay7/consumer-complaint-assistant/internal/document"
	"github.com/JustJay7/consumer-complaint-assistant/internal/filing"
	"github.com/JustJay7/consumer-complaint-assistant/internal/llm"
	"github.com/JustJay7/consumer-complaint-assistant/internal/location"
	"github.com/JustJay7/consumer-complaint-assistant/internal/server"
	"github.com/JustJay7/consumer-complaint-assistant/pkg/logger"
)

func main() {
	var migrate bool
	flag.BoolVar(&migrate, "migrate", false, "Run database migrations")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()

	store, storeCloser, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to initialize database", "driver", cfg.StoreDriver, "error", err)
	}

	if migrate {
		log.Info("Database migrations completed successfully", "driver", cfg.StoreDriver)
		storeCloser.Close()
		return
	}

	client := newTextClient(ctx, cfg, log)

	renderer := document.NewRenderer(
		document.NewBrowserRasterizer(cfg, log),
		document.PDFWriter{},
		log,
	)
	recorder := analytics.NewRecorder(store, cfg.Location, cfg.RecentRecordsLimit, log)

	svc := api.Services{
		Filing:   filing.NewService(renderer, recorder, cfg.RenderTimeout, log),
		Recorder: recorder,
		Chat: chat.NewRelay(
			client,
			chat.NewMemoryStore(cfg.ChatSessionIdle, cfg.ChatHistoryLimit),
			cfg.ChatTimeout,
			log,
		),
		Location: location.NewLookup(client, cfg.CacheSize, cfg.LocationCacheTTL, cfg.LocationTimeout, log),
	}

	srv := server.New(cfg, svc, log, renderer, storeCloser)

	log.Info("Starting Consumer Complaint Assistant",
		"host", cfg.Host,
		"port", cfg.Port,
		"store", cfg.StoreDriver,
		"timezone", cfg.Location.String(),
	)

	if err := srv.Run(); err != nil {
		log.Fatal("Server failed to start", "error", err)
	}
}

// openStore connects the configured analytics store and brings its schema
// up to date
func openStore(ctx context.Context, cfg *config.Config) (analytics.Store, io.Closer, error) {
	switch cfg.StoreDriver {
	case "postgres":
		db, err := analytics.OpenPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := analytics.MigratePostgres(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		return analytics.NewPGStore(db), db, nil
	default:
		db, err := database.Initialize(cfg.DatabasePath)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, err
		}
		return analytics.NewGormStore(db), sqlDB, nil
	}
}

// newTextClient returns the Gemini client, or a client that always fails
// when no key is configured so chat and locations use their fallbacks
func newTextClient(ctx context.Context, cfg *config.Config, log *logger.Logger) llm.Client {
	client, err := llm.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, log)
	if errors.Is(err, llm.ErrNoCredentials) {
		log.Warn("GEMINI_API_KEY not set; chat and location lookups will use fallbacks")
		return llm.Unavailable{}
	}
	if err != nil {
		log.Error("Failed to initialize Gemini client; using fallbacks", "error", err)
		return llm.Unavailable{}
	}
	return client
}
