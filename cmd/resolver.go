package cmd

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shoecreatify/shoecreatify-api/account"
	"github.com/shoecreatify/shoecreatify-api/db"
	"github.com/shoecreatify/shoecreatify-api/events"
	"github.com/shoecreatify/shoecreatify-api/generator"
	"github.com/shoecreatify/shoecreatify-api/i18n"
	"github.com/shoecreatify/shoecreatify-api/mailing"
	"github.com/shoecreatify/shoecreatify-api/notify"
	"github.com/shoecreatify/shoecreatify-api/oauth"
	"github.com/shoecreatify/shoecreatify-api/ratelimit"
	"github.com/shoecreatify/shoecreatify-api/session"
	"go.uber.org/zap"
)

func mustResolveUsableDataStore() *db.DataStore {
	dataStore, err := db.NewStore(TopLevelLogger.Named("database"), LoadedConfig.Database)
	if err != nil {
		TopLevelLogger.Fatal("Failed to create datastore", zap.Error(err))
	}
	err = dataStore.EnsureUsable()
	if err != nil {
		TopLevelLogger.Fatal("Datastore is unusable", zap.Error(err))
	}
	return dataStore
}

func mustResolveTranslationRegistry() *i18n.TranslationRegistry {
	registry, err := i18n.NewTranslationRegistry(FileSystemsConfig.Templates, TopLevelLogger.Named("i18n"))
	if err != nil {
		TopLevelLogger.Fatal("Failed to load translation files", zap.Error(err))
	}
	return registry
}

func bootstrapDispatcher(auditor db.Auditor) *events.Dispatcher {
	dispatcher := events.NewDispatcher(TopLevelLogger.Named("event_dispatcher"))
	//bootstrap listeners
	dbLayer := db.BootstrapListeners(auditor, TopLevelLogger.Named("event_listener"))
	dispatcher.Register(dbLayer...)
	return dispatcher
}

func mustResolveMailer(registry *i18n.TranslationRegistry) *mailing.Mailer {
	mailer, err := mailing.NewMailer(TopLevelLogger.Named("mailer"), LoadedConfig, registry, FileSystemsConfig.Templates)
	if err != nil {
		TopLevelLogger.Fatal("Failed to create mailer", zap.Error(err))
	}
	return mailer
}

func mustResolveNotificationQueue(mailer *mailing.Mailer, reg prometheus.Registerer) *notify.Queue {
	queue, err := notify.NewQueue(
		TopLevelLogger.Named("notification_queue"),
		mailer,
		LoadedConfig.Behaviour.NotificationWorkers,
		LoadedConfig.Behaviour.NotificationBuffer,
		reg,
	)
	if err != nil {
		TopLevelLogger.Fatal("Failed to create notification queue", zap.Error(err))
	}
	return queue
}

func resolveSessionManager(dataStore *db.DataStore) *session.Manager {
	return session.NewManager(
		dataStore,
		TopLevelLogger.Named("session_manager"),
		LoadedConfig.Session,
		LoadedConfig.Server.Production,
	)
}

// accountStack is everything the lifecycle service needs, close flushes pending emails
type accountStack struct {
	store    *db.DataStore
	registry *i18n.TranslationRegistry
	sessions *session.Manager
	queue    *notify.Queue
	service  *account.Service
}

func (a *accountStack) close(ctx context.Context) {
	if err := a.queue.Close(ctx); err != nil {
		TopLevelLogger.Warn("notification queue did not drain", zap.Error(err))
	}
	a.store.Close()
}

func mustResolveAccountStack(reg prometheus.Registerer) *accountStack {
	dataStore := mustResolveUsableDataStore()
	registry := mustResolveTranslationRegistry()
	mailer := mustResolveMailer(registry)
	dispatcher := bootstrapDispatcher(dataStore.Auditor())
	queue := mustResolveNotificationQueue(mailer, reg)
	sessions := resolveSessionManager(dataStore)
	service := account.New(
		dataStore,
		TopLevelLogger.Named("account_service"),
		LoadedConfig.Behaviour,
		sessions,
		queue,
		dispatcher,
		generator.New(),
	)
	return &accountStack{
		store:    dataStore,
		registry: registry,
		sessions: sessions,
		queue:    queue,
		service:  service,
	}
}

// mustResolveLimiter returns nil when rate limiting is disabled
func mustResolveLimiter(ctx context.Context, reg prometheus.Registerer) *ratelimit.Limiter {
	if LoadedConfig.RateLimit == nil || !LoadedConfig.RateLimit.Enable {
		TopLevelLogger.Warn("rate limiting is disabled")
		return nil
	}
	log := TopLevelLogger.Named("rate_limiter")
	if LoadedConfig.RateLimit.RedisAddress == "" {
		log.Info("no redis configured, rate limits are counted per process")
		limiter, err := ratelimit.NewInMemory(log, reg)
		if err != nil {
			TopLevelLogger.Fatal("Failed to create rate limiter", zap.Error(err))
		}
		return limiter
	}
	client, err := ratelimit.NewClient(ctx, LoadedConfig.RateLimit)
	if err != nil {
		TopLevelLogger.Fatal("Failed to connect to redis", zap.Error(err))
	}
	limiter, err := ratelimit.New(client, log, reg)
	if err != nil {
		TopLevelLogger.Fatal("Failed to create rate limiter", zap.Error(err))
	}
	return limiter
}

// mustResolveGoogle returns nil when google sign in is disabled
func mustResolveGoogle(ctx context.Context) *oauth.Google {
	if LoadedConfig.Google == nil || !LoadedConfig.Google.Enable {
		return nil
	}
	keys, err := oauth.NewCachedKeys(ctx, oauth.GoogleCertsURL)
	if err != nil {
		TopLevelLogger.Fatal("Failed to set up google key cache", zap.Error(err))
	}
	return oauth.NewGoogle(TopLevelLogger.Named("google"), LoadedConfig.Google, keys)
}
