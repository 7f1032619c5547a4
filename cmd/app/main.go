package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"social-web/configs"
	"social-web/internal/apiclient"
	"social-web/internal/events"
	"social-web/internal/images"
	"social-web/internal/logx"
	"social-web/internal/ratelimit"
	"social-web/internal/session"
	"social-web/internal/shared/redisx"
	"social-web/internal/storage/s3"
	"social-web/internal/telemetry"
	"social-web/internal/web"
)

func main() {
	cfg, err := configs.LoadConfig()
	logger := logx.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}
	log := logger.WithField("service", cfg.OTELServiceName)
	log.Infof("config: %s", cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdown, err := telemetry.Init(ctx, telemetry.Config{
		Endpoint:    cfg.OTELEndpoint,
		ServiceName: cfg.OTELServiceName,
		Env:         cfg.Env,
		SampleRatio: cfg.OTELSampleRatio,
	})
	if err != nil {
		log.WithError(err).Fatal("otel exporter")
	}
	defer func() {
		c, cc := context.WithTimeout(context.Background(), 5*time.Second)
		defer cc()
		_ = shutdown(c)
	}()

	api, err := apiclient.New(apiclient.Config{
		BaseURL:  cfg.APIURL,
		Timeout:  cfg.APITimeout,
		Envelope: apiclient.EnvelopeMode(cfg.APIEnvelope),
	}, log)
	if err != nil {
		log.WithError(err).Fatal("api client")
	}

	store, rdb, err := openSessions(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("session store")
	}
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	sink, err := openImages(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("image storage")
	}

	pub, err := events.New(cfg.KafkaBrokers, cfg.KafkaTopicActivity)
	if err != nil {
		log.WithError(err).Fatal("kafka writer")
	}
	defer func() { _ = pub.Close() }()

	limiter := ratelimit.New(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go sweep(ctx, limiter, log)

	site, err := web.New(web.Options{
		API:             api,
		Sessions:        session.NewManager(store, cfg.SessionTTL, cfg.SessionSecure, log),
		Images:          sink,
		Events:          pub,
		Limiter:         limiter,
		Locale:          cfg.Locale,
		MaxCommentDepth: cfg.MaxCommentDepth,
		MaxImageBytes:   cfg.MaxImageBytes,
		TrustProxy:      cfg.TrustedProxy,
		Log:             log,
	})
	if err != nil {
		log.WithError(err).Fatal("web")
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/", otelhttp.NewHandler(site.Routes(), "web"))

	srv := &http.Server{
		Addr:              cfg.AppPort,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		log.Infof("listening on %s", cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("http server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("shutting down...")

	shCtx, shCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shCancel()
	if err := srv.Shutdown(shCtx); err != nil {
		log.WithError(err).Warn("http shutdown")
	}
	cancel()
}

// openSessions returns the configured token store. The redis client is nil
// for the in-memory store.
func openSessions(ctx context.Context, cfg *configs.Config) (session.Store, *redis.Client, error) {
	if cfg.SessionStore == "memory" {
		return session.NewMemoryStore(), nil, nil
	}
	rdb, err := redisx.Open(ctx, redisx.Options{Addr: cfg.RedisAddr(), Password: cfg.RedisPassword, DB: cfg.RedisDB})
	if err != nil {
		return nil, nil, err
	}
	return session.NewRedisStore(rdb), rdb, nil
}

func openImages(ctx context.Context, cfg *configs.Config) (images.Sink, error) {
	if cfg.ImageSink != "s3" {
		return images.DataURL{}, nil
	}
	store, err := s3.New(s3.Config{
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		UseSSL:    cfg.S3UseSSL,
		Bucket:    cfg.S3Bucket,
		PublicURL: cfg.S3PublicURL,
	})
	if err != nil {
		return nil, err
	}
	if err := store.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return images.NewS3(store), nil
}

// sweep drops idle rate limit buckets until ctx ends.
func sweep(ctx context.Context, l *ratelimit.Limiter, log *logrus.Entry) {
	t := time.NewTicker(time.Minute)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := l.Sweep(); n > 0 {
				log.WithField("dropped", n).Debug("rate limit sweep")
			}
		}
	}
}
