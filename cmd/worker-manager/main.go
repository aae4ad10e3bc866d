// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rfq-dispatch-workers/internal/common/aws"
	"rfq-dispatch-workers/internal/common/camunda"
	"rfq-dispatch-workers/internal/common/config"
	"rfq-dispatch-workers/internal/common/database"
	"rfq-dispatch-workers/internal/common/logger"
	"rfq-dispatch-workers/internal/common/observability"
	"rfq-dispatch-workers/internal/dispatch"
	"rfq-dispatch-workers/internal/store"

	// Matching workers
	ac "rfq-dispatch-workers/internal/workers/matching/assess-capability"
	nc "rfq-dispatch-workers/internal/workers/matching/normalize-criteria"
	rp "rfq-dispatch-workers/internal/workers/matching/rank-providers"

	// Dispatch workers
	bod "rfq-dispatch-workers/internal/workers/dispatch/build-outbound-dispatch"
	cdr "rfq-dispatch-workers/internal/workers/dispatch/check-dispatch-readiness"
	ded "rfq-dispatch-workers/internal/workers/dispatch/deliver-email-dispatch"

	// Outreach workers
	cqna "rfq-dispatch-workers/internal/workers/outreach/compute-quote-needs-action"
	ss "rfq-dispatch-workers/internal/workers/outreach/sla-sweep"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	log = log.WithFields(map[string]interface{}{"service": cfg.App.Name})
	log.Info("starting worker manager", map[string]interface{}{
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	})

	if err := run(cfg, log); err != nil {
		log.Error("worker manager failed", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
	log.Info("worker manager stopped gracefully", nil)
}

func run(cfg *config.Config, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	obs, err := observability.New("rfq-dispatch-workers")
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			log.Warn("observability shutdown failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	// --- Datastores ---
	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pg.Close()
	checks := map[string]pinger{"postgres": pg}

	var rdb *database.RedisClient
	if cfg.Database.Redis.Address != "" {
		rdb = database.NewRedis(cfg.Database.Redis)
		defer rdb.Close()
		checks["redis"] = rdb
	}

	var es *database.ElasticsearchClient
	if cfg.Matching.ProviderSource == config.ProviderSourceElasticsearch {
		es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return fmt.Errorf("connect elasticsearch: %w", err)
		}
		checks["elasticsearch"] = es
	}

	// --- Stores ---
	var schemaCache *store.SchemaCache
	if rdb != nil {
		schemaCache = store.NewSchemaCache(rdb.Client, cfg.Matching.SchemaCacheTTL)
	}
	probe := store.NewSchemaProbe(pg.DB, cfg.Matching.ProviderTable, cfg.Matching.ContactEmailColumns, schemaCache, log)

	var (
		providers store.ProviderSource
		prober    rp.SchemaProber
	)
	switch cfg.Matching.ProviderSource {
	case config.ProviderSourceElasticsearch:
		providers = store.NewElasticProviderDirectory(es.Client, cfg.Matching.ProviderIndex)
	default:
		providers = store.NewPostgresProviderStore(pg.DB, probe, cfg.Matching.ContactEmailColumns)
		prober = probe
	}
	outreach := store.NewPostgresOutreachStore(pg.DB)

	var deduper dispatch.Deduper = dispatch.NewMemoryDeduper()
	if cfg.Dispatch.DedupeBackend == config.DedupeRedis {
		deduper = store.NewRedisDeduper(rdb.Client, cfg.Dispatch.DiagnosticTTL)
	}

	// --- AWS delivery ---
	awsCfg := cfg.Integrations.AWS
	var sender ded.EmailSender
	if awsCfg.SES.Enabled {
		s, err := aws.NewSESEmailSender(ctx, awsCfg.Region, awsCfg.SES.FromEmail)
		if err != nil {
			return fmt.Errorf("init ses: %w", err)
		}
		sender = s
	}
	var publisher ss.AlertPublisher
	if awsCfg.SNS.Enabled {
		topic := awsCfg.SNS.TopicARN
		if cfg.Outreach.AlertTopic != "" {
			topic = cfg.Outreach.AlertTopic
		}
		p, err := aws.NewSNSAlertPublisher(ctx, awsCfg.Region, topic)
		if err != nil {
			return fmt.Errorf("init sns: %w", err)
		}
		publisher = p
	}

	// --- Zeebe ---
	zeebe, err := camunda.Connect(ctx, camunda.ConfigFrom(cfg.Camunda), log)
	if err != nil {
		return err
	}
	defer zeebe.Close()
	checks["zeebe"] = pingFunc(zeebe.HealthCheck)

	// --- Handlers ---
	timeout := func(taskType string) time.Duration {
		return config.GetDuration(config.GetWorkerConfig(cfg, taskType).Timeout)
	}

	ncCfg := nc.LoadConfig()
	ncCfg.Timeout = timeout(nc.TaskType)

	acCfg := ac.LoadConfig()
	acCfg.Timeout = timeout(ac.TaskType)

	rpCfg := rp.LoadConfig().FromMatching(cfg.Matching)
	rpCfg.Timeout = timeout(rp.TaskType)

	bodCfg := bod.LoadConfig()
	bodCfg.DefaultSubmissionURL = cfg.Dispatch.DefaultSubmissionURL
	bodCfg.EnableAPIAdapter = cfg.Dispatch.EnableAPIAdapter
	bodCfg.Timeout = timeout(bod.TaskType)

	cdrCfg := cdr.LoadConfig()
	cdrCfg.Timeout = timeout(cdr.TaskType)

	dedCfg := ded.LoadConfig()
	dedCfg.FromEmail = awsCfg.SES.FromEmail
	dedCfg.AWSRegion = awsCfg.Region
	dedCfg.Timeout = timeout(ded.TaskType)

	cqnaCfg := cqna.LoadConfig().FromOutreach(cfg.Outreach)
	cqnaCfg.Timeout = timeout(cqna.TaskType)

	ssCfg := ss.LoadConfig().FromOutreach(cfg.Outreach)
	ssCfg.Timeout = timeout(ss.TaskType)

	sweep := ss.NewHandler(ssCfg, outreach, publisher, deduper, log, obs)

	handlers := map[string]camunda.JobHandler{
		nc.TaskType:   nc.NewHandler(ncCfg, log, obs),
		ac.TaskType:   ac.NewHandler(acCfg, prober, log, obs),
		rp.TaskType:   rp.NewHandler(rpCfg, providers, prober, log, obs),
		bod.TaskType:  bod.NewHandler(bodCfg, log, obs),
		cdr.TaskType:  cdr.NewHandler(cdrCfg, deduper, log, obs),
		cqna.TaskType: cqna.NewHandler(cqnaCfg, outreach, log, obs),
		ss.TaskType:   sweep,
	}
	if sender != nil {
		handlers[ded.TaskType] = ded.NewHandler(dedCfg, sender, log, obs)
	} else {
		log.Info("ses disabled, email delivery worker not started", map[string]interface{}{"taskType": ded.TaskType})
	}

	var workers []*camunda.Worker
	for taskType, handler := range handlers {
		if w := camunda.StartWorker(zeebe.Zeebe(), taskType, config.GetWorkerConfig(cfg, taskType), handler, log); w != nil {
			workers = append(workers, w)
		}
	}
	log.Info("workers registered", map[string]interface{}{"count": len(workers)})

	if cfg.Outreach.Sweep.Interval > 0 {
		go runSweepLoop(ctx, sweep, cfg.Outreach.Sweep.Interval, log)
	}

	// --- Health & Metrics Server ---
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.HTTPPort),
		Handler:           newMux(checks),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("health/metrics server listening", map[string]interface{}{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("health/metrics server failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received, stopping workers", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("health server shutdown failed", map[string]interface{}{"error": err.Error()})
	}
	for _, w := range workers {
		w.Stop()
	}
	return nil
}

// runSweepLoop runs the SLA sweep on a timer for deployments that do not
// schedule it from a process.
func runSweepLoop(ctx context.Context, sweep *ss.Handler, interval time.Duration, log logger.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	log.Info("sla sweep loop started", map[string]interface{}{"interval": interval.String()})

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			out, err := sweep.Execute(ctx, &ss.Input{})
			if err != nil {
				log.Error("scheduled sla sweep failed", map[string]interface{}{"error": err.Error()})
				continue
			}
			log.Debug("scheduled sla sweep done", map[string]interface{}{"sweepId": out.SweepID})
		}
	}
}

func newMux(checks map[string]pinger) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		status, code := "ready", http.StatusOK
		deps := make(map[string]string, len(checks))
		for name, c := range checks {
			if err := c.Ping(ctx); err != nil {
				deps[name] = err.Error()
				status, code = "not_ready", http.StatusServiceUnavailable
				continue
			}
			deps[name] = "ok"
		}
		writeJSON(w, code, map[string]interface{}{
			"status":       status,
			"dependencies": deps,
			"time":         time.Now().Format(time.RFC3339),
		})
	})
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
