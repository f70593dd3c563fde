package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nsqio/go-nsq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/shandysiswandi/passgate/internal/otp/store"
	"github.com/shandysiswandi/passgate/internal/pkg/clock"
	"github.com/shandysiswandi/passgate/internal/pkg/config"
	"github.com/shandysiswandi/passgate/internal/pkg/goroutine"
	"github.com/shandysiswandi/passgate/internal/pkg/hash"
	"github.com/shandysiswandi/passgate/internal/pkg/instrument"
	"github.com/shandysiswandi/passgate/internal/pkg/llm"
	"github.com/shandysiswandi/passgate/internal/pkg/messaging"
	"github.com/shandysiswandi/passgate/internal/pkg/passcode"
	"github.com/shandysiswandi/passgate/internal/pkg/router"
	"github.com/shandysiswandi/passgate/internal/pkg/sms"
	"github.com/shandysiswandi/passgate/internal/pkg/uid"
	"github.com/shandysiswandi/passgate/internal/pkg/validator"
)

func (a *App) initConfig() {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "/config/config.yaml"
		if os.Getenv("LOCAL") == "true" {
			path = "./config/config.yaml"
		}
	}

	cfg, err := config.NewViper(path)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	//nolint:errcheck,gosec // ignore error
	os.Setenv("TZ", cfg.GetString("app.tz"))

	a.config = cfg
}

func (a *App) initInstrument() {
	ins, err := instrument.New(context.Background(), &instrument.Config{
		Enabled:          true,
		ServiceName:      a.config.GetString("instrument.service_name"),
		ServiceVersion:   a.config.GetString("instrument.service_version"),
		Environment:      a.config.GetString("instrument.env"),
		OTLPEndpoint:     a.config.GetString("instrument.otlp_endpoint"),
		OTLPSecure:       a.config.GetBool("instrument.otlp_secure"),
		TraceSampleRatio: a.config.GetFloat64("instrument.trace_sample_ratio"),
		MetricsInterval:  a.config.GetSecond("instrument.metric_interval_seconds"),
		MaskFields:       a.config.GetArray("instrument.log_mask_fields"),
	})
	if err != nil {
		slog.Error("failed to init instrumentation", "error", err)
		os.Exit(1)
	}
	a.ins = ins
}

func (a *App) initLibraries() {
	a.clock = clock.New()
	a.uuid = uid.NewUUID()
	a.goroutine = goroutine.NewManager(a.config.GetInt("app.server.max_goroutine"))
	a.hmac = hash.NewHMACSHA256(a.config.GetString("hash.hmac.secret"))

	validator, err := validator.NewV10Validator()
	if err != nil {
		slog.Error("failed to init validation v10 validator", "error", err)
		os.Exit(1)
	}
	a.validator = validator

	snow, err := uid.NewSnowflake()
	if err != nil {
		slog.Error("failed to init uid number snowflake", "error", err)
		os.Exit(1)
	}
	a.uid = snow

	gen, err := passcode.NewNumeric(a.config.GetInt("modules.otp.code_length"))
	if err != nil {
		slog.Error("failed to init passcode generator", "error", err)
		os.Exit(1)
	}
	a.generator = gen
}

func (a *App) initCache() {
	if a.config.GetString("modules.otp.store_driver") != store.DriverRedis {
		return
	}

	opt, err := redis.ParseURL(a.config.GetString("redis.url"))
	if err != nil {
		slog.Error("failed to parse redis url", "error", err)
		os.Exit(1)
	}

	rdb := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(a.ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		slog.Error("failed to init redis", "error", err)
		os.Exit(1)
	}

	a.cacheConn = rdb
}

func (a *App) initStore() {
	driver := a.config.GetString("modules.otp.store_driver")

	st, err := store.NewFromDriver(driver, store.FactoryOptions{
		Clock:          a.clock,
		MemoryCapacity: a.config.GetInt("modules.otp.memory.capacity"),
		RedisClient:    a.cacheConn,
	})
	if err != nil {
		slog.Error("failed to init challenge store", "error", err, "driver", driver)
		os.Exit(1)
	}
	a.store = st

	if mem, ok := st.(*store.Memory); ok {
		a.startSweeper(mem)
	}
}

// startSweeper reaps expired challenges from the memory store until the
// application context is cancelled.
func (a *App) startSweeper(mem *store.Memory) {
	interval := a.config.GetSecond("modules.otp.memory.sweep_interval_second")
	if interval <= 0 {
		interval = time.Minute
	}

	a.goroutine.Go(a.ctx, func(ctx context.Context) error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if n := mem.Sweep(ctx); n > 0 {
					slog.Debug("swept expired challenges", "removed", n, "remaining", mem.Len())
				}
			}
		}
	})
}

func (a *App) initSMS() {
	sid := strings.TrimSpace(a.config.GetString("sms.twilio.account_sid"))
	token := strings.TrimSpace(a.config.GetString("sms.twilio.auth_token"))
	from := strings.TrimSpace(a.config.GetString("sms.twilio.from"))

	if sid == "" || token == "" || from == "" {
		slog.Warn("sms delivery not configured, issued passcodes will be returned in-band")
		a.sms = sms.NewNoop()

		return
	}

	sender, err := sms.NewTwilio(sms.TwilioConfig{
		AccountSID: sid,
		AuthToken:  token,
		From:       from,
		Timeout:    a.config.GetSecond("sms.send_timeout_second"),
	})
	if err != nil {
		slog.Error("failed to init sms sender", "error", err)
		os.Exit(1)
	}

	a.sms = sender
	a.smsEnabled = true
}

func (a *App) initChat() {
	key := strings.TrimSpace(a.config.GetString("modules.chat.api_key"))
	if key == "" {
		slog.Error("chat provider api key is not configured")
		os.Exit(1)
	}

	completer, err := llm.NewOpenAI(llm.OpenAIConfig{
		APIKey:  key,
		BaseURL: a.config.GetString("modules.chat.base_url"),
		Timeout: a.config.GetSecond("modules.chat.timeout_second"),
	})
	if err != nil {
		slog.Error("failed to init chat completer", "error", err)
		os.Exit(1)
	}

	a.completer = completer
}

func (a *App) initMessaging() {
	driver := a.config.GetString("messaging.driver")
	client, err := messaging.NewFromDriver(a.ctx, driver, messaging.FactoryOptions{
		NSQ: messaging.NSQConfig{
			ProducerAddr: a.config.GetString("messaging.nsq.producer_addr"),
			ProducerConfig: func() *nsq.Config {
				cfg := nsq.NewConfig()
				cfg.MaxInFlight = a.config.GetInt("messaging.nsq.producer_config.max_in_flight")
				cfg.DialTimeout = a.config.GetSecond("messaging.nsq.producer_config.dial_timeout_seconds")
				cfg.ReadTimeout = a.config.GetSecond("messaging.nsq.producer_config.read_timeout_seconds")
				cfg.WriteTimeout = a.config.GetSecond("messaging.nsq.producer_config.write_timeout_seconds")
				return cfg
			}(),
		},
		Kafka: messaging.KafkaConfig{
			Brokers:      a.config.GetArray("messaging.kafka.brokers"),
			BatchTimeout: a.config.GetSecond("messaging.kafka.batch_timeout_seconds"),
		},
		NATS: messaging.NATSConfig{
			URL: a.config.GetString("messaging.nats.url"),
			Options: []nats.Option{
				nats.Name(a.config.GetString("messaging.nats.name")),
				nats.MaxReconnects(a.config.GetInt("messaging.nats.max_reconnects")),
				nats.Timeout(a.config.GetSecond("messaging.nats.timeout_seconds")),
				nats.ReconnectWait(a.config.GetSecond("messaging.nats.reconnect_wait_seconds")),
				nats.PingInterval(a.config.GetSecond("messaging.nats.ping_interval_seconds")),
				nats.MaxPingsOutstanding(a.config.GetInt("messaging.nats.max_pings_outstanding")),
				nats.RetryOnFailedConnect(a.config.GetBool("messaging.nats.retry_on_failed_connect")),
			},
		},
		PubSub: messaging.PubSubConfig{
			ProjectID: a.config.GetString("messaging.pubsub.project_id"),
		},
	})
	if err != nil {
		slog.Error("failed to init messaging", "error", err, "driver", driver)
		os.Exit(1)
	}

	a.messaging = client
}

func (a *App) initHTTPServer() {
	a.router = router.NewRouter(router.Config{
		Config:     a.config,
		UUID:       a.uuid,
		Instrument: a.ins,
	})

	routerWithCORS := cors.New(cors.Options{
		AllowedOrigins: a.config.GetArray("app.server.cors"),
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler(a.router)

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("app.server.http.address"),
		Handler:           routerWithCORS,
		ReadTimeout:       a.config.GetSecond("app.server.http.read_timeout_seconds"),
		ReadHeaderTimeout: a.config.GetSecond("app.server.http.read_header_timeout_seconds"),
		WriteTimeout:      a.config.GetSecond("app.server.http.write_timeout_seconds"),
		IdleTimeout:       a.config.GetSecond("app.server.http.idle_timeout_seconds"),
	}
}

func (a *App) initClosers() {
	a.closers = []struct {
		name string
		fn   func(context.Context) error
	}{
		{
			name: "Instrument",
			fn: func(ctx context.Context) error {
				return a.ins.Shutdown(ctx)
			},
		},
		{
			name: "Messaging",
			fn: func(context.Context) error {
				return a.messaging.Close()
			},
		},
		{
			name: "Store",
			fn: func(context.Context) error {
				return a.store.Close()
			},
		},
		{
			name: "Redis",
			fn: func(context.Context) error {
				if a.cacheConn == nil {
					return nil
				}

				return a.cacheConn.Close()
			},
		},
		{
			name: "SMS",
			fn: func(context.Context) error {
				return a.sms.Close()
			},
		},
		{
			name: "Chat",
			fn: func(context.Context) error {
				return a.completer.Close()
			},
		},
		{
			name: "Config",
			fn: func(context.Context) error {
				return a.config.Close()
			},
		},
	}
}
