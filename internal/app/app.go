package app

import (
	"context"
	"net/http"

	"github.com/redis/go-redis/v9"
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

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	hmac      hash.Hash
	uid       uid.NumberID
	uuid      uid.StringID
	generator passcode.Generator

	// resources
	cacheConn  *redis.Client
	store      store.Store
	sms        sms.Sender
	smsEnabled bool
	completer  llm.Completer
	messaging  messaging.Publisher

	// server
	router     *router.Router
	httpServer *http.Server

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initCache()
	app.initStore()
	app.initSMS()
	app.initChat()
	app.initMessaging()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
