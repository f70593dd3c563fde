package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/passgate/internal/chat"
	"github.com/shandysiswandi/passgate/internal/otp"
)

func (a *App) initModules() {
	if err := otp.New(otp.Dependency{
		Store:      a.store,
		SMS:        a.sms,
		SMSEnabled: a.smsEnabled,
		Router:     a.router,
		Messaging:  a.messaging,
		Config:     a.config,
		Instrument: a.ins,
		UID:        a.uid,
		HMAC:       a.hmac,
		Generator:  a.generator,
		Clock:      a.clock,
		Validator:  a.validator,
	}); err != nil {
		slog.Error("failed to init module otp", "error", err)
		os.Exit(1)
	}

	if err := chat.New(chat.Dependency{
		Completer:  a.completer,
		Router:     a.router,
		Config:     a.config,
		Instrument: a.ins,
		Validator:  a.validator,
	}); err != nil {
		slog.Error("failed to init module chat", "error", err)
		os.Exit(1)
	}
}
