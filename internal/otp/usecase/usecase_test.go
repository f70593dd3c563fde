package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/passgate/internal/otp/store"
	"github.com/shandysiswandi/passgate/internal/pkg/goerror"
	"github.com/shandysiswandi/passgate/internal/pkg/hash"
	"github.com/shandysiswandi/passgate/internal/pkg/instrument"
	"github.com/shandysiswandi/passgate/internal/pkg/validator"
)

const testPhone = "+15550001111"

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.now = f.now.Add(d)
}

type fixedGenerator struct {
	code string
	err  error
}

func (f fixedGenerator) Generate() (string, error) {
	return f.code, f.err
}

type fakeSender struct {
	enabled bool
	err     error

	mu    sync.Mutex
	sent  []string
	codes []string
}

func (f *fakeSender) Enabled() bool { return f.enabled }

func (f *fakeSender) SendCode(_ context.Context, phone, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}

	f.sent = append(f.sent, phone)
	f.codes = append(f.codes, code)
	return nil
}

type fakeMessaging struct {
	mu       sync.Mutex
	issued   []OTPIssuedEvent
	verified []OTPVerifiedEvent
}

func (f *fakeMessaging) PublishOTPIssued(_ context.Context, msg OTPIssuedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.issued = append(f.issued, msg)
	return nil
}

func (f *fakeMessaging) PublishOTPVerified(_ context.Context, msg OTPVerifiedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.verified = append(f.verified, msg)
	return nil
}

func (f *fakeMessaging) lastOutcome() string {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.verified) == 0 {
		return ""
	}
	return f.verified[len(f.verified)-1].Outcome
}

type fakeConfig struct {
	ints    map[string]int
	seconds map[string]time.Duration
	strings map[string]string
}

func (fakeConfig) Close() error                   { return nil }
func (fakeConfig) GetBool(string) bool            { return false }
func (fakeConfig) GetFloat64(string) float64      { return 0 }
func (fakeConfig) GetArray(string) []string       { return nil }
func (fakeConfig) GetMinute(string) time.Duration { return 0 }

func (f fakeConfig) GetInt(key string) int {
	return f.ints[key]
}

func (f fakeConfig) GetSecond(key string) time.Duration {
	return f.seconds[key]
}

func (f fakeConfig) GetString(key string) string {
	return f.strings[key]
}

type fixture struct {
	uc    *Usecase
	clock *fakeClock
	store *store.Memory
	send  *fakeSender
	msg   *fakeMessaging
	cfg   *fakeConfig
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	v10, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}

	clk := &fakeClock{now: time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)}
	mem := store.NewMemory(clk, 0)
	send := &fakeSender{enabled: true}
	msg := &fakeMessaging{}
	cfg := &fakeConfig{
		ints:    map[string]int{},
		seconds: map[string]time.Duration{"modules.otp.default_ttl_second": 5 * time.Minute},
		strings: map[string]string{},
	}

	uc := New(Dependency{
		RepoStore:     mem,
		RepoSender:    send,
		RepoMessaging: msg,
		Validator:     v10,
		Config:        cfg,
		HMAC:          hash.NewHMACSHA256("test-secret"),
		Generator:     fixedGenerator{code: "042017"},
		Clock:         clk,
		Instrument:    instrument.NewNoop(),
	})

	return &fixture{uc: uc, clock: clk, store: mem, send: send, msg: msg, cfg: cfg}
}

func reasonOf(t *testing.T, err error) string {
	t.Helper()

	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("error %v is not a structured error", err)
	}

	return gerr.Reason()
}

func statusOf(t *testing.T, err error) int {
	t.Helper()

	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("error %v is not a structured error", err)
	}

	return gerr.StatusCode()
}
