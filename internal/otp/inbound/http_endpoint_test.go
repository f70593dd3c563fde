package inbound

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shandysiswandi/passgate/internal/otp/usecase"
	"github.com/shandysiswandi/passgate/internal/pkg/goerror"
	"github.com/shandysiswandi/passgate/internal/pkg/instrument"
	"github.com/shandysiswandi/passgate/internal/pkg/router"
	"github.com/shandysiswandi/passgate/internal/pkg/uid"
)

type fakeUC struct {
	issueOut  *usecase.IssueOutput
	issueErr  error
	verifyOut *usecase.VerifyOutput
	verifyErr error
}

func (f *fakeUC) Issue(context.Context, usecase.IssueInput) (*usecase.IssueOutput, error) {
	return f.issueOut, f.issueErr
}

func (f *fakeUC) Verify(context.Context, usecase.VerifyInput) (*usecase.VerifyOutput, error) {
	return f.verifyOut, f.verifyErr
}

type fakeConfig struct{}

func (fakeConfig) Close() error                   { return nil }
func (fakeConfig) GetBool(string) bool            { return false }
func (fakeConfig) GetInt(string) int              { return 0 }
func (fakeConfig) GetFloat64(string) float64      { return 0 }
func (fakeConfig) GetString(string) string        { return "" }
func (fakeConfig) GetArray(string) []string       { return nil }
func (fakeConfig) GetSecond(string) time.Duration { return 0 }
func (fakeConfig) GetMinute(string) time.Duration { return 0 }

func newTestRouter(uc uc) *router.Router {
	r := router.NewRouter(router.Config{
		Config:     fakeConfig{},
		UUID:       uid.NewUUID(),
		Instrument: instrument.NewNoop(),
	})
	RegisterHTTPEndpoint(r, uc)

	return r
}

func TestIssueEndpoint(t *testing.T) {
	r := newTestRouter(&fakeUC{issueOut: &usecase.IssueOutput{Issued: true, ExpiresAt: 1767366245}})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/otp/issue", strings.NewReader(`{"phone":"+15550001111"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var env struct {
		Message string        `json:"message"`
		Data    IssueResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if !env.Data.Issued {
		t.Fatal("data.issued = false, want true")
	}
	if env.Data.ExpiresAt != 1767366245 {
		t.Fatalf("data.expires_at = %d, want 1767366245", env.Data.ExpiresAt)
	}
}

func TestIssueEndpointMalformedBody(t *testing.T) {
	r := newTestRouter(&fakeUC{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/otp/issue", strings.NewReader(`{"phone":`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestVerifyEndpointErrorReason(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantReason string
	}{
		{
			name:       "no challenge",
			err:        goerror.NewBusinessReason("No passcode was requested for this phone", usecase.ReasonNoChallenge, goerror.CodeNotFound),
			wantStatus: http.StatusNotFound,
			wantReason: usecase.ReasonNoChallenge,
		},
		{
			name:       "expired",
			err:        goerror.NewBusinessReason("The passcode has expired", usecase.ReasonExpired, goerror.CodeInvalidInput),
			wantStatus: http.StatusUnprocessableEntity,
			wantReason: usecase.ReasonExpired,
		},
		{
			name:       "mismatch",
			err:        goerror.NewBusinessReason("The passcode is incorrect", usecase.ReasonMismatch, goerror.CodeUnauthorized),
			wantStatus: http.StatusUnauthorized,
			wantReason: usecase.ReasonMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(&fakeUC{verifyErr: tt.err})

			req := httptest.NewRequest(http.MethodPost, "/api/v1/otp/verify", strings.NewReader(`{"phone":"+15550001111","code":"042017"}`))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d, body %s", rec.Code, tt.wantStatus, rec.Body.String())
			}

			var env struct {
				Message string `json:"message"`
				Reason  string `json:"reason"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
				t.Fatalf("decode envelope: %v", err)
			}
			if env.Reason != tt.wantReason {
				t.Fatalf("reason = %q, want %q", env.Reason, tt.wantReason)
			}
		})
	}
}

func TestVerifyEndpointSuccess(t *testing.T) {
	r := newTestRouter(&fakeUC{verifyOut: &usecase.VerifyOutput{Verified: true}})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/otp/verify", strings.NewReader(`{"phone":"+15550001111","code":"042017"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var env struct {
		Data VerifyResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if !env.Data.Verified {
		t.Fatal("data.verified = false, want true")
	}
}
