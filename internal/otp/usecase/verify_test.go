package usecase

import (
	"context"
	"net/http"
	"testing"
	"time"
)

func issue(t *testing.T, fx *fixture) {
	t.Helper()

	if _, err := fx.uc.Issue(context.Background(), IssueInput{Phone: testPhone}); err != nil {
		t.Fatalf("Issue: %v", err)
	}
}

func TestVerifyHappyPathIsSingleUse(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	issue(t, fx)

	out, err := fx.uc.Verify(ctx, VerifyInput{Phone: testPhone, Code: "042017"})
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !out.Verified {
		t.Fatal("Verify().Verified = false, want true")
	}
	if got := fx.msg.lastOutcome(); got != OutcomeVerified {
		t.Fatalf("last outcome = %q, want %q", got, OutcomeVerified)
	}

	// The challenge was consumed. A replay of the same code fails.
	_, err = fx.uc.Verify(ctx, VerifyInput{Phone: testPhone, Code: "042017"})
	if err == nil {
		t.Fatal("Verify replay error = nil, want no challenge")
	}
	if got := reasonOf(t, err); got != ReasonNoChallenge {
		t.Fatalf("reason = %q, want %q", got, ReasonNoChallenge)
	}
	if got := statusOf(t, err); got != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", got, http.StatusNotFound)
	}
}

func TestVerifyBeforeIssue(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.uc.Verify(context.Background(), VerifyInput{Phone: testPhone, Code: "042017"})
	if err == nil {
		t.Fatal("Verify() error = nil, want no challenge")
	}
	if got := reasonOf(t, err); got != ReasonNoChallenge {
		t.Fatalf("reason = %q, want %q", got, ReasonNoChallenge)
	}
}

func TestVerifyMismatchKeepsChallenge(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	issue(t, fx)

	_, err := fx.uc.Verify(ctx, VerifyInput{Phone: testPhone, Code: "999999"})
	if err == nil {
		t.Fatal("Verify() error = nil, want mismatch")
	}
	if got := reasonOf(t, err); got != ReasonMismatch {
		t.Fatalf("reason = %q, want %q", got, ReasonMismatch)
	}
	if got := statusOf(t, err); got != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", got, http.StatusUnauthorized)
	}
	if got := fx.msg.lastOutcome(); got != OutcomeMismatch {
		t.Fatalf("last outcome = %q, want %q", got, OutcomeMismatch)
	}

	// The challenge survives the mismatch and the right code still works.
	out, err := fx.uc.Verify(ctx, VerifyInput{Phone: testPhone, Code: "042017"})
	if err != nil {
		t.Fatalf("Verify after mismatch: %v", err)
	}
	if !out.Verified {
		t.Fatal("Verify().Verified = false, want true")
	}
}

func TestVerifyExpired(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	if _, err := fx.uc.Issue(ctx, IssueInput{Phone: testPhone}); err != nil {
		t.Fatalf("Issue: %v", err)
	}

	fx.clock.Advance(301 * time.Second)

	_, err := fx.uc.Verify(ctx, VerifyInput{Phone: testPhone, Code: "042017"})
	if err == nil {
		t.Fatal("Verify() error = nil, want expired")
	}
	if got := reasonOf(t, err); got != ReasonExpired {
		t.Fatalf("reason = %q, want %q", got, ReasonExpired)
	}
	if got := statusOf(t, err); got != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", got, http.StatusUnprocessableEntity)
	}
	if got := fx.msg.lastOutcome(); got != OutcomeExpired {
		t.Fatalf("last outcome = %q, want %q", got, OutcomeExpired)
	}

	// Expiry removed the entry, a retry now reports no challenge.
	_, err = fx.uc.Verify(ctx, VerifyInput{Phone: testPhone, Code: "042017"})
	if got := reasonOf(t, err); got != ReasonNoChallenge {
		t.Fatalf("reason after expiry = %q, want %q", got, ReasonNoChallenge)
	}
}

func TestVerifyAtExactDeadlineSucceeds(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	if _, err := fx.uc.Issue(ctx, IssueInput{Phone: testPhone}); err != nil {
		t.Fatalf("Issue: %v", err)
	}

	fx.clock.Advance(300 * time.Second)

	out, err := fx.uc.Verify(ctx, VerifyInput{Phone: testPhone, Code: "042017"})
	if err != nil {
		t.Fatalf("Verify at deadline: %v", err)
	}
	if !out.Verified {
		t.Fatal("Verify().Verified = false, want true")
	}
}

func TestVerifyReissueInvalidatesOldCode(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	issue(t, fx)

	// Re-issue with a different code. The first code must stop working.
	fx.uc.generator = fixedGenerator{code: "777777"}
	issue(t, fx)

	_, err := fx.uc.Verify(ctx, VerifyInput{Phone: testPhone, Code: "042017"})
	if err == nil {
		t.Fatal("Verify old code error = nil, want mismatch")
	}
	if got := reasonOf(t, err); got != ReasonMismatch {
		t.Fatalf("reason = %q, want %q", got, ReasonMismatch)
	}

	out, err := fx.uc.Verify(ctx, VerifyInput{Phone: testPhone, Code: "777777"})
	if err != nil {
		t.Fatalf("Verify new code: %v", err)
	}
	if !out.Verified {
		t.Fatal("Verify().Verified = false, want true")
	}
}

func TestVerifyMaxAttempts(t *testing.T) {
	fx := newFixture(t)
	fx.cfg.ints["modules.otp.max_attempts"] = 3
	ctx := context.Background()
	issue(t, fx)

	for i := range 2 {
		_, err := fx.uc.Verify(ctx, VerifyInput{Phone: testPhone, Code: "999999"})
		if got := reasonOf(t, err); got != ReasonMismatch {
			t.Fatalf("attempt %d reason = %q, want %q", i+1, got, ReasonMismatch)
		}
	}

	_, err := fx.uc.Verify(ctx, VerifyInput{Phone: testPhone, Code: "999999"})
	if got := reasonOf(t, err); got != ReasonTooManyAttempts {
		t.Fatalf("reason = %q, want %q", got, ReasonTooManyAttempts)
	}
	if got := statusOf(t, err); got != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want %d", got, http.StatusTooManyRequests)
	}
	if got := fx.msg.lastOutcome(); got != OutcomeTooManyAttempts {
		t.Fatalf("last outcome = %q, want %q", got, OutcomeTooManyAttempts)
	}

	// The exhausted challenge is gone, even for the right code.
	_, err = fx.uc.Verify(ctx, VerifyInput{Phone: testPhone, Code: "042017"})
	if got := reasonOf(t, err); got != ReasonNoChallenge {
		t.Fatalf("reason after exhaustion = %q, want %q", got, ReasonNoChallenge)
	}
}

func TestVerifyValidation(t *testing.T) {
	fx := newFixture(t)

	tests := []struct {
		name string
		in   VerifyInput
	}{
		{name: "empty phone", in: VerifyInput{Code: "042017"}},
		{name: "empty code", in: VerifyInput{Phone: testPhone}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := fx.uc.Verify(context.Background(), tt.in); err == nil {
				t.Fatal("Verify() error = nil, want validation error")
			}
		})
	}
}

func TestVerifyMalformedCodeIsMismatch(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	issue(t, fx)

	// Submissions of any shape go through the digest comparison, so a
	// non-numeric or short code is a plain mismatch, never a 422.
	for _, code := range []string{"abcdef", "042", "042017-extra"} {
		_, err := fx.uc.Verify(ctx, VerifyInput{Phone: testPhone, Code: code})
		if got := reasonOf(t, err); got != ReasonMismatch {
			t.Fatalf("Verify(code=%q) reason = %q, want %q", code, got, ReasonMismatch)
		}
	}
}
