package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

type testMessage struct{}

func (testMessage) Type() string { return "codeimport.test.message" }

func (testMessage) Validate() error { return nil }

type invalidMessage struct{}

func (invalidMessage) Type() string { return "codeimport.test.invalid" }

func (invalidMessage) Validate() error {
	return validationError()
}

func validationError() error {
	return errors.New("invalid")
}

func TestHandlerExecuteSuccess(t *testing.T) {
	called := false
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		called = true
		return nil
	})

	if err := h.Execute(context.Background(), testMessage{}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !called {
		t.Fatal("expected handler to be invoked")
	}
}

func TestHandlerValidationShortCircuitsExecution(t *testing.T) {
	called := false
	h := NewHandler[invalidMessage](func(ctx context.Context, msg invalidMessage) error {
		called = true
		return nil
	})

	err := h.Execute(context.Background(), invalidMessage{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when validation fails")
	}
}

func TestHandlerContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		called = true
		return nil
	})

	err := h.Execute(ctx, testMessage{})
	if err == nil {
		t.Fatal("expected context cancellation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when context is cancelled")
	}
}

func TestHandlerWrapsExecutionError(t *testing.T) {
	execErr := errors.New("boom")
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return execErr
	})

	err := h.Execute(context.Background(), testMessage{})
	if err == nil {
		t.Fatal("expected wrapped execution error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if !goerrors.HasCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category to propagate, got %v", err)
	}
}

func TestHandlerHonoursTimeoutOption(t *testing.T) {
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(20 * time.Millisecond):
			return nil
		}
	}, WithTimeout[testMessage](10*time.Millisecond))

	err := h.Execute(context.Background(), testMessage{})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category for timeout, got %v", err)
	}
}

func TestHandlerTelemetryReceivesOutcome(t *testing.T) {
	var got []TelemetryInfo
	execErr := errors.New("boom")
	fail := false
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		if fail {
			return execErr
		}
		return nil
	},
		WithOperation[testMessage]("render.document"),
		WithMessageFields(func(testMessage) map[string]any {
			return map[string]any{"path": "notes/a.md"}
		}),
		WithTelemetry[testMessage](func(_ context.Context, _ testMessage, info TelemetryInfo) {
			got = append(got, info)
		}),
	)

	if err := h.Execute(context.Background(), testMessage{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fail = true
	if err := h.Execute(context.Background(), testMessage{}); err == nil {
		t.Fatal("expected execution error")
	}

	if len(got) != 2 {
		t.Fatalf("expected two telemetry calls, got %d", len(got))
	}
	if got[0].Status != TelemetryStatusSuccess || got[0].Error != nil {
		t.Fatalf("unexpected success info: %+v", got[0])
	}
	if got[0].Command != "codeimport.test.message" || got[0].Operation != "render.document" {
		t.Fatalf("unexpected command identity: %+v", got[0])
	}
	if got[0].Fields["path"] != "notes/a.md" {
		t.Fatalf("expected message fields to be merged, got %v", got[0].Fields)
	}
	if got[1].Status != TelemetryStatusFailed || !errors.Is(got[1].Error, execErr) {
		t.Fatalf("unexpected failure info: %+v", got[1])
	}
}

func TestHandlerTelemetryReportsTimeout(t *testing.T) {
	var status TelemetryStatus
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		<-ctx.Done()
		return ctx.Err()
	},
		WithTimeout[testMessage](5*time.Millisecond),
		WithTelemetry[testMessage](func(_ context.Context, _ testMessage, info TelemetryInfo) {
			status = info.Status
		}),
	)

	if err := h.Execute(context.Background(), testMessage{}); err == nil {
		t.Fatal("expected timeout error")
	}
	if status != TelemetryStatusContextError {
		t.Fatalf("expected context_error status, got %q", status)
	}
}

func TestCommandLoggerDefaultsToNoOp(t *testing.T) {
	logger := CommandLogger(nil, "  ")
	if logger == nil {
		t.Fatal("expected non-nil logger")
	}
	DefaultTelemetry[testMessage](nil)(context.Background(), testMessage{}, TelemetryInfo{Status: TelemetryStatusSuccess})
}

func TestHandlerReportsMissingTargetsAsNotFound(t *testing.T) {
	missing := goerrors.New("document not found: notes/a.md", goerrors.CategoryNotFound)
	var status TelemetryStatus
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return missing
	}, WithTelemetry[testMessage](func(_ context.Context, _ testMessage, info TelemetryInfo) {
		status = info.Status
	}))

	err := h.Execute(context.Background(), testMessage{})
	if status != TelemetryStatusNotFound {
		t.Fatalf("expected not_found status, got %q", status)
	}
	if !goerrors.IsCategory(err, goerrors.CategoryNotFound) {
		t.Fatalf("expected not found category to survive, got %v", err)
	}
}

func TestOutcomeErrorTextCodes(t *testing.T) {
	cases := []struct {
		name   string
		status TelemetryStatus
		err    error
		want   string
	}{
		{name: "cancelled", status: TelemetryStatusContextError, err: context.Canceled, want: codeCanceled},
		{name: "deadline", status: TelemetryStatusContextError, err: context.DeadlineExceeded, want: codeDeadline},
		{name: "not found", status: TelemetryStatusNotFound, err: errors.New("missing"), want: codeNotFound},
		{name: "failed", status: TelemetryStatusFailed, err: errors.New("boom"), want: codeRenderFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var rich *goerrors.Error
			if !errors.As(outcomeError(tc.status, tc.err), &rich) {
				t.Fatalf("expected a categorised error")
			}
			if rich.TextCode != tc.want {
				t.Fatalf("expected text code %q, got %q", tc.want, rich.TextCode)
			}
		})
	}
	if outcomeError(TelemetryStatusSuccess, nil) != nil {
		t.Fatal("expected nil for success")
	}
}

func TestHandlerAcceptsNilContext(t *testing.T) {
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		if ctx == nil {
			return errors.New("nil context reached handler")
		}
		return nil
	})
	var ctx context.Context
	if err := h.Execute(ctx, testMessage{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
