package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
)

type testMessage struct{}

func (testMessage) Type() string { return "catalog.test.message" }

func (testMessage) Validate() error { return nil }

type invalidMessage struct{}

func (invalidMessage) Type() string { return "catalog.test.invalid" }

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

type localeMessage struct {
	Locale string
}

func (localeMessage) Type() string { return "catalog.test.locale" }

func (m localeMessage) Validate() error {
	return validation.ValidateStruct(&m, validation.Field(&m.Locale, validation.Required))
}

func TestHandlerConvertsOzzoValidationErrors(t *testing.T) {
	h := NewHandler[localeMessage](func(ctx context.Context, msg localeMessage) error { return nil })
	err := h.Execute(context.Background(), localeMessage{})
	var typed *goerrors.Error
	if !goerrors.As(err, &typed) {
		t.Fatalf("expected go-errors error, got %T", err)
	}
	if typed.TextCode != commandValidationCode || len(typed.ValidationErrors) != 1 {
		t.Fatalf("unexpected validation error %+v", typed)
	}
	if typed.ValidationErrors[0].Field != "Locale" {
		t.Fatalf("expected Locale field error, got %+v", typed.ValidationErrors)
	}
}

func TestHandlerTelemetryReceivesOutcome(t *testing.T) {
	var infos []TelemetryInfo
	h := NewHandler[localeMessage](func(ctx context.Context, msg localeMessage) error {
		if msg.Locale == "xx" {
			return errors.New("unsupported")
		}
		return nil
	},
		WithOperation[localeMessage]("catalog.switch_locale"),
		WithMessageFields(func(msg localeMessage) map[string]any {
			return map[string]any{"locale": msg.Locale}
		}),
		WithTelemetry(func(_ context.Context, _ localeMessage, info TelemetryInfo) {
			infos = append(infos, info)
		}),
	)

	if err := h.Execute(context.Background(), localeMessage{Locale: "en"}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if err := h.Execute(context.Background(), localeMessage{Locale: "xx"}); err == nil {
		t.Fatal("expected failure")
	}
	if len(infos) != 2 {
		t.Fatalf("expected 2 telemetry calls, got %d", len(infos))
	}
	if infos[0].Status != TelemetryStatusSuccess || infos[0].Fields["locale"] != "en" || infos[0].Operation != "catalog.switch_locale" {
		t.Fatalf("unexpected success info %+v", infos[0])
	}
	if infos[1].Status != TelemetryStatusFailed || !goerrors.IsCategory(infos[1].Error, goerrors.CategoryCommand) {
		t.Fatalf("unexpected failure info %+v", infos[1])
	}
}
