package logging

import (
	"context"
	"testing"

	"github.com/goliatone/go-booksync/pkg/interfaces"
)

type recordingLogger struct {
	fields   []map[string]any
	contexts []context.Context
}

func (r *recordingLogger) Trace(string, ...any) {}
func (r *recordingLogger) Debug(string, ...any) {}
func (r *recordingLogger) Info(string, ...any)  {}
func (r *recordingLogger) Warn(string, ...any)  {}
func (r *recordingLogger) Error(string, ...any) {}
func (r *recordingLogger) Fatal(string, ...any) {}

func (r *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	r.fields = append(r.fields, copied)
	return r
}

func (r *recordingLogger) WithContext(ctx context.Context) interfaces.Logger {
	r.contexts = append(r.contexts, ctx)
	return r
}

type stubProvider struct {
	requested []string
	logger    interfaces.Logger
}

func (s *stubProvider) GetLogger(name string) interfaces.Logger {
	s.requested = append(s.requested, name)
	return s.logger
}

func TestModuleLoggerFallsBackToNoOp(t *testing.T) {
	logger := ModuleLogger(nil, "booksync.test")
	if _, ok := logger.(noopLogger); !ok {
		t.Fatalf("expected noopLogger fallback, got %T", logger)
	}
	logger = logger.WithContext(context.Background())
	logger.Debug("noop")
}

func TestModuleLoggerUsesProviderAndAnnotatesFields(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	_ = ModuleLogger(provider, mirrorModule)

	if len(provider.requested) != 1 || provider.requested[0] != mirrorModule {
		t.Fatalf("expected module %s, got %v", mirrorModule, provider.requested)
	}
	if len(rec.fields) != 1 {
		t.Fatalf("expected module fields applied once, got %d", len(rec.fields))
	}
	if got := rec.fields[0]["module"]; got != mirrorModule {
		t.Fatalf("expected module field %s, got %v", mirrorModule, got)
	}
}

func TestModuleLoggerDefaultsToRootModule(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	_ = ModuleLogger(provider, "")

	if len(provider.requested) != 1 || provider.requested[0] != rootModule {
		t.Fatalf("expected default module %s, got %v", rootModule, provider.requested)
	}
}

func TestNamedLoggersRequestTheirModules(t *testing.T) {
	cases := map[string]func(interfaces.LoggerProvider) interfaces.Logger{
		rootModule:     RootLogger,
		chaptersModule: ChaptersLogger,
		mirrorModule:   MirrorLogger,
		indexModule:    IndexLogger,
		watchModule:    WatchLogger,
		hugoModule:     HugoLogger,
	}
	for module, fn := range cases {
		provider := &stubProvider{logger: &recordingLogger{}}
		_ = fn(provider)
		if len(provider.requested) != 1 || provider.requested[0] != module {
			t.Fatalf("expected %s request, got %v", module, provider.requested)
		}
	}
}

func TestWithChapterContextSkipsEmptyValues(t *testing.T) {
	rec := &recordingLogger{}

	WithChapterContext(rec, " 01 - Intro.md ", 0, "")

	if len(rec.fields) != 1 {
		t.Fatalf("expected one field set, got %d", len(rec.fields))
	}
	fields := rec.fields[0]
	if fields[fieldChapterFile] != "01 - Intro.md" {
		t.Fatalf("expected trimmed file, got %v", fields[fieldChapterFile])
	}
	if _, ok := fields[fieldChapterNumber]; ok {
		t.Fatalf("expected number to be skipped, got %v", fields)
	}
	if _, ok := fields[fieldSyncAction]; ok {
		t.Fatalf("expected action to be skipped, got %v", fields)
	}
}

func TestWithRunIDIgnoresBlank(t *testing.T) {
	rec := &recordingLogger{}
	if got := WithRunID(rec, "  "); got != rec {
		t.Fatalf("expected logger returned unchanged")
	}
	if len(rec.fields) != 0 {
		t.Fatalf("expected no fields, got %v", rec.fields)
	}
}

func TestContextWithFieldsMerges(t *testing.T) {
	ctx := ContextWithFields(context.Background(), map[string]any{"a": 1, "b": 1})
	ctx = ContextWithFields(ctx, map[string]any{"b": 2})

	fields := ContextFields(ctx)
	if fields["a"] != 1 || fields["b"] != 2 {
		t.Fatalf("unexpected merged fields: %v", fields)
	}

	fields["a"] = 99
	if ContextFields(ctx)["a"] != 1 {
		t.Fatalf("expected ContextFields to return a copy")
	}
}
