package app

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/cucumber/godog"

	"github.com/jsamuelsen/quote-sync/internal/adapters/storage"
	"github.com/jsamuelsen/quote-sync/internal/codec"
	"github.com/jsamuelsen/quote-sync/internal/domain"
	"github.com/jsamuelsen/quote-sync/internal/ports"
)

// stubSource serves a fixed batch or a fixed error.
type stubSource struct {
	name  string
	batch []domain.Quote
	err   error
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) FetchQuotes(context.Context) (*ports.RemoteBatch, error) {
	if s.err != nil {
		return nil, s.err
	}

	return &ports.RemoteBatch{Source: s.name, Quotes: s.batch}, nil
}

// featureContext holds state shared across step definitions within a scenario.
type featureContext struct {
	slots   *storage.MemorySlots
	sources []ports.RemoteSource
	lib     *Library
	last    SyncResult
}

// reset clears state between scenarios.
func (fc *featureContext) reset() {
	fc.slots = storage.NewMemorySlots()
	fc.sources = nil
	fc.lib = nil
	fc.last = SyncResult{}
}

// library builds the library on first use so Given steps can seed slots.
func (fc *featureContext) library(ctx context.Context) (*Library, error) {
	if fc.lib != nil {
		return fc.lib, nil
	}

	lib := NewLibrary(LibraryConfig{
		Slots:  fc.slots,
		Random: &sequence{},
		Logger: discardLogger(),
	})
	if err := lib.Load(ctx); err != nil {
		return nil, fmt.Errorf("loading library: %w", err)
	}

	fc.lib = lib

	return lib, nil
}

func tableQuotes(table *godog.Table) []domain.Quote {
	quotes := make([]domain.Quote, 0, len(table.Rows))
	for _, row := range table.Rows[1:] {
		quotes = append(quotes, domain.Quote{Text: row.Cells[0].Value, Category: row.Cells[1].Value})
	}

	return quotes
}

// InitializeScenario registers step definitions for each scenario.
func InitializeScenario(sc *godog.ScenarioContext) {
	fc := &featureContext{}

	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		fc.reset()
		return ctx, nil
	})

	sc.Step(`^the library holds:$`, fc.theLibraryHolds)
	sc.Step(`^the stored filter is "([^"]*)"$`, fc.theStoredFilterIs)
	sc.Step(`^the remote source "([^"]*)" serves:$`, fc.theRemoteSourceServes)
	sc.Step(`^the remote source "([^"]*)" is unreachable$`, fc.theRemoteSourceIsUnreachable)
	sc.Step(`^a reconcile cycle runs$`, fc.aReconcileCycleRuns)
	sc.Step(`^I import:$`, fc.iImport)
	sc.Step(`^the outcome is "([^"]*)"$`, fc.theOutcomeIs)
	sc.Step(`^(\d+) quotes? (?:was|were) added$`, fc.quotesWereAdded)
	sc.Step(`^the library has (\d+) quotes$`, fc.theLibraryHasQuotes)
	sc.Step(`^the library holds exactly:$`, fc.theLibraryHoldsExactly)
	sc.Step(`^the active filter is "([^"]*)"$`, fc.theActiveFilterIs)
}

func (fc *featureContext) theLibraryHolds(ctx context.Context, table *godog.Table) error {
	data, err := codec.Encode(tableQuotes(table))
	if err != nil {
		return err
	}

	return fc.slots.Write(ctx, ports.SlotQuotes, data)
}

func (fc *featureContext) theStoredFilterIs(ctx context.Context, filter string) error {
	return fc.slots.Write(ctx, ports.SlotFilter, []byte(filter))
}

func (fc *featureContext) theRemoteSourceServes(name string, table *godog.Table) error {
	fc.sources = append(fc.sources, &stubSource{name: name, batch: tableQuotes(table)})
	return nil
}

func (fc *featureContext) theRemoteSourceIsUnreachable(name string) error {
	fc.sources = append(fc.sources, &stubSource{
		name: name,
		err:  domain.NewTransportError(name, "connection refused"),
	})

	return nil
}

func (fc *featureContext) aReconcileCycleRuns(ctx context.Context) error {
	lib, err := fc.library(ctx)
	if err != nil {
		return err
	}

	fc.last = NewReconciler(ReconcilerConfig{
		Library: lib,
		Sources: fc.sources,
		Logger:  discardLogger(),
	}).RunOnce(ctx)

	return nil
}

func (fc *featureContext) iImport(ctx context.Context, payload *godog.DocString) error {
	lib, err := fc.library(ctx)
	if err != nil {
		return err
	}

	_, err = lib.Import(ctx, []byte(payload.Content))

	return err
}

func (fc *featureContext) theOutcomeIs(want string) error {
	if string(fc.last.Outcome) != want {
		return fmt.Errorf("expected outcome %q, got %q", want, fc.last.Outcome)
	}

	return nil
}

func (fc *featureContext) quotesWereAdded(want int) error {
	if fc.last.Added != want {
		return fmt.Errorf("expected %d added, got %d", want, fc.last.Added)
	}

	return nil
}

func (fc *featureContext) theLibraryHasQuotes(ctx context.Context, want int) error {
	lib, err := fc.library(ctx)
	if err != nil {
		return err
	}

	if got := lib.Len(); got != want {
		return fmt.Errorf("expected %d quotes, got %d", want, got)
	}

	return nil
}

func (fc *featureContext) theLibraryHoldsExactly(ctx context.Context, table *godog.Table) error {
	lib, err := fc.library(ctx)
	if err != nil {
		return err
	}

	want := tableQuotes(table)
	got := lib.Quotes()

	if len(got) != len(want) {
		return fmt.Errorf("expected %d quotes, got %d: %v", len(want), len(got), got)
	}

	for i := range want {
		if got[i] != want[i] {
			return fmt.Errorf("quote %d: expected %v, got %v", i, want[i], got[i])
		}
	}

	return nil
}

func (fc *featureContext) theActiveFilterIs(ctx context.Context, want string) error {
	lib, err := fc.library(ctx)
	if err != nil {
		return err
	}

	if _, got := lib.Categories(); got != want {
		return fmt.Errorf("expected filter %q, got %q", want, got)
	}

	return nil
}

// TestFeatures runs the GoDog BDD test suite.
func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"testdata/features"},
			TestingT: t,
			Tags:     os.Getenv("GODOG_TAGS"),
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
