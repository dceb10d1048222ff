package importer

import (
	"errors"
	"testing"

	"github.com/findosh/folio/internal/models"
)

const sampleCSV = "Account,Account Type,Asset Name,Symbol,Units,Price,Currency\n" +
	"My ISA,ISA,Vanguard S&P 500,VUSA.L,10,80.5,GBP\n" +
	"My ISA,ISA,Vanguard All-World,VWRL.L,5,100,GBP\n" +
	"Broker,GIA,Apple,AAPL,2,190,USD\n" +
	"Broker,GIA,Broken,BRK,abc,1,USD\n"

func existingPortfolio() *models.Portfolio {
	return &models.Portfolio{ID: "p1", Name: "Main", Accounts: []*models.Account{
		account("a1", "my isa", models.AccountTypeISA, position("vusa.l")),
	}}
}

func TestService_Preview(t *testing.T) {
	existing := existingPortfolio()

	preview := newTestService().Preview(existing, sampleCSV)

	if len(preview.Parse.Rows) != 3 || len(preview.Parse.Errors) != 1 {
		t.Errorf("Expected 3 rows and 1 error, got %d and %d", len(preview.Parse.Rows), len(preview.Parse.Errors))
	}
	if preview.Build.AccountCount != 2 || preview.Build.PositionCount != 3 {
		t.Errorf("Unexpected build counts %d/%d", preview.Build.AccountCount, preview.Build.PositionCount)
	}
	if len(preview.Duplicates) != 1 || preview.Duplicates[0].Symbol != "VUSA.L" {
		t.Errorf("Expected VUSA.L duplicate, got %+v", preview.Duplicates)
	}
	if existing.PositionCount() != 1 {
		t.Error("Expected preview to leave the existing portfolio alone")
	}
}

func TestService_Import(t *testing.T) {
	existing := existingPortfolio()

	result, err := newTestService().Import(existing, sampleCSV, ImportOptions{})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if result.AccountCount != 2 || result.PositionCount != 3 {
		t.Errorf("Unexpected counts %d/%d", result.AccountCount, result.PositionCount)
	}
	if result.Messages[0] != "Imported 2 accounts with 3 positions" {
		t.Errorf("Unexpected message %q", result.Messages[0])
	}
	if existing.AccountCount() != 2 || existing.PositionCount() != 4 {
		t.Errorf("Expected 2 accounts and 4 positions after merge, got %d/%d", existing.AccountCount(), existing.PositionCount())
	}
	if !existing.UpdatedAt.Equal(testNow) {
		t.Error("Expected UpdatedAt to be set")
	}
}

func TestService_ImportSkipDuplicates(t *testing.T) {
	existing := existingPortfolio()

	result, err := newTestService().Import(existing, sampleCSV, ImportOptions{SkipDuplicates: true})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if result.DuplicatesSkipped != 1 {
		t.Errorf("Expected 1 duplicate skipped, got %d", result.DuplicatesSkipped)
	}
	if result.PositionCount != 2 {
		t.Errorf("Expected 2 imported positions, got %d", result.PositionCount)
	}
	if existing.PositionCount() != 3 {
		t.Errorf("Expected 3 positions after merge, got %d", existing.PositionCount())
	}
}

func TestService_ImportFileError(t *testing.T) {
	existing := existingPortfolio()

	result, err := newTestService().Import(existing, "Account,Symbol\nISA,X", ImportOptions{})

	if !errors.Is(err, ErrMissingColumns) {
		t.Errorf("Expected ErrMissingColumns, got %v", err)
	}
	if result == nil || result.Parse == nil {
		t.Fatal("Expected parse details alongside the error")
	}
	if existing.PositionCount() != 1 || !existing.UpdatedAt.IsZero() {
		t.Error("Expected existing portfolio to be untouched")
	}
}

func TestService_ImportNoValidRows(t *testing.T) {
	existing := existingPortfolio()

	result, err := newTestService().Import(existing, "Account,Asset Name,Symbol,Units,Currency\nISA,Fund,F,bad,GBP", ImportOptions{})

	if !errors.Is(err, ErrNoData) {
		t.Errorf("Expected ErrNoData, got %v", err)
	}
	if len(result.Parse.Errors) != 1 {
		t.Errorf("Expected the row error to be reported, got %v", result.Parse.Errors)
	}
	if result.Messages[0] != "No valid rows to import" {
		t.Errorf("Unexpected message %q", result.Messages[0])
	}
	if existing.PositionCount() != 1 {
		t.Error("Expected existing portfolio to be untouched")
	}
}
