package importer

import (
	"io"
	"time"

	"github.com/findosh/folio/internal/models"
	"github.com/sirupsen/logrus"
)

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func init() {
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)
	SetLogger(quiet)
}

func newTestParser() *Parser {
	return NewParser(DefaultAliases(), models.FixedClock(testNow))
}

func newTestService() *Service {
	return NewService(&models.SequenceGenerator{Prefix: "id"}, models.FixedClock(testNow))
}

func position(symbol string) *models.Position {
	return &models.Position{ID: "pos-" + symbol, Symbol: symbol, AssetType: models.AssetTypeEquity}
}

func account(id, name string, t models.AccountType, positions ...*models.Position) *models.Account {
	return &models.Account{ID: id, Name: name, Type: t, Positions: positions}
}
