package importer

import (
	"github.com/findosh/folio/internal/models"
)

// Service bundles the import pipeline: parse, build, detect duplicates, merge
type Service struct {
	parser  *Parser
	builder *Builder
	merger  *Merger
	tagger  *Tagger
}

// NewService creates an import service using the default alias table
func NewService(ids models.IDGenerator, clock models.Clock) *Service {
	return &Service{
		parser:  NewParser(DefaultAliases(), clock),
		builder: NewBuilder(ids, clock),
		merger:  NewMerger(ids, clock),
		tagger:  NewTagger(),
	}
}

// ParseCSV validates CSV text
func (s *Service) ParseCSV(text string) *ParseResult {
	return s.parser.ParseCSV(text)
}

// BuildPortfolio builds a portfolio from validated rows
func (s *Service) BuildPortfolio(rows []models.CSVRow) *BuildResult {
	return s.builder.BuildPortfolio(rows)
}

// MergePortfolios merges imported into existing
func (s *Service) MergePortfolios(existing, imported *models.Portfolio) *models.Portfolio {
	return s.merger.MergePortfolios(existing, imported)
}

// FindDuplicates reports imported symbols already held in matching accounts
func (s *Service) FindDuplicates(existing, imported *models.Portfolio) []Duplicate {
	return FindDuplicates(existing, imported)
}

// Preview is what a caller needs to decide whether to go ahead with an import
type Preview struct {
	Parse      *ParseResult `json:"parse"`
	Build      *BuildResult `json:"build"`
	Duplicates []Duplicate  `json:"duplicates"`

	// Suggestions index into Parse.Rows
	Suggestions []Suggestion `json:"suggestions,omitempty"`
}

// Preview parses text and builds the would-be import without touching existing
func (s *Service) Preview(existing *models.Portfolio, text string) *Preview {
	parsed := s.ParseCSV(text)
	built := s.BuildPortfolio(parsed.Rows)
	return &Preview{
		Parse:       parsed,
		Build:       built,
		Duplicates:  FindDuplicates(existing, built.Portfolio),
		Suggestions: s.tagger.SuggestRows(parsed.Rows),
	}
}

// ImportOptions controls Import
type ImportOptions struct {
	// SkipDuplicates drops imported positions already held in the target account
	SkipDuplicates bool
}

// ImportResult summarizes a completed import
type ImportResult struct {
	Parse             *ParseResult `json:"parse"`
	AccountCount      int          `json:"account_count"`
	PositionCount     int          `json:"position_count"`
	DuplicatesSkipped int          `json:"duplicates_skipped"`
	Messages          []string     `json:"messages"`
}

// Import runs the whole pipeline and merges the result into existing.
// A file-level parse error leaves existing untouched and is returned.
func (s *Service) Import(existing *models.Portfolio, text string, opts ImportOptions) (*ImportResult, error) {
	parsed := s.ParseCSV(text)
	if err := parsed.FileError(); err != nil {
		return &ImportResult{Parse: parsed}, err
	}
	if len(parsed.Rows) == 0 {
		return &ImportResult{Parse: parsed, Messages: []string{ImportSummary(0, 0)}}, ErrNoData
	}

	built := s.BuildPortfolio(parsed.Rows)
	result := &ImportResult{Parse: parsed}
	if opts.SkipDuplicates {
		result.DuplicatesSkipped = SkipDuplicates(existing, built.Portfolio)
	}
	result.AccountCount = built.Portfolio.AccountCount()
	result.PositionCount = built.Portfolio.PositionCount()
	result.Messages = []string{ImportSummary(result.AccountCount, result.PositionCount)}

	s.MergePortfolios(existing, built.Portfolio)
	return result, nil
}
