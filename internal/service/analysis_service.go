package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"billaudit/internal/charges"
	"billaudit/internal/domain"
	"billaudit/internal/port"
)

// NoAppealNeeded is returned as the appeal draft when validation disputed
// nothing; no advisor call is made in that case.
const NoAppealNeeded = "No disputed charges found. No appeal letter is needed."

// genericAcceptReasoning fills in for codes the advisor did not return a
// verdict for.
const genericAcceptReasoning = "No validation issues found."

// AnalysisService analyzes a medical bill end to end.
type AnalysisService interface {
	AnalyzeBill(ctx context.Context, bill, aftercare string) (*domain.AnalyzeResult, error)
}

type analysisService struct {
	index   *charges.Index
	advisor port.BillAdvisor
	log     zerolog.Logger
}

// NewAnalysisService creates an AnalysisService over a pre-built charge index
// and a bill advisor.
func NewAnalysisService(index *charges.Index, advisor port.BillAdvisor, log zerolog.Logger) AnalysisService {
	return &analysisService{index: index, advisor: advisor, log: log}
}

// AnalyzeBill runs the full pipeline: extract line items, detect duplicates,
// enrich each item with pricing evidence, validate everything in one advisor
// call, then draft an appeal for anything disputed. Each step feeds the next;
// an advisor failure at any stage fails the whole request with
// domain.ErrUpstream. There are no partial results.
func (s *analysisService) AnalyzeBill(ctx context.Context, bill, aftercare string) (*domain.AnalyzeResult, error) {
	items, err := s.advisor.ExtractLineItems(ctx, bill, aftercare)
	if err != nil {
		return nil, fmt.Errorf("%w: extracting line items: %w", domain.ErrUpstream, err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstream, domain.ErrEmptyExtraction)
	}
	s.log.Info().Int("line_items", len(items)).Msg("line items extracted")

	duplicates := charges.DetectDuplicates(items)
	if len(duplicates) > 0 {
		s.log.Info().Interface("duplicates", duplicates).Msg("duplicate codes detected")
	}

	enriched := s.enrich(items, duplicates)

	outcome, err := s.advisor.ValidateCodes(ctx, bill, aftercare, enriched)
	if err != nil {
		return nil, fmt.Errorf("%w: validating codes: %w", domain.ErrUpstream, err)
	}

	analyses, savings := merge(items, outcome)
	s.log.Info().
		Int("disputed", countDisputed(analyses)).
		Float64("savings", savings).
		Msg("validation merged")

	appeal, err := s.draftAppeal(ctx, bill, aftercare, outcome.OverallReasoning, analyses)
	if err != nil {
		return nil, fmt.Errorf("%w: drafting appeal: %w", domain.ErrUpstream, err)
	}

	return &domain.AnalyzeResult{
		Codes:            analyses,
		Savings:          savings,
		AppealDraft:      appeal,
		OverallReasoning: outcome.OverallReasoning,
	}, nil
}

// enrich bundles each line item with its parsed charge, exact pricing, and,
// when the code is known and carries a positive charge, cheaper alternatives.
func (s *analysisService) enrich(items []domain.LineItem, duplicates map[string]int) []port.EnrichedLineItem {
	enriched := make([]port.EnrichedLineItem, 0, len(items))
	for _, item := range items {
		billed := charges.ParseCharge(item.Charge)
		pricing := s.index.Lookup(item.Code, "", "")

		e := port.EnrichedLineItem{
			Code:            item.Code,
			Description:     item.Description,
			BilledCharge:    billed,
			Units:           item.Units,
			RevenueCode:     item.RevenueCode,
			DuplicateCount:  duplicates[item.Code],
			StandardPricing: pricing,
		}
		if pricing.Found && item.Description != "" && billed > 0 {
			e.CheaperAlternatives = s.index.FindCheaperAlternatives(
				item.Description, billed, charges.DefaultAlternativeLimit)
		}
		enriched = append(enriched, e)
	}
	return enriched
}

// merge attaches the advisor's per-code verdict to every physical line-item
// occurrence, keeping repeats separate. Codes without a verdict default to
// accepted. Savings is the sum of billed charges across disputed instances.
func merge(items []domain.LineItem, outcome *port.ValidationOutcome) ([]domain.CodeAnalysis, float64) {
	verdicts := make(map[string]port.CodeValidation, len(outcome.Validations))
	for _, v := range outcome.Validations {
		verdicts[v.Code] = v
	}

	analyses := make([]domain.CodeAnalysis, 0, len(items))
	var savings float64
	for _, item := range items {
		v, ok := verdicts[item.Code]
		if !ok {
			v = port.CodeValidation{
				Code:      item.Code,
				Status:    domain.StatusAccepted,
				Reasoning: genericAcceptReasoning,
			}
		}

		billed := charges.ParseCharge(item.Charge)
		if v.Status == domain.StatusDisputed {
			savings += billed
		}

		analyses = append(analyses, domain.CodeAnalysis{
			Code:         item.Code,
			Description:  item.Description,
			RevenueCode:  item.RevenueCode,
			Status:       v.Status,
			Reasoning:    v.Reasoning,
			BilledCharge: billed,
		})
	}
	return analyses, savings
}

// draftAppeal short-circuits to a fixed message when nothing was disputed,
// otherwise asks the advisor for a letter.
func (s *analysisService) draftAppeal(ctx context.Context, bill, aftercare, overallReasoning string, analyses []domain.CodeAnalysis) (string, error) {
	var disputed []port.DisputedItem
	for _, a := range analyses {
		if a.Status != domain.StatusDisputed {
			continue
		}
		disputed = append(disputed, port.DisputedItem{
			Code:         a.Code,
			Description:  a.Description,
			BilledCharge: a.BilledCharge,
			Reasoning:    a.Reasoning,
		})
	}
	if len(disputed) == 0 {
		return NoAppealNeeded, nil
	}
	return s.advisor.DraftAppeal(ctx, bill, aftercare, overallReasoning, disputed)
}

func countDisputed(analyses []domain.CodeAnalysis) int {
	n := 0
	for _, a := range analyses {
		if a.Status == domain.StatusDisputed {
			n++
		}
	}
	return n
}
