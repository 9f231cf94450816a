// Package narrative generates portfolio commentary, backed by Gemini with a
// rule-based fallback when no generative backend is configured.
package narrative

import (
	"context"
	"fmt"
	"strings"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

// Service implements the NarrativeService interface.
type Service struct {
	gemini interfaces.GeminiClient
	logger *common.Logger
}

// NewService creates the narrative service. gemini may be nil, in which
// case every request uses the rule-based fallback.
func NewService(gemini interfaces.GeminiClient, logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Service{
		gemini: gemini,
		logger: logger,
	}
}

// Commentary produces a 3-5 sentence assessment of the portfolio. The
// generator only sees pre-computed summaries, never raw provider data.
func (s *Service) Commentary(ctx context.Context, req *models.CommentaryRequest) (string, error) {
	if req == nil || len(req.Holdings) == 0 {
		return "Upload a portfolio to see commentary.", nil
	}

	if s.gemini != nil && s.gemini.IsConfigured() {
		text, err := s.gemini.GenerateContent(ctx, buildPrompt(req))
		if err == nil && strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text), nil
		}
		if err != nil {
			s.logger.Warn().Err(err).Msg("Commentary generation failed, using fallback")
		}
	}

	return ruleBasedCommentary(req), nil
}

func buildPrompt(req *models.CommentaryRequest) string {
	var sb strings.Builder

	sb.WriteString("You are a portfolio analyst writing a brief assessment for an investor's dashboard.\n\n")
	sb.WriteString("Based on this portfolio data, write exactly 3-5 sentences in a single paragraph. Cover:\n")
	sb.WriteString("1. Overall sector tilts and what they suggest about the investor's strategy\n")
	sb.WriteString("2. Any concentration risks worth noting\n")
	sb.WriteString("3. One forward-looking observation based on analyst consensus\n\n")
	sb.WriteString("Rules: be specific with numbers from the data. No bullet points, no headers. ")
	sb.WriteString("Keep each sentence under 40 words. Be direct and professional.\n\n")
	sb.WriteString("Portfolio data:\n")

	totalValue := 0.0
	for _, h := range req.Holdings {
		totalValue += h.CurrentValue
	}
	fmt.Fprintf(&sb, "Total portfolio value: $%.0f\n", totalValue)
	fmt.Fprintf(&sb, "Number of holdings: %d\n", len(req.Holdings))
	fmt.Fprintf(&sb, "Sectors covered: %d\n", len(req.BySector))

	sb.WriteString("Top sector allocations:\n")
	for i, sector := range req.BySector {
		if i >= 6 {
			break
		}
		fmt.Fprintf(&sb, "  %s: %.1f%%\n", sector.Sector, sector.Pct)
	}

	sb.WriteString("Largest holdings:\n")
	for i, h := range req.Holdings {
		if i >= 5 {
			break
		}
		fmt.Fprintf(&sb, "  %s: %.1f%% of portfolio\n", h.Symbol, h.PctOfAccount)
	}

	if len(req.Concentration) > 0 {
		fmt.Fprintf(&sb, "Concentration risks: %d holdings\n", len(req.Concentration))
		for _, c := range req.Concentration {
			fmt.Fprintf(&sb, "  %s: %.1f%%\n", c.Symbol, c.Pct)
		}
	} else {
		sb.WriteString("No concentration risk flagged\n")
	}

	if overview := req.AnalystOverview; overview != nil {
		fmt.Fprintf(&sb, "Analyst coverage: %d/%d holdings\n", overview.TotalCovered, overview.TotalHoldings)
		fmt.Fprintf(&sb, "Consensus: %d Buy, %d Hold, %d Sell\n", overview.Buys, overview.Holds, overview.Sells)
		if overview.WeightedUpside != nil {
			fmt.Fprintf(&sb, "Weighted implied upside: %+.1f%%\n", *overview.WeightedUpside)
		}
	}

	return sb.String()
}

// ruleBasedCommentary assembles a short summary from the same inputs the
// generative path sees.
func ruleBasedCommentary(req *models.CommentaryRequest) string {
	var sentences []string

	if len(req.BySector) > 0 {
		top := req.BySector[0]
		sentences = append(sentences, fmt.Sprintf(
			"Your portfolio is most heavily weighted toward %s at %.1f%% of total value (%d sectors represented).",
			top.Sector, top.Pct, len(req.BySector)))
	}

	if len(req.Concentration) > 0 {
		symbols := make([]string, len(req.Concentration))
		for i, c := range req.Concentration {
			symbols[i] = c.Symbol
		}
		verb := "exceeds"
		if len(symbols) > 1 {
			verb = "each exceed"
		}
		sentences = append(sentences, fmt.Sprintf(
			"Concentration risk: %s %s their position-size threshold and may warrant rebalancing.",
			strings.Join(symbols, ", "), verb))
	} else {
		sentences = append(sentences, "No individual holding exceeds its concentration threshold, indicating good diversification.")
	}

	if overview := req.AnalystOverview; overview != nil && overview.TotalCovered > 0 && overview.WeightedUpside != nil {
		sentences = append(sentences, fmt.Sprintf(
			"Analyst consensus across %d covered holdings shows %d Buy ratings with a weighted implied upside of %+.1f%%.",
			overview.TotalCovered, overview.Buys, *overview.WeightedUpside))
	}

	if len(sentences) == 0 {
		return "Upload a portfolio to see commentary."
	}
	return strings.Join(sentences, " ")
}

// Ensure Service implements NarrativeService
var _ interfaces.NarrativeService = (*Service)(nil)
