package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// RenderJSON writes the report as indented JSON.
func RenderJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// RenderText writes a plain-text rendering of the report.
func RenderText(w io.Writer, r *Report) error {
	var b strings.Builder

	b.WriteString("DefiSentry Listing Risk Report\n")
	fmt.Fprintf(&b, "Protocol: %s (%s)\n", r.Protocol, r.EntityType)

	if r.TVLUSD != nil {
		fmt.Fprintf(&b, "TVL: %s\n", formatUSD(*r.TVLUSD))
	}
	if r.MarketCapUSD != nil {
		fmt.Fprintf(&b, "Market Cap: %s\n", formatUSD(*r.MarketCapUSD))
	}
	if r.Volume24hUSD != nil {
		fmt.Fprintf(&b, "24h Volume: %s\n", formatUSD(*r.Volume24hUSD))
	}

	fmt.Fprintf(&b, "\nOverall Risk Score: %d/100\n", r.RiskScore)

	if len(r.RiskFindings) > 0 {
		b.WriteString("\nDetected Risk Findings:\n")
		for _, f := range r.RiskFindings {
			fmt.Fprintf(&b, "- [%s/%s] %s\n", f.Category, f.Severity, f.Description)
			if f.Rationale != "" {
				fmt.Fprintf(&b, "    %s\n", f.Rationale)
			}
		}
	} else {
		b.WriteString("\nNo risk findings detected.\n")
	}

	if len(r.RiskSummary) > 0 {
		b.WriteString("\nFindings by category:\n")
		for _, category := range summaryOrder {
			if count, ok := r.RiskSummary[category]; ok {
				fmt.Fprintf(&b, "  %s: %d\n", category, count)
			}
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// summaryOrder fixes the category print order so text output is stable.
var summaryOrder = []string{"Governance", "Oracle", "Liquidity", "Security", "Operational"}

// formatUSD renders a dollar amount with thousands separators and no cents.
func formatUSD(v float64) string {
	n := int64(v)
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}

	s := fmt.Sprintf("%d", n)
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)

	return sign + "$" + strings.Join(parts, ",")
}
