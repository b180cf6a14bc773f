// Package record defines the fixed ten-field extraction record and the
// validation step that guarantees a complete output shape regardless of
// upstream degradation.
package record

import "strings"

// Sentinel is the placeholder for any field the model could not determine.
// The prompt instructs the model to emit this literal string.
const Sentinel = "Not specified in document"

// ExtractionRecord is the structured investment summary of one pitch deck.
// Every field is always present and non-empty: AI-derived or Sentinel.
type ExtractionRecord struct {
	Company              string `json:"company"`
	ValueProposition     string `json:"valueProposition"`
	MarketSize           string `json:"marketSize"`
	Traction             string `json:"traction"`
	Team                 string `json:"team"`
	FundingAsk           string `json:"fundingAsk"`
	UseOfFunds           string `json:"useOfFunds"`
	BusinessModel        string `json:"businessModel"`
	CompetitiveLandscape string `json:"competitiveLandscape"`
	GoToMarket           string `json:"goToMarket"`
}

// FieldNames lists the ten required fields in prompt/schema order.
var FieldNames = []string{
	"company",
	"valueProposition",
	"marketSize",
	"traction",
	"team",
	"fundingAsk",
	"useOfFunds",
	"businessModel",
	"competitiveLandscape",
	"goToMarket",
}

// FromFields builds a complete record from a loose field map, substituting
// Sentinel for any missing, empty, or whitespace-only value. Always succeeds;
// this is the pipeline's well-formed-output guarantee.
func FromFields(fields map[string]string) ExtractionRecord {
	get := func(name string) string {
		if v, ok := fields[name]; ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return Sentinel
	}

	return ExtractionRecord{
		Company:              get("company"),
		ValueProposition:     get("valueProposition"),
		MarketSize:           get("marketSize"),
		Traction:             get("traction"),
		Team:                 get("team"),
		FundingAsk:           get("fundingAsk"),
		UseOfFunds:           get("useOfFunds"),
		BusinessModel:        get("businessModel"),
		CompetitiveLandscape: get("competitiveLandscape"),
		GoToMarket:           get("goToMarket"),
	}
}

// Empty returns an all-sentinel record, the degraded-path terminal result.
func Empty() ExtractionRecord {
	return FromFields(nil)
}

// SpecifiedCount reports how many fields carry a non-sentinel value.
func (r ExtractionRecord) SpecifiedCount() int {
	n := 0
	for _, v := range []string{
		r.Company, r.ValueProposition, r.MarketSize, r.Traction, r.Team,
		r.FundingAsk, r.UseOfFunds, r.BusinessModel, r.CompetitiveLandscape, r.GoToMarket,
	} {
		if v != Sentinel {
			n++
		}
	}
	return n
}
