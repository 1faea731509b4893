// Package pricing resolves per-call cost from provider pricing rules
package pricing

import "fmt"

// RuleNotFoundNote is recorded on a result when no pricing rule matched.
// A missing rule is not an error; the attempt proceeds with cost zero.
const RuleNotFoundNote = "pricing rule not found"

// Rule prices one (provider, template, model) combination
type Rule struct {
	ID           string
	ProviderID   string
	TemplateType string
	ModelID      string
	// UsdPerUnit is the price per Unit of usage (e.g. per 1k characters)
	UsdPerUnit float64
	Unit       float64
	IsEstimated bool
}

// Quote is the outcome of a successful price lookup
type Quote struct {
	AmountUsd   float64
	RuleID      string
	Unit        float64
	IsEstimated bool
}

// Table is an in-memory pricing rule lookup keyed by provider, template and model
type Table struct {
	rules map[string]Rule
}

// NewTable creates a pricing table from the given rules
func NewTable(rules []Rule) *Table {
	t := &Table{rules: make(map[string]Rule, len(rules))}
	for _, rule := range rules {
		t.rules[ruleKey(rule.ProviderID, rule.TemplateType, rule.ModelID)] = rule
	}
	return t
}

// Price returns the cost of the given usage amount, or false when no rule
// matches the (provider, template, model) tuple.
func (t *Table) Price(providerID, templateType, modelID string, usage float64) (Quote, bool) {
	rule, ok := t.rules[ruleKey(providerID, templateType, modelID)]
	if !ok {
		return Quote{}, false
	}

	unit := rule.Unit
	if unit <= 0 {
		unit = 1
	}

	return Quote{
		AmountUsd:   usage / unit * rule.UsdPerUnit,
		RuleID:      rule.ID,
		Unit:        unit,
		IsEstimated: rule.IsEstimated,
	}, true
}

// DefaultRules returns the built-in pricing rules for the known TTS models,
// priced per 1k characters of input text.
func DefaultRules() []Rule {
	return []Rule{
		{ID: "openai-tts-1", ProviderID: "openai", TemplateType: "tts", ModelID: "tts-1", UsdPerUnit: 0.015, Unit: 1000},
		{ID: "openai-tts-1-hd", ProviderID: "openai", TemplateType: "tts", ModelID: "tts-1-hd", UsdPerUnit: 0.030, Unit: 1000},
		{ID: "elevenlabs-multi-v2", ProviderID: "elevenlabs", TemplateType: "tts", ModelID: "eleven_multilingual_v2", UsdPerUnit: 0.18, Unit: 1000, IsEstimated: true},
		{ID: "azure-neural", ProviderID: "azure", TemplateType: "tts", ModelID: "neural", UsdPerUnit: 0.016, Unit: 1000},
	}
}

func ruleKey(providerID, templateType, modelID string) string {
	return fmt.Sprintf("%s/%s/%s", providerID, templateType, modelID)
}
