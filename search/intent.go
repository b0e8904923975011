package search

import "strings"

// Intent classifies the shape of a question. A query can carry several.
type Intent string

const (
	IntentDefinition Intent = "definition"
	IntentHowTo      Intent = "how_to"
	IntentTemporal   Intent = "temporal"
	IntentLocation   Intent = "location"
	IntentReason     Intent = "reason"
	IntentComparison Intent = "comparison"
	IntentExample    Intent = "example"
	IntentQuantity   Intent = "quantity"
)

// intentRule binds an intent to its marker phrases. Ordered so the
// detected intent list is stable for a given query.
type intentRule struct {
	intent  Intent
	markers []string
}

var intentRules = []intentRule{
	{IntentDefinition, []string{"apa itu", "apakah yang dimaksud", "pengertian", "definisi", "what is"}},
	{IntentHowTo, []string{"bagaimana", "cara", "langkah", "how to", "how do"}},
	{IntentTemporal, []string{"kapan", "tanggal berapa", "tahun berapa", "when"}},
	{IntentLocation, []string{"dimana", "di mana", "lokasi", "where"}},
	{IntentReason, []string{"mengapa", "kenapa", "alasan", "why"}},
	{IntentComparison, []string{"perbandingan", "dibandingkan", "perbedaan", "versus", " vs ", "compare"}},
	{IntentExample, []string{"contoh", "misalnya", "seperti apa", "example"}},
	{IntentQuantity, []string{"berapa", "jumlah", "how many", "how much"}},
}

// DetectIntents returns every intent whose marker appears in the query.
func DetectIntents(query string) []Intent {
	lower := strings.ToLower(query)

	var intents []Intent
	for _, rule := range intentRules {
		for _, marker := range rule.markers {
			if strings.Contains(lower, marker) {
				intents = append(intents, rule.intent)
				break
			}
		}
	}
	return intents
}
