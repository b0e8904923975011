package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectIntents(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []Intent
	}{
		{"definition id", "Apa itu kewarganegaraan?", []Intent{IntentDefinition}},
		{"definition en", "What is a citizen?", []Intent{IntentDefinition}},
		{"how to", "Bagaimana cara mengajukan visa?", []Intent{IntentHowTo}},
		{"temporal", "Kapan undang-undang ini berlaku?", []Intent{IntentTemporal}},
		{"location", "Dimana kantor pusatnya?", []Intent{IntentLocation}},
		{"reason", "Mengapa pasal ini diubah?", []Intent{IntentReason}},
		{"comparison", "Apa perbedaan PT dan CV?", []Intent{IntentComparison}},
		{"example", "Berikan contoh penerapannya", []Intent{IntentExample}},
		{"quantity", "Berapa jumlah karyawan?", []Intent{IntentQuantity}},
		{"none", "dokumen pajak tahunan", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectIntents(tt.query))
		})
	}
}

func TestDetectIntents_Multiple(t *testing.T) {
	intents := DetectIntents("Bagaimana cara menghitung dan berapa jumlahnya?")
	assert.Contains(t, intents, IntentHowTo)
	assert.Contains(t, intents, IntentQuantity)
}
