package model

import (
	"reflect"
	"testing"
)

func TestExtractMentions(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"no mentions", "just a plain comment", nil},
		{"single mention", "thanks @alice for the tip", []string{"alice"}},
		{"multiple mentions", "@alice @bob_99 take a look", []string{"alice", "bob_99"}},
		{"duplicates collapsed", "@alice and again @alice", []string{"alice"}},
		{"trailing punctuation stripped", "good point, @alice!", []string{"alice"}},
		{"bare at ignored", "meet @ noon", nil},
		{"email not a mention", "mail me at hi@example.com", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractMentions(tt.content)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractMentions(%q) = %v, want %v", tt.content, got, tt.want)
			}
		})
	}
}
