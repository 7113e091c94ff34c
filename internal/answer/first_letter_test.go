package answer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractFirstLetter(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "first labeled answer", text: "2:B 3:A", want: "B"},
		{name: "bare letter", text: "C", want: "C"},
		{name: "nothing usable", text: "xyz", want: ""},
		{name: "lowercase after colon", text: "1: **d**", want: "D"},
		{name: "colon not followed by a letter", text: "Time: 10:30, pick C", want: "C"},
		{name: "letter outside A-D after colon", text: "1:E 2:B", want: "B"},
		{name: "later question when the first is outside A-D", text: "FINAL_ANSWER: 1:E 2:B", want: "B"},
		{name: "first letter anywhere", text: "go with b?", want: "B"},
		{name: "first letter anywhere is not context aware", text: "maybe b?", want: "A"},
		{name: "empty", text: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractFirstLetter(tt.text))
		})
	}
}
