package casefile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidCaseNumber(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want bool
	}{
		{name: "23 digits", id: caseA, want: true},
		{name: "surrounding whitespace", id: "  " + caseA + "\n", want: true},
		{name: "20 digits", id: strings.Repeat("1", 20), want: true},
		{name: "25 digits", id: strings.Repeat("9", 25), want: true},
		{name: "19 digits", id: strings.Repeat("1", 19), want: false},
		{name: "26 digits", id: strings.Repeat("1", 26), want: false},
		{name: "letter inside", id: "1100131030012019A012300", want: false},
		{name: "dashes", id: "11001-31-03-001-2019-00123-00", want: false},
		{name: "inner space", id: "11001310300 120190012300", want: false},
		{name: "empty", id: "", want: false},
		{name: "non-ascii digits", id: strings.Repeat("٣", 23), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidCaseNumber(tt.id))
		})
	}
}

func TestValidCaseNumberAcceptsEveryExpectedLengthNumber(t *testing.T) {
	for d := '0'; d <= '9'; d++ {
		id := strings.Repeat(string(d), ExpectedLength)
		assert.True(t, ValidCaseNumber(id), id)
	}
}
