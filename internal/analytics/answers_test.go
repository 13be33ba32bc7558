package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnswer_Selections(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    []string
	}{
		{"single text", `{"f": "red"}`, []string{"red"}},
		{"joined text", `{"f": "A, B, C"}`, []string{"A", "B", "C"}},
		{"comma without space is one option", `{"f": "A,B"}`, []string{"A,B"}},
		{"empty text", `{"f": ""}`, nil},
		{"null", `{"f": null}`, nil},
		{"missing", `{}`, nil},
		{"zero", `{"f": 0}`, nil},
		{"false", `{"f": false}`, nil},
		{"true", `{"f": true}`, []string{"true"}},
		{"integer", `{"f": 3}`, []string{"3"}},
		{"decimal", `{"f": 2.5}`, []string{"2.5"}},
		{"list", `{"f": ["A", "", "B", null]}`, []string{"A", "B"}},
		{"object", `{"f": {"a": 1}}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeAnswers([]byte(tt.payload))["f"].Selections()
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAnswer_Rating(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    int
		wantOK  bool
	}{
		{"text", `"4"`, 4, true},
		{"padded text", `" 5 "`, 5, true},
		{"decimal text truncates", `"3.7"`, 3, true},
		{"suffix ignored", `"4stars"`, 4, true},
		{"signed", `"-2"`, -2, true},
		{"non numeric", `"great"`, 0, false},
		{"sign only", `"-"`, 0, false},
		{"empty", `""`, 0, false},
		{"number", `5`, 5, true},
		{"decimal number truncates", `4.9`, 4, true},
		{"bool", `true`, 0, false},
		{"null", `null`, 0, false},
		{"list", `[1]`, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DecodeAnswers([]byte(`{"r": ` + tt.payload + `}`))["r"].Rating()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeAnswers_NonObject(t *testing.T) {
	for _, raw := range []string{``, `null`, `[]`, `42`, `"x"`, `{`} {
		assert.Empty(t, DecodeAnswers([]byte(raw)), raw)
	}
}

func TestAnswersFromMap(t *testing.T) {
	a := AnswersFromMap(map[string]any{"n": 3, "s": "x", "b": true, "l": []any{"y"}})

	assert.Equal(t, KindNumber, a["n"].Kind)
	assert.Equal(t, KindText, a["s"].Kind)
	assert.Equal(t, KindBool, a["b"].Kind)
	assert.Equal(t, KindList, a["l"].Kind)
}
