package analytics

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Kind identifies the JSON shape of a stored answer
type Kind int

const (
	KindNone Kind = iota
	KindText
	KindNumber
	KindBool
	KindList
)

// multiSeparator joins multiple selections in a single text answer
const multiSeparator = ", "

// Answer is one decoded value from a response payload.
// Objects and null decode to KindNone.
type Answer struct {
	Kind   Kind
	Text   string
	Number float64
	Bool   bool
	List   []Answer
}

// Answers maps field labels to decoded values
type Answers map[string]Answer

// DecodeAnswers decodes a stored response payload. Anything that is not a
// JSON object yields an empty set rather than an error.
func DecodeAnswers(raw []byte) Answers {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil || obj == nil {
		return Answers{}
	}
	return AnswersFromMap(obj)
}

// AnswersFromMap converts an already-decoded payload
func AnswersFromMap(m map[string]any) Answers {
	out := make(Answers, len(m))
	for label, v := range m {
		out[label] = toAnswer(v)
	}
	return out
}

func toAnswer(v any) Answer {
	switch t := v.(type) {
	case string:
		return Answer{Kind: KindText, Text: t}
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Answer{}
		}
		return Answer{Kind: KindNumber, Number: f}
	case float64:
		return Answer{Kind: KindNumber, Number: t}
	case int:
		return Answer{Kind: KindNumber, Number: float64(t)}
	case bool:
		return Answer{Kind: KindBool, Bool: t}
	case []any:
		list := make([]Answer, 0, len(t))
		for _, item := range t {
			list = append(list, toAnswer(item))
		}
		return Answer{Kind: KindList, List: list}
	default:
		return Answer{}
	}
}

// Selections returns the options selected by a categorical answer.
// Empty text, zero, false and missing values select nothing.
func (a Answer) Selections() []string {
	switch a.Kind {
	case KindText:
		if a.Text == "" {
			return nil
		}
		return strings.Split(a.Text, multiSeparator)
	case KindNumber:
		if a.Number == 0 {
			return nil
		}
		return []string{strconv.FormatFloat(a.Number, 'f', -1, 64)}
	case KindBool:
		if !a.Bool {
			return nil
		}
		return []string{"true"}
	case KindList:
		var out []string
		for _, item := range a.List {
			if s, ok := item.scalar(); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func (a Answer) scalar() (string, bool) {
	switch a.Kind {
	case KindText:
		return a.Text, a.Text != ""
	case KindNumber:
		return strconv.FormatFloat(a.Number, 'f', -1, 64), true
	case KindBool:
		return strconv.FormatBool(a.Bool), true
	}
	return "", false
}

// Rating returns the integer rating carried by the answer. Text yields its
// leading integer ("4", " 5", "3.7" -> 3, "4stars" -> 4); numbers are
// truncated toward zero.
func (a Answer) Rating() (int, bool) {
	switch a.Kind {
	case KindText:
		return leadingInt(a.Text)
	case KindNumber:
		return int(a.Number), true
	}
	return 0, false
}

func leadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\n\r\v\f")

	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	start := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == start {
		return 0, false
	}

	n, err := strconv.Atoi(s[:i])
	if err != nil {
		return 0, false
	}
	return n, true
}
