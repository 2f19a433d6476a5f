package consolidate

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"ocr-consolidator/internal/inference"
)

// SystemPrompt instructs the model to merge the candidates by majority vote.
const SystemPrompt = "You are an expert text processor tasked with acquiring multiple OCR-extracted texts " +
	"from the same image into a single, accurate ground truth text using a majority voting technique. " +
	"Align the input strings, accounting for differences in length and word order. For each word position, " +
	"select the most common word across all inputs, defaulting to the most reliable input if there's no clear majority."

const userPromptPrefix = "The list of OCR extracted text is "

// BuildMessages returns the two-message transcript sent to the model.
func BuildMessages(texts Candidates) []inference.Message {
	return []inference.Message{
		{Role: inference.RoleSystem, Content: SystemPrompt},
		{Role: inference.RoleUser, Content: userPromptPrefix + FormatList(texts)},
	}
}

// FormatList renders the candidates as a list literal, e.g. ['a', 'b'].
// Strings use Python repr quoting and escapes.
func FormatList(texts Candidates) string {
	var b strings.Builder
	writeList(&b, texts)
	return b.String()
}

func writeList(b *strings.Builder, items []any) {
	b.WriteByte('[')
	for i, v := range items {
		if i > 0 {
			b.WriteString(", ")
		}
		writeValue(b, v)
	}
	b.WriteByte(']')
}

func writeValue(b *strings.Builder, v any) {
	switch x := v.(type) {
	case nil:
		b.WriteString("None")
	case bool:
		if x {
			b.WriteString("True")
		} else {
			b.WriteString("False")
		}
	case string:
		writeQuoted(b, x)
	case json.Number:
		b.WriteString(formatNumber(x))
	case float64:
		b.WriteString(formatFloat(x))
	case []any:
		writeList(b, x)
	case Candidates:
		writeList(b, x)
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			writeQuoted(b, k)
			b.WriteString(": ")
			writeValue(b, x[k])
		}
		b.WriteByte('}')
	default:
		fmt.Fprint(b, x)
	}
}

// formatNumber follows JSON number semantics: literals with a fraction or an
// exponent are floats, the rest are integers.
func formatNumber(n json.Number) string {
	lit := n.String()
	if !strings.ContainsAny(lit, ".eE") {
		if i, ok := new(big.Int).SetString(lit, 10); ok {
			return i.String()
		}
		return lit
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil && !math.IsInf(f, 0) {
		return lit
	}
	return formatFloat(f)
}

// formatFloat uses the shortest round-trip digits, positional notation for
// exponents in [-4, 16) and a ".0" suffix on integral values.
func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}

	exp := 0
	if f != 0 {
		sci := strconv.FormatFloat(f, 'e', -1, 64)
		exp, _ = strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
	}
	if exp < -4 || exp >= 16 {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// writeQuoted prefers single quotes and switches to double quotes only when
// the string holds a single quote and no double quote.
func writeQuoted(b *strings.Builder, s string) {
	quote := '\''
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		quote = '"'
	}

	b.WriteRune(quote)
	for _, r := range s {
		switch {
		case r == quote || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case unicode.IsPrint(r):
			b.WriteRune(r)
		case r < 0x100:
			fmt.Fprintf(b, `\x%02x`, r)
		case r < 0x10000:
			fmt.Fprintf(b, `\u%04x`, r)
		default:
			fmt.Fprintf(b, `\U%08x`, r)
		}
	}
	b.WriteRune(quote)
}
