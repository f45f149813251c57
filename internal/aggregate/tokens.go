package aggregate

import (
	"strings"
	"unicode"

	"github.com/KaramelBytes/olympeda/internal/dataset"
)

// DefaultStopwords are dropped from token frequencies.
var DefaultStopwords = []string{
	"a", "an", "and", "are", "as", "at", "be", "by", "for", "from", "in", "is",
	"it", "of", "on", "or", "the", "to", "with",
}

// TokenFrequency counts word tokens across a text column. Counting ignores
// case and each word is shown in its most frequent spelling. Plural forms
// fold into the singular when both occur, pure numbers and single letters
// are dropped.
func TokenFrequency(t *dataset.Table, col dataset.Column, stopwords []string) Ranking {
	stop := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		stop[strings.ToLower(w)] = struct{}{}
	}
	counts := map[string]int{}
	variants := map[string]map[string]int{}
	total := 0
	for i := range t.Records {
		r := &t.Records[i]
		if r.IsNull(col) {
			continue
		}
		for _, tok := range tokenize(r.Value(col)) {
			low := strings.ToLower(tok)
			if _, skip := stop[low]; skip {
				continue
			}
			total++
			counts[low]++
			v := variants[low]
			if v == nil {
				v = map[string]int{}
				variants[low] = v
			}
			v[tok]++
		}
	}
	for low, n := range counts {
		if !strings.HasSuffix(low, "s") || strings.HasSuffix(low, "ss") {
			continue
		}
		single := strings.TrimSuffix(low, "s")
		if _, ok := counts[single]; ok {
			counts[single] += n
			for v, c := range variants[low] {
				variants[single][strings.TrimSuffix(v, "s")] += c
			}
			delete(counts, low)
		}
	}
	rows := make([]Count, 0, len(counts))
	for low, n := range counts {
		rows = append(rows, Count{Keys: []string{preferredSpelling(variants[low])}, Count: n})
	}
	sortCounts(rows)
	return Ranking{Columns: []dataset.Column{col}, Rows: rows, Total: total}
}

func tokenize(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
	out := fields[:0]
	for _, f := range fields {
		f = strings.Trim(f, "'")
		f = strings.TrimSuffix(f, "'s")
		if len([]rune(f)) < 2 || isNumber(f) {
			continue
		}
		out = append(out, f)
	}
	return out
}

func isNumber(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func preferredSpelling(v map[string]int) string {
	best, bestN := "", -1
	for s, n := range v {
		if n > bestN || (n == bestN && s < best) {
			best, bestN = s, n
		}
	}
	return best
}
