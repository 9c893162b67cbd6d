package extract

import (
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/aare-ai/aare/pkg/core/facts"
	"github.com/aare-ai/aare/pkg/core/ontology"
)

var digitsRe = regexp.MustCompile(`[\d,]+(?:\.\d+)?`)

// Extract walks doc's non-computed extractors, in ontology declaration
// order, producing a Facts map. A field that fails to extract is simply
// absent — never recorded as null (spec.md §4.1). withConfidence selects
// whether each fact also carries its ExtractionRecord (confidence/source).
func Extract(text string, doc *ontology.Document, withConfidence bool) *facts.Facts {
	lowered := strings.ToLower(text)
	out := facts.New(withConfidence)

	for _, name := range doc.ExtractorOrder {
		ext, ok := doc.Extractors[name]
		if !ok || ext.Type == "computed" {
			continue
		}
		rec, ok := extractOne(name, ext, text, lowered)
		if !ok {
			continue
		}
		out.SetRecord(name, rec)
	}

	return out
}

func extractOne(name string, ext ontology.Extractor, text, lowered string) (facts.Record, bool) {
	switch ext.Type {
	case "boolean":
		return extractBoolean(ext, text, lowered)
	case "int", "float", "percentage":
		return extractNumeric(ext, text, ext.Type)
	case "money":
		return extractMoney(ext, text)
	case "string":
		return extractString(ext, lowered)
	case "date":
		return extractDateField(ext, text, lowered)
	case "datetime":
		return extractDatetimeField(ext, text, lowered)
	case "list":
		return extractListField(ext, text, lowered)
	case "enum":
		return extractEnumField(ext, lowered)
	default:
		log.Printf("[extract] %s: unknown extractor type %q, skipping", name, ext.Type)
		return facts.Record{}, false
	}
}

func hasNegationInWindow(lowered string, start, end int, negWords []string) bool {
	if start < 0 {
		start = 0
	}
	if end > len(lowered) {
		end = len(lowered)
	}
	if start >= end {
		return false
	}
	window := lowered[start:end]
	for _, nw := range negWords {
		if strings.Contains(window, strings.ToLower(nw)) {
			return true
		}
	}
	return false
}

func extractBoolean(ext ontology.Extractor, text, lowered string) (facts.Record, bool) {
	if ext.Pattern != "" {
		re, err := compile(ext.Pattern)
		if err != nil {
			log.Printf("[extract] boolean pattern %q: %v", ext.Pattern, err)
			return facts.Record{}, false
		}
		loc := re.FindStringIndex(lowered)
		if loc == nil {
			return boolRecord(false, ""), true
		}
		matched := lowered[loc[0]:loc[1]]
		if ext.CheckNegation && hasNegationInWindow(lowered, loc[0]-30, loc[1]+30, ext.NegationWords) {
			return boolRecord(false, matched), true
		}
		return facts.Record{
			Value:         facts.Value{Raw: true, Kind: facts.KindBoolean},
			Confidence:    confidencePatternMatch,
			Source:        matched,
			ExtractorType: facts.KindBoolean,
		}, true
	}

	if len(ext.Keywords) == 0 {
		return facts.Record{}, false
	}

	result := false
	source := ""
	decided := false
	hits := 0
	for _, kw := range ext.Keywords {
		kwLower := strings.ToLower(kw)
		pos := strings.Index(lowered, kwLower)
		if pos < 0 {
			continue
		}
		hits++
		if decided {
			continue
		}
		if ext.CheckNegation && hasNegationInWindow(lowered, pos-15, pos+len(kwLower), ext.NegationWords) {
			continue
		}
		result = true
		source = lowered[pos : pos+len(kwLower)]
		decided = true
	}
	return facts.Record{
		Value:         facts.Value{Raw: result, Kind: facts.KindBoolean},
		Confidence:    confidenceBoolean(hits, result),
		Source:        source,
		ExtractorType: facts.KindBoolean,
	}, true
}

func boolRecord(value bool, source string) facts.Record {
	return facts.Record{
		Value:         facts.Value{Raw: value, Kind: facts.KindBoolean},
		Confidence:    confidenceBoolean(0, value),
		Source:        source,
		ExtractorType: facts.KindBoolean,
	}
}

func extractNumeric(ext ontology.Extractor, text, kind string) (facts.Record, bool) {
	if ext.Pattern == "" {
		return facts.Record{}, false
	}
	re, err := compile(ext.Pattern)
	if err != nil {
		log.Printf("[extract] numeric pattern %q: %v", ext.Pattern, err)
		return facts.Record{}, false
	}
	m := re.FindStringSubmatch(text)
	if m == nil {
		return facts.Record{}, false
	}
	group := m[0]
	if len(m) > 1 && m[1] != "" {
		group = m[1]
	}
	cleaned := strings.ReplaceAll(strings.TrimSpace(group), ",", "")
	val, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return facts.Record{}, false
	}
	var k facts.Kind
	switch kind {
	case "int":
		k = facts.KindInt
	case "percentage":
		k = facts.KindPercentage
	default:
		k = facts.KindFloat
	}
	return facts.Record{
		Value:         facts.Value{Raw: val, Kind: k},
		Confidence:    confidenceNumeric,
		Source:        m[0],
		ExtractorType: k,
	}, true
}

func extractMoney(ext ontology.Extractor, text string) (facts.Record, bool) {
	if ext.Pattern == "" {
		return facts.Record{}, false
	}
	re, err := compile(ext.Pattern)
	if err != nil {
		log.Printf("[extract] money pattern %q: %v", ext.Pattern, err)
		return facts.Record{}, false
	}
	m := re.FindStringSubmatch(text)
	if m == nil {
		return facts.Record{}, false
	}
	full := m[0]
	numStr := digitsRe.FindString(full)
	if numStr == "" {
		return facts.Record{}, false
	}
	val, err := strconv.ParseFloat(strings.ReplaceAll(numStr, ",", ""), 64)
	if err != nil {
		return facts.Record{}, false
	}

	idx := strings.Index(full, numStr)
	after := strings.ToLower(strings.TrimSpace(full[idx+len(numStr):]))
	switch {
	case strings.HasPrefix(after, "k"):
		val *= 1e3
	case strings.HasPrefix(after, "m"):
		val *= 1e6
	case strings.HasPrefix(after, "b"):
		val *= 1e9
	}

	return facts.Record{
		Value:         facts.Value{Raw: val, Kind: facts.KindMoney},
		Confidence:    confidenceNumeric,
		Source:        full,
		ExtractorType: facts.KindMoney,
	}, true
}

func extractString(ext ontology.Extractor, lowered string) (facts.Record, bool) {
	if ext.Pattern == "" {
		return facts.Record{}, false
	}
	re, err := compile(ext.Pattern)
	if err != nil {
		log.Printf("[extract] string pattern %q: %v", ext.Pattern, err)
		return facts.Record{}, false
	}
	m := re.FindStringSubmatch(lowered)
	if m == nil {
		return facts.Record{}, false
	}
	val := m[0]
	if len(m) > 1 && m[1] != "" {
		val = m[1]
	}
	return facts.Record{
		Value:         facts.Value{Raw: val, Kind: facts.KindString},
		Confidence:    confidenceDefault,
		Source:        m[0],
		ExtractorType: facts.KindString,
	}, true
}

func extractDateField(ext ontology.Extractor, text, lowered string) (facts.Record, bool) {
	iso, source, isISO, ok := scanWithOverride(ext, text, lowered, scanDate)
	if !ok {
		return facts.Record{}, false
	}
	conf := confidenceOtherDate
	if isISO {
		conf = confidenceISODate
	}
	return facts.Record{
		Value:         facts.Value{Raw: iso, Kind: facts.KindDate},
		Confidence:    conf,
		Source:        source,
		ExtractorType: facts.KindDate,
	}, true
}

func extractDatetimeField(ext ontology.Extractor, text, lowered string) (facts.Record, bool) {
	iso, source, isISO, ok := scanWithOverride(ext, text, lowered, scanDatetime)
	if !ok {
		return facts.Record{}, false
	}
	conf := confidenceOtherDate
	if isISO {
		conf = confidenceISODate
	}
	return facts.Record{
		Value:         facts.Value{Raw: iso, Kind: facts.KindDatetime},
		Confidence:    conf,
		Source:        source,
		ExtractorType: facts.KindDatetime,
	}, true
}

// scanWithOverride implements the shared date/datetime extraction order:
// custom pattern first, then a keyword-windowed or full-text scan using
// scanFn against the standard regex table.
func scanWithOverride(ext ontology.Extractor, text, lowered string, scanFn func(string) (string, string, bool, bool)) (string, string, bool, bool) {
	if ext.Pattern != "" {
		re, err := compile(ext.Pattern)
		if err != nil {
			log.Printf("[extract] date pattern %q: %v", ext.Pattern, err)
		} else if m := re.FindStringSubmatch(text); m != nil {
			candidate := m[0]
			if len(m) > 1 && m[1] != "" {
				candidate = m[1]
			}
			if iso, src, isISO, ok := scanFn(candidate); ok {
				return iso, src, isISO, true
			}
		}
	}

	searchText := text
	if len(ext.Keywords) > 0 {
		found := false
		for _, kw := range ext.Keywords {
			pos := strings.Index(lowered, strings.ToLower(kw))
			if pos < 0 {
				continue
			}
			end := pos + 100
			if end > len(text) {
				end = len(text)
			}
			searchText = text[pos:end]
			found = true
			break
		}
		if !found {
			return "", "", false, false
		}
	}
	return scanFn(searchText)
}

func extractListField(ext ontology.Extractor, text, lowered string) (facts.Record, bool) {
	var items []string

	if ext.Pattern != "" {
		re, err := compile(ext.Pattern)
		if err != nil {
			log.Printf("[extract] list pattern %q: %v", ext.Pattern, err)
		} else {
			source := text
			if ext.ItemType == "string" {
				source = lowered
			}
			for _, m := range re.FindAllStringSubmatch(source, -1) {
				v := m[0]
				if len(m) > 1 && m[1] != "" {
					v = m[1]
				}
				items = append(items, v)
			}
		}
	}

	if len(items) == 0 && len(ext.Keywords) > 0 {
		for _, kw := range ext.Keywords {
			if strings.Contains(lowered, strings.ToLower(kw)) {
				items = append(items, kw)
			}
		}
	}

	if len(items) == 0 {
		return facts.Record{}, false
	}

	converted := make([]interface{}, 0, len(items))
	for _, it := range items {
		switch ext.ItemType {
		case "int":
			if n, err := strconv.Atoi(strings.ReplaceAll(it, ",", "")); err == nil {
				converted = append(converted, float64(n))
			}
		case "float":
			if n, err := strconv.ParseFloat(strings.ReplaceAll(it, ",", ""), 64); err == nil {
				converted = append(converted, n)
			}
		default:
			converted = append(converted, it)
		}
	}
	if len(converted) == 0 {
		return facts.Record{}, false
	}

	sep := ext.Separator
	if sep == "" {
		sep = ", "
	}

	return facts.Record{
		Value:         facts.Value{Raw: converted, Kind: facts.KindList},
		Confidence:    confidenceList(len(converted)),
		Source:        strings.Join(items, sep),
		ExtractorType: facts.KindList,
	}, true
}

func extractEnumField(ext ontology.Extractor, lowered string) (facts.Record, bool) {
	for _, choice := range ext.Choices {
		for _, kw := range choice.Keywords {
			if strings.Contains(lowered, strings.ToLower(kw)) {
				return facts.Record{
					Value:         facts.Value{Raw: choice.Value, Kind: facts.KindEnum},
					Confidence:    confidenceEnumExact,
					Source:        kw,
					ExtractorType: facts.KindEnum,
				}, true
			}
		}
	}
	if def, ok := ext.Default.(string); ok && def != "" {
		return facts.Record{
			Value:         facts.Value{Raw: def, Kind: facts.KindEnum},
			Confidence:    confidenceEnumFallback,
			Source:        def,
			ExtractorType: facts.KindEnum,
		}, true
	}
	return facts.Record{}, false
}
