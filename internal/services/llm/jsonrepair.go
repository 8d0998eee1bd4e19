package llm

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/studyforge/studyforge/internal/models"
)

// Shape is the expected top-level JSON shape of a model response
type Shape int

const (
	ShapeObject Shape = iota
	ShapeArray
)

var (
	objectSpanRegex = regexp.MustCompile(`(?s)\{.*\}`)
	arraySpanRegex  = regexp.MustCompile(`(?s)\[.*\]`)

	trailingCommaRegex = regexp.MustCompile(`,\s*([}\]])`)
	barewordKeyRegex   = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_]*)\s*:`)
	barewordValueRegex = regexp.MustCompile(`:\s*([A-Za-z_][A-Za-z0-9_]*)\s*([,}\]])`)
)

// ParseModelJSON extracts the JSON payload of the expected shape from
// free-form model output. When the first parse fails, a single best-effort
// repair pass fixes the malformations models commonly emit and parsing is
// retried once; if that also fails, the original parse failure is attached
// to the returned error.
//
// The repair is heuristic and intentionally lossy, not a JSON grammar
// recovery: single quotes become double quotes, trailing commas are
// stripped, and bareword keys and values are quoted.
func ParseModelJSON(raw string, shape Shape) (json.RawMessage, error) {
	spanRegex := objectSpanRegex
	kind := "object"
	if shape == ShapeArray {
		spanRegex = arraySpanRegex
		kind = "array"
	}

	span := spanRegex.FindString(raw)
	if span == "" {
		return nil, &models.ParseError{Reason: "no JSON " + kind + " found in model output"}
	}

	if err := checkShape(span, shape); err == nil {
		return json.RawMessage(span), nil
	} else {
		repaired := repairJSON(span)
		if repairErr := checkShape(repaired, shape); repairErr == nil {
			return json.RawMessage(repaired), nil
		}
		return nil, &models.ParseError{Reason: "model output not repairable", Err: err}
	}
}

// DecodeModelJSON parses model output of the expected shape into v
func DecodeModelJSON(raw string, shape Shape, v interface{}) error {
	span, err := ParseModelJSON(raw, shape)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(span, v); err != nil {
		return &models.ParseError{Reason: "JSON does not match expected structure", Err: err}
	}
	return nil
}

// checkShape verifies the span is valid JSON with the expected top level
func checkShape(span string, shape Shape) error {
	var v interface{}
	if err := json.Unmarshal([]byte(span), &v); err != nil {
		return err
	}
	switch shape {
	case ShapeArray:
		if _, ok := v.([]interface{}); !ok {
			return &models.ParseError{Reason: "expected top-level array"}
		}
	default:
		if _, ok := v.(map[string]interface{}); !ok {
			return &models.ParseError{Reason: "expected top-level object"}
		}
	}
	return nil
}

// repairJSON applies the single best-effort repair pass
func repairJSON(span string) string {
	// Normalize single-quoted strings to double quotes
	repaired := strings.ReplaceAll(span, "'", `"`)

	// Strip trailing commas before closing braces/brackets
	repaired = trailingCommaRegex.ReplaceAllString(repaired, "$1")

	// Quote bareword object keys
	repaired = barewordKeyRegex.ReplaceAllString(repaired, `$1"$2":`)

	// Quote bareword values, leaving JSON literals alone
	repaired = barewordValueRegex.ReplaceAllStringFunc(repaired, func(match string) string {
		parts := barewordValueRegex.FindStringSubmatch(match)
		word := parts[1]
		switch word {
		case "true", "false", "null":
			return match
		}
		return `: "` + word + `"` + parts[2]
	})

	return repaired
}
