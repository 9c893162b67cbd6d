// Package utils provides small, dependency-backed helpers shared across
// the core packages. It intentionally carries no domain logic of its own.
package utils

import (
	"encoding/json"
	"fmt"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// RepairJSON attempts to fix common JSON errors (missing quotes, trailing
// commas, single quotes, comments) using github.com/RealAlexandreAI/json-repair.
func RepairJSON(malformedJSON string) (string, error) {
	repaired, err := jsonrepair.RepairJSON(malformedJSON)
	if err != nil {
		return "", fmt.Errorf("json repair failed: %w", err)
	}
	return repaired, nil
}

// ParseHJSON parses Human JSON (comments, unquoted keys, optional commas)
// and returns the equivalent standard JSON.
func ParseHJSON(hjsonData string) (string, error) {
	var result interface{}
	if err := hjson.Unmarshal([]byte(hjsonData), &result); err != nil {
		return "", fmt.Errorf("hjson parse failed: %w", err)
	}
	jsonBytes, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("hjson->json marshal failed: %w", err)
	}
	return string(jsonBytes), nil
}

// SmartParse tries, in order, strict JSON, JSON-repair, then Hjson, and
// returns the first variant that unmarshals cleanly into schema.
//
// Order of attempts:
//  1. Standard JSON
//  2. JSON repair
//  3. Hjson (most lenient)
func SmartParse(input string, schema interface{}) (string, error) {
	if err := json.Unmarshal([]byte(input), schema); err == nil {
		return input, nil
	}

	if repaired, err := RepairJSON(input); err == nil {
		if err := json.Unmarshal([]byte(repaired), schema); err == nil {
			return repaired, nil
		}
	}

	if hjsonResult, err := ParseHJSON(input); err == nil {
		if err := json.Unmarshal([]byte(hjsonResult), schema); err == nil {
			return hjsonResult, nil
		}
	}

	return "", fmt.Errorf("smart parse failed: all of JSON, json-repair and hjson rejected the input")
}
