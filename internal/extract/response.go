package extract

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"workoverbot/internal/domain"
)

// StripCodeFences removes markdown fences and any prose around the JSON object.
func StripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```JSON")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "{") || strings.HasPrefix(text, "[") {
		return text
	}
	if i, j := strings.Index(text, "{"), strings.LastIndex(text, "}"); i >= 0 && j > i {
		return text[i : j+1]
	}
	return text
}

// ParseResponse decodes, repairs and validates a model response into a FieldSet.
func ParseResponse(text string) (domain.FieldSet, error) {
	cleaned := StripCodeFences(text)
	if cleaned == "" {
		return domain.FieldSet{}, &AIResponseSchemaError{Reason: "empty response", Raw: text}
	}

	payload, err := decodePayload(cleaned)
	if err != nil {
		return domain.FieldSet{}, &AIResponseSchemaError{Reason: "payload is not a JSON object", Raw: truncateRaw(cleaned), Err: err}
	}

	var missing []string
	for _, k := range requiredKeys {
		if _, ok := payload[k]; !ok {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return domain.FieldSet{}, &AIResponseSchemaError{Reason: "missing keys " + strings.Join(missing, ","), Raw: truncateRaw(cleaned)}
	}

	repairPayload(payload)
	if err := validateRowPayload(payload); err != nil {
		return domain.FieldSet{}, &AIResponseSchemaError{Reason: "payload failed validation", Raw: truncateRaw(cleaned), Err: err}
	}

	start, _ := payload[KeyStartTime].(string)
	end, _ := payload[KeyEndTime].(string)
	hours, _ := payload[KeyDuration].(float64)
	return domain.FieldSet{
		StartTime:            padClock(start),
		EndTime:              padClock(end),
		DurationHours:        hours,
		EquipmentDescription: textOrNA(payload[KeyEquipment]),
		DepthInterval:        textOrNA(payload[KeyDepth]),
		ConditionResult:      textOrNA(payload[KeyCondition]),
	}, nil
}

// decodePayload accepts a bare object or a one-element array of objects.
func decodePayload(s string) (map[string]any, error) {
	var obj map[string]any
	err := json.Unmarshal([]byte(s), &obj)
	if err == nil {
		if obj == nil {
			return nil, fmt.Errorf("null payload")
		}
		return obj, nil
	}
	var arr []map[string]any
	if arrErr := json.Unmarshal([]byte(s), &arr); arrErr == nil && len(arr) == 1 && arr[0] != nil {
		return arr[0], nil
	}
	return nil, err
}

// repairPayload fixes shapes models commonly get wrong before strict validation:
// numeric strings for the duration and null for optional narrative fields.
func repairPayload(m map[string]any) {
	if s, ok := m[KeyDuration].(string); ok {
		if f, err := ParseDuration(s); err == nil {
			m[KeyDuration] = f
		}
	}
	for _, k := range []string{KeyStartTime, KeyEndTime} {
		if s, ok := m[k].(string); ok {
			m[k] = strings.TrimSpace(s)
		}
	}
	for _, k := range []string{KeyEquipment, KeyDepth, KeyCondition} {
		if m[k] == nil {
			m[k] = domain.NotAvailable
		}
	}
}

func textOrNA(v any) string {
	s, _ := v.(string)
	s = strings.TrimSpace(s)
	if s == "" {
		return domain.NotAvailable
	}
	return s
}

func padClock(s string) string {
	h, m, ok := strings.Cut(s, ":")
	if !ok {
		return s
	}
	if n, err := strconv.Atoi(h); err == nil {
		return fmt.Sprintf("%02d:%s", n, m)
	}
	return s
}

func truncateRaw(s string) string {
	if len(s) > 512 {
		return s[:512] + fmt.Sprintf("... [truncated, total_length=%d]", len(s))
	}
	return s
}
