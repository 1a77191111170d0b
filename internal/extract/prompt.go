package extract

import (
	"encoding/json"
	"fmt"
	"strings"
)

const aiSystemPrompt = "You parse rows of Indonesian drilling workover daily reports into structured JSON. Return ONLY the JSON object, no additional text."

// BuildPrompts returns the fixed system prompt and the user prompt for one row.
func BuildPrompts(row string) (string, string) {
	schema, _ := json.MarshalIndent(RowJSONSchema(), "", "  ")

	var b strings.Builder
	b.WriteString("Parse this drilling workover data row into structured JSON format.\n")
	b.WriteString("The row is in Indonesian language.\n\n")
	fmt.Fprintf(&b, "Row: %q\n\n", strings.TrimSpace(row))
	b.WriteString("Extract the following information into a JSON object:\n")
	b.WriteString("{\n")
	fmt.Fprintf(&b, "  %q: \"HH:MM format\",\n", KeyStartTime)
	fmt.Fprintf(&b, "  %q: \"HH:MM format\",\n", KeyEndTime)
	fmt.Fprintf(&b, "  %q: float,\n", KeyDuration)
	fmt.Fprintf(&b, "  %q: \"string describing equipment and operation\",\n", KeyEquipment)
	fmt.Fprintf(&b, "  %q: \"string describing depth interval\",\n", KeyDepth)
	fmt.Fprintf(&b, "  %q: \"string describing initial condition/main result\"\n", KeyCondition)
	b.WriteString("}\n\n")
	b.WriteString("JSON Schema:\n")
	b.Write(schema)
	b.WriteString("\n\n")
	b.WriteString("Rules:\n")
	b.WriteString("1. Time format should be HH:MM (24-hour format)\n")
	b.WriteString("2. Convert durations like \"3.0\" to float 3.0\n")
	b.WriteString("3. Keep all Indonesian text as is\n")
	fmt.Fprintf(&b, "4. If information is missing, use %q\n", "N/A")
	b.WriteString("5. Handle midnight times properly (00:00 is next day)\n\n")
	b.WriteString("Return ONLY the JSON object, no additional text.")
	return aiSystemPrompt, b.String()
}
