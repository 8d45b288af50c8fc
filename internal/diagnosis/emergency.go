package diagnosis

import "strings"

// emergencyKeywords are single phrases that flag an emergency on their own.
type emergencyRule struct {
	Flag     string
	Keywords []string // all must be present
}

// emergencyRules is the fixed set of high-severity presentations. A rule
// fires when every one of its keywords occurs in the text or in a matched
// symptom name. Checked independently of the confidence tiers.
var emergencyRules = []emergencyRule{
	{Flag: "cardiac_distress", Keywords: []string{"chest pain", "shortness of breath"}},
	{Flag: "heart_attack", Keywords: []string{"heart attack"}},
	{Flag: "stroke", Keywords: []string{"stroke"}},
	{Flag: "not_breathing", Keywords: []string{"not breathing"}},
	{Flag: "unconscious", Keywords: []string{"unconscious"}},
	{Flag: "severe_bleeding", Keywords: []string{"severe bleeding"}},
	{Flag: "seizure", Keywords: []string{"seizure"}},
	{Flag: "anaphylaxis", Keywords: []string{"anaphylaxis"}},
	{Flag: "choking", Keywords: []string{"choking"}},
	{Flag: "overdose", Keywords: []string{"overdose"}},
	{Flag: "suicidal", Keywords: []string{"suicidal"}},
}

// DetectEmergency scans the raw text plus the matched symptom names for
// high-severity presentations. It returns whether any rule fired and the
// flags of every rule that did.
func DetectEmergency(text string, symptomNames []string) (bool, []string) {
	haystack := strings.ToLower(text)
	if len(symptomNames) > 0 {
		haystack += " " + strings.ToLower(strings.Join(symptomNames, " "))
	}

	var flags []string
	for _, rule := range emergencyRules {
		fired := true
		for _, kw := range rule.Keywords {
			if !strings.Contains(haystack, kw) {
				fired = false
				break
			}
		}
		if fired {
			flags = append(flags, rule.Flag)
		}
	}
	return len(flags) > 0, flags
}
