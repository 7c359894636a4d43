// Package present turns assessment and history data into translated text.
package present

import (
	"fmt"
	"sort"
	"strings"

	assessmentdto "rehab/internal/modules/assessment/dto"
)

type Translator interface {
	T(key string, args ...any) string
}

// Result renders the summary lines of a scoring result. Values are printed as
// the backend returned them.
func Result(tr Translator, r assessmentdto.ResultOutput) []string {
	f := r.Fields
	switch r.Type {
	case "phq9":
		return []string{tr.T("result.phq9", f["depression_level"], f["total_score"])}
	case "nihss":
		lines := []string{tr.T("result.nihss", f["severity"])}
		if r.HasScore {
			lines = append(lines, tr.T("result.score", f["total_score"]))
		}
		return lines
	case "blood_pressure":
		return []string{tr.T("result.blood_pressure", f["category"])}
	case "movement":
		return []string{
			tr.T("result.movement", f["upper_limb_score"], f["lower_limb_score"], f["balance_score"], f["total_score"]),
			tr.T("result.level", f["overall_level"]),
		}
	case "speech_hearing":
		return []string{
			tr.T("result.speech_hearing", f["speech_score"], f["hearing_score"], f["total_score"]),
			tr.T("result.level", f["overall_level"]),
		}
	}
	lines := []string{r.Severity}
	if r.HasScore {
		lines = append(lines, tr.T("result.score", r.Score))
	}
	return lines
}

// FieldLabel prefers the question text of the assessment, then the shared
// field label, then the raw name.
func FieldLabel(tr Translator, assessmentType, field string) string {
	if label := tr.T(assessmentType + "." + field); label != assessmentType+"."+field {
		return label
	}
	if label := tr.T("field." + field); label != "field."+field {
		return label
	}
	return field
}

func Issue(tr Translator, issue assessmentdto.FieldIssue) string {
	switch issue.Code {
	case "range":
		return tr.T("form.range", issue.Min, issue.Max)
	case "integer":
		return tr.T("form.integer")
	case "bool":
		return tr.T("form.bool")
	default:
		return tr.T("form.required")
	}
}

// Hint describes the accepted values of a field.
func Hint(field assessmentdto.FieldInfo) string {
	switch field.Kind {
	case "int":
		return fmt.Sprintf("%d–%d", field.Min, field.Max)
	case "bool":
		if field.Default != "" {
			return "yes/no, default " + field.Default
		}
		return "yes/no"
	}
	return ""
}

// Data renders stored result fields as sorted "key: value" lines.
func Data(data map[string]any) []string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s: %s", strings.ReplaceAll(k, "_", " "), value(data[k])))
	}
	return lines
}

func value(v any) string {
	switch x := v.(type) {
	case nil:
		return "—"
	case []any:
		parts := make([]string, len(x))
		for i, p := range x {
			parts[i] = value(p)
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		if id, ok := x["id"]; ok {
			return fmt.Sprintf("#%v=%v", id, x["score"])
		}
		return fmt.Sprint(x)
	}
	return fmt.Sprint(v)
}
