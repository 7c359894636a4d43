package fakebackend

import (
	"fmt"
	"strings"
)

func number(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case bool:
		if n {
			return 1
		}
	}
	return 0
}

func sumPrefix(body map[string]any, prefix string) float64 {
	var total float64
	for k, v := range body {
		if strings.HasPrefix(k, prefix) {
			total += number(v)
		}
	}
	return total
}

func questionScores(body map[string]any) []float64 {
	list, _ := body["questions"].([]any)
	out := make([]float64, 0, len(list))
	for _, item := range list {
		q, _ := item.(map[string]any)
		out = append(out, number(q["score"]))
	}
	return out
}

func sum(scores []float64) float64 {
	var total float64
	for _, s := range scores {
		total += s
	}
	return total
}

func level(score, max float64) string {
	switch ratio := score / max; {
	case ratio >= 0.75:
		return "good"
	case ratio >= 0.4:
		return "fair"
	}
	return "poor"
}

func scorePHQ9(body map[string]any) map[string]any {
	total := sumPrefix(body, "q")
	var lvl string
	switch {
	case total >= 20:
		lvl = "severe"
	case total >= 15:
		lvl = "moderately severe"
	case total >= 10:
		lvl = "moderate"
	case total >= 5:
		lvl = "mild"
	default:
		lvl = "minimal"
	}
	return map[string]any{"total_score": total, "depression_level": lvl}
}

func scoreNIHSS(body map[string]any) map[string]any {
	total := sumPrefix(body, "nihs_")
	var severity string
	switch {
	case total == 0:
		severity = "no stroke symptoms"
	case total <= 4:
		severity = "minor stroke"
	case total <= 15:
		severity = "moderate stroke"
	default:
		severity = "severe stroke"
	}
	return map[string]any{"total_score": total, "severity": severity}
}

func scoreBP(body map[string]any) map[string]any {
	sys, dia := number(body["systolic"]), number(body["diastolic"])
	var category string
	switch {
	case sys >= 140 || dia >= 90:
		category = "Hypertension Stage 2"
	case sys >= 130 || dia >= 80:
		category = "Hypertension Stage 1"
	case sys >= 120:
		category = "Elevated"
	default:
		category = "Normal"
	}
	return map[string]any{"category": category, "message": fmt.Sprintf("%.0f/%.0f mmHg", sys, dia)}
}

func scoreMovement(body map[string]any) map[string]any {
	scores := questionScores(body)
	part := func(from, to int) float64 {
		if to > len(scores) {
			to = len(scores)
		}
		if from >= to {
			return 0
		}
		return sum(scores[from:to])
	}
	upper, lower, balance := part(0, 5), part(5, 10), part(10, 13)
	total := upper + lower + balance
	return map[string]any{
		"upper_limb_score": upper,
		"lower_limb_score": lower,
		"balance_score":    balance,
		"total_score":      total,
		"upper_limb_level": level(upper, 15),
		"lower_limb_level": level(lower, 15),
		"balance_level":    level(balance, 9),
		"overall_level":    level(total, 39),
		"recommendations":  "Continue daily range-of-motion exercises.",
	}
}

func scoreSpeech(body map[string]any) map[string]any {
	scores := questionScores(body)
	half := min(5, len(scores))
	speech, hearing := sum(scores[:half]), sum(scores[half:])
	total := speech + hearing
	return map[string]any{
		"speech_score":    speech,
		"hearing_score":   hearing,
		"total_score":     total,
		"speech_level":    level(speech, 15),
		"hearing_level":   level(hearing, 15),
		"overall_level":   level(total, 30),
		"recommendations": "Practice reading aloud for ten minutes a day.",
	}
}
