package fakebackend

import (
	"encoding/json"
	"net/http"
)

type measurement struct {
	Systolic  float64 `json:"systolic"`
	Diastolic float64 `json:"diastolic"`
}

func (b *Backend) bpTrend(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Measurements []measurement `json:"measurements"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		detail(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	b.answerBP(w, r.URL.Path, body.Measurements)
}

func (b *Backend) bpAlert(w http.ResponseWriter, r *http.Request) {
	var body []measurement
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		detail(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	b.answerBP(w, r.URL.Path, body)
}

func (b *Backend) answerBP(w http.ResponseWriter, path string, ms []measurement) {
	if len(ms) == 0 {
		detail(w, http.StatusInternalServerError, "need at least one measurement")
		return
	}
	sys := make([]float64, len(ms))
	dia := make([]float64, len(ms))
	for i, m := range ms {
		sys[i], dia[i] = m.Systolic, m.Diastolic
	}
	b.mu.Lock()
	b.series[path] = sys
	b.mu.Unlock()
	status, warning := bpStatus(sys, dia)
	writeJSON(w, http.StatusOK, map[string]string{"status": status, "warning": warning})
}

// bpStatus checks the last three days for danger, then the fitted slope, then
// the spread.
func bpStatus(sys, dia []float64) (string, string) {
	danger := true
	for i := max(0, len(sys)-3); i < len(sys); i++ {
		if sys[i] <= 140 || dia[i] <= 90 {
			danger = false
		}
	}
	switch {
	case danger:
		return "Danger", "Blood pressure dangerously high for 3+ days. Seek medical attention."
	case slope(sys) > 0.5 || slope(dia) > 0.5:
		return "Rising", "Blood pressure is rising. Monitor closely."
	case spread(sys) > 20 || spread(dia) > 10:
		return "Fluctuating", "Blood pressure is fluctuating. Check for irregularities."
	}
	return "Stable", "Blood pressure is stable."
}

// slope is the least-squares slope of ys against 0..n-1.
func slope(ys []float64) float64 {
	n := float64(len(ys))
	var sx, sy, sxy, sxx float64
	for i, y := range ys {
		x := float64(i)
		sx += x
		sy += y
		sxy += x * y
		sxx += x * x
	}
	den := n*sxx - sx*sx
	if den == 0 {
		return 0
	}
	return (n*sxy - sx*sy) / den
}

func spread(ys []float64) float64 {
	lo, hi := ys[0], ys[0]
	for _, y := range ys {
		lo, hi = min(lo, y), max(hi, y)
	}
	return hi - lo
}

func (b *Backend) phqTrend(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Scores []int `json:"scores"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		detail(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	recorded := make([]float64, len(body.Scores))
	for i, s := range body.Scores {
		recorded[i] = float64(s)
	}
	b.mu.Lock()
	b.series[r.URL.Path] = recorded
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"trend_status": phqStatus(body.Scores)})
}

// phqStatus compares the last three scores.
func phqStatus(s []int) string {
	n := len(s)
	switch {
	case n < 3:
		return "stable"
	case s[n-1] > s[n-2] && s[n-2] > s[n-3]:
		return "worsening"
	case s[n-1] < s[n-2] && s[n-2] < s[n-3]:
		return "improving"
	}
	return "stable"
}
