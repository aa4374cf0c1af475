package classification

// LabelScore is one ranked classifier answer.
type LabelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Result is a ranking ordered by descending score.
type Result struct {
	Ranked []LabelScore
}

func (r Result) Labels() []string {
	out := make([]string, 0, len(r.Ranked))
	for _, ls := range r.Ranked {
		out = append(out, ls.Label)
	}
	return out
}

func (r Result) Scores() []float64 {
	out := make([]float64, 0, len(r.Ranked))
	for _, ls := range r.Ranked {
		out = append(out, ls.Score)
	}
	return out
}

type GroupedLabel struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
	Group string  `json:"group"`
}

// GroupedResult attaches the group of the top-scoring label.
type GroupedResult struct {
	Category   string         `json:"category"`
	Confidence float64        `json:"confidence"`
	Group      string         `json:"group"`
	All        []GroupedLabel `json:"all"`
}
