package quiz

type QuestionView struct {
	Number  int      `json:"number"`
	Total   int      `json:"total"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
}

type View struct {
	Topic    string        `json:"topic"`
	Score    int           `json:"score"`
	Total    int           `json:"total"`
	Finished bool          `json:"finished"`
	Feedback *Feedback     `json:"feedback,omitempty"`
	Question *QuestionView `json:"question,omitempty"`
	Review   []ReviewItem  `json:"review,omitempty"`
}

func (q *Quiz) View() View {
	v := View{
		Topic:    q.Topic,
		Score:    q.score,
		Total:    len(q.questions),
		Finished: q.Finished(),
	}

	if q.feedback != nil {
		fb := *q.feedback
		v.Feedback = &fb
	}

	if v.Finished {
		v.Review, _ = q.Review()
		return v
	}

	current := q.questions[q.current]
	v.Question = &QuestionView{
		Number:  q.current + 1,
		Total:   len(q.questions),
		Prompt:  current.Prompt,
		Options: append([]string(nil), current.Options...),
	}

	return v
}
