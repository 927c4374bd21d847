package domain

// Grade scores a set of answers (question id -> option id) against a quiz.
// Questions without an answer, or answered with an unknown option, count as
// wrong. A question with no correct option can never be answered correctly.
func Grade(quiz *Quiz, answers map[string]string) GradeResult {
	result := GradeResult{
		QuizID:         quiz.ID,
		TotalQuestions: len(quiz.Questions),
		Answers:        make(map[string]AnswerDetail, len(quiz.Questions)),
	}

	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		key := string(q.ID)

		detail := AnswerDetail{
			Question:    q.Question,
			Explanation: q.Explanation,
		}
		userAnswer, answered := answers[key]
		if answered {
			detail.UserAnswer = &userAnswer
		}
		if correct, ok := q.CorrectOption(); ok {
			detail.CorrectAnswer = &correct
			detail.IsCorrect = answered && userAnswer == correct
		}
		if detail.IsCorrect {
			result.CorrectAnswers++
		}
		result.Answers[key] = detail
	}

	result.Score = ScorePercent(result.CorrectAnswers, result.TotalQuestions)
	result.Passed = result.Score >= PassingScore
	return result
}

// ScorePercent returns correct/total as a percentage, or 0 when total is 0.
func ScorePercent(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(correct) / float64(total) * 100
}
