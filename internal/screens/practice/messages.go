package practice

// nextQuestionMsg asks the screen to fetch the next due question.
type nextQuestionMsg struct{}

// sessionEndMsg ends the session and shows the summary.
type sessionEndMsg struct{}
