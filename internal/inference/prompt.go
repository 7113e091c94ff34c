package inference

import "strings"

// SystemPrompt tells the model how to report its answers so that the answer
// parser can read them back.
const SystemPrompt = `You are an expert tutor answering exam questions captured from a screenshot.

Solve every question you can see. Think step by step, but keep the explanation short.

OUTPUT FORMAT
- End your reply with one line that starts with FINAL_ANSWER:
- Single multiple-choice question: FINAL_ANSWER: <letter>   (for example FINAL_ANSWER: C)
- Several multiple-choice questions: FINAL_ANSWER: <number>:<letter> for each question, separated by spaces
  (for example FINAL_ANSWER: 1:B 2:A,C 3:D). Join letters with commas when a question has several correct options.
- Questions without options (calculations, code, short answers): put the answer right after FINAL_ANSWER:.
  Code goes in a fenced code block on the following lines.
- Use the question numbers printed on the screen when there are any.
- Never put anything after the final answer.`

// BuildUserPrompt builds the user turn for req. Recognized text is inlined so the
// model can use it with or without the image.
func BuildUserPrompt(req SolveRequest) string {
	var b strings.Builder
	if req.Instruction != "" {
		b.WriteString(strings.TrimSpace(req.Instruction))
	} else if len(req.Image) > 0 {
		b.WriteString("Answer the questions in this screenshot.")
	} else {
		b.WriteString("Answer the questions in the text below.")
	}

	if text := strings.TrimSpace(req.OCRText); text != "" {
		b.WriteString("\n\nText recognized on the screen:\n\"\"\"\n")
		b.WriteString(text)
		b.WriteString("\n\"\"\"")
	}
	return b.String()
}
