package quiz

const standardTemplate = `
You are a university exam question writer. Based on the content below, generate 3 questions:

Instructions:
- Include 2 multiple choice questions and 1 short answer question.
- Each question must include the correct answer.
- Use the following format:

Q1: ...
A1: ...
Q2: ...
A2: ...
Q3: ...
A3: ...

Content:
%s
`

const singleShortAnswerTemplate = `
You are a university tutor. Based on the content below, generate 1 short answer question.

Instructions:
- Do NOT include multiple choice questions.
- Include the correct answer after the question.
- Use the following format:

Q1: ...
A1: ...

Content:
%s
`
