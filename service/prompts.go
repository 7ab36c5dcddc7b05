package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Netcracker/qubership-roadmap-service/client"
	"github.com/Netcracker/qubership-roadmap-service/view"
	"github.com/tmc/langchaingo/prompts"
)

type llmCallSettings struct {
	temperature float64
	maxTokens   int64
}

var (
	validateTopicSettings   = llmCallSettings{temperature: 0.3, maxTokens: 150}
	questionsSettings       = llmCallSettings{temperature: 0.7, maxTokens: 250}
	validateAndAskSettings  = llmCallSettings{temperature: 0.5, maxTokens: 400}
	generateRoadmapSettings = llmCallSettings{temperature: 0.1, maxTokens: 2000}
)

const jsonOnlyInstruction = "IMPORTANT: Return ONLY the JSON object, no markdown formatting or additional text."

const validTopicKinds = `Valid topics:
- Programming languages (Python, JavaScript, Go)
- Frameworks and libraries (React, Django, Spring)
- Technologies and tools (Docker, Kubernetes, PostgreSQL)
- Development stacks (MERN, MEAN, LAMP)
- Skills and fields (Data Science, Machine Learning, DevOps)
- Broad areas (Web Development, Mobile Development)

Invalid topics:
- General life questions (how to make friends)
- Personal problems
- Anything that is not a technical subject`

const validateTopicSystemPrompt = `You validate learning topics for a roadmap generator.
Read the user's input, which may be a full sentence, and pick out the main technology or skill they want to learn.
When several topics are mentioned, choose the main one.

` + validTopicKinds + `

Answer with a JSON object:
{
  "isValid": boolean,
  "extractedTopic": "the learning topic taken from the input",
  "reason": "short explanation of the decision",
  "example": "a valid topic close to the input when the input is invalid, otherwise null"
}

` + jsonOnlyInstruction

const questionRules = `Question rules:
1. The first question asks about the learner's current experience with the topic and the technologies around it.
2. The second question asks which path or stack they prefer, based on the learning paths above.
3. The third question asks how much content the roadmap should include (for example "just the essentials", "balanced", "comprehensive", "quick overview", "deep dive").
4. Keep each question short and specific to the topic.`

const questionsSystemPrompt = `You write the questions used to personalise a learning roadmap.
Produce exactly three questions for the topic given by the user.

%s

` + questionRules + `

Answer with a JSON object:
{
  "questions": ["first question", "second question", "third question"]
}

` + jsonOnlyInstruction

const validateAndAskSystemPrompt = `You validate learning topics and write personalisation questions for a roadmap generator.

Step 1. Validate the topic.
Pick out the main technology or skill from the user's input, even when it is written as a sentence.

` + validTopicKinds + `

Step 2. When the topic is valid, write three questions using these learning paths:

%s

` + questionRules + `

Answer with a JSON object:
{
  "validation": {
    "isValid": boolean,
    "extractedTopic": "the learning topic taken from the input",
    "reason": "short explanation of the decision",
    "example": "a valid topic close to the input when the input is invalid"
  },
  "questions": ["first question", "second question", "third question"]
}
The "questions" array must be empty when isValid is false.

` + jsonOnlyInstruction

const roadmapSystemPrompt = `You design learning roadmaps made of concrete tools and technologies.

Rules for the main path:
- It is one sequential path. Every item is a specific tool, language or technology (for example "HTML", "Git", "React"), never a vague concept.
- It has between 12 and 15 items, ordered so that each item builds on the previous ones.
- Every item has a one sentence description and a difficulty of beginner, intermediate or advanced.
- Follow the learning paths below when they apply to the topic.

%s

JSON rules:
- Use double quotes for every key and string value.
- No trailing commas, no comments.
- Escape quotes and newlines inside strings.

The answer must match this JSON schema:
%s

` + jsonOnlyInstruction

var roadmapUserTemplate = prompts.NewPromptTemplate(
	`I want to learn {{.topic}}.

My current experience level: {{.experienceLevel}}

My learning goals: {{.learningGoal}}

Content amount preference: {{.contentAmount}}

Please create a simple roadmap of specific tools and technologies I should learn, in order.`,
	[]string{"topic", "experienceLevel", "learningGoal", "contentAmount"},
)

var questionsUserTemplate = prompts.NewPromptTemplate(
	`Generate three questions for someone who wants to learn {{.topic}}.`,
	[]string{"topic"},
)

func buildQuestionsSystemPrompt(catalogContext string) string {
	return fmt.Sprintf(questionsSystemPrompt, catalogContext)
}

func buildValidateAndAskSystemPrompt(catalogContext string) string {
	return fmt.Sprintf(validateAndAskSystemPrompt, catalogContext)
}

func buildRoadmapSystemPrompt(catalogContext string) (string, error) {
	schema, err := json.MarshalIndent(client.GenerateSchema[view.GeneratedRoadmapSchema](), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to render roadmap schema: %w", err)
	}
	return fmt.Sprintf(roadmapSystemPrompt, catalogContext, schema), nil
}

func buildQuestionsUserMessage(topic string) (string, error) {
	return questionsUserTemplate.Format(map[string]any{"topic": topic})
}

func buildRoadmapUserMessage(req view.GenerationReq) (string, error) {
	return roadmapUserTemplate.Format(map[string]any{
		"topic":           req.Topic,
		"experienceLevel": valueOrNotSpecified(req.ExperienceLevel),
		"learningGoal":    valueOrNotSpecified(req.LearningGoal),
		"contentAmount":   valueOrNotSpecified(req.ContentAmount),
	})
}

func valueOrNotSpecified(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "Not specified"
	}
	return s
}
