package view

type LLMCallType string

const (
	CallValidateTopic     LLMCallType = "validateTopic"
	CallGenerateQuestions LLMCallType = "generateQuestions"
	CallValidateAndAsk    LLMCallType = "validateAndGenerateQuestions"
	CallGenerateRoadmap   LLMCallType = "generateRoadmap"
)

type LLMCallTypeMetrics struct {
	Calls          int   `json:"calls"`
	AverageLatency int64 `json:"averageLatencyMs"`
	AverageTokens  int64 `json:"averageTokens"`
}

type LLMMetrics struct {
	Calls          int                                `json:"calls"`
	Successes      int                                `json:"successes"`
	Failures       int                                `json:"failures"`
	TotalTokens    int64                              `json:"totalTokens"`
	AverageLatency int64                              `json:"averageLatencyMs"`
	CallTypes      map[LLMCallType]LLMCallTypeMetrics `json:"callTypes"`
}

type UpdateModelReq struct {
	Model string `json:"model"`
}
