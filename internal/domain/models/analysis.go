package models

// CommentAnalysis is the structured support-quality report returned by the
// analyzer model. All fields are optional; the comment formatter tolerates
// any of them being absent.
type CommentAnalysis struct {
	Summary                string   `json:"summary,omitempty"`
	Sentiment              string   `json:"sentiment,omitempty"`
	SatisfactionLikelihood string   `json:"satisfaction_likelihood,omitempty"`
	PainPoints             []string `json:"pain_points,omitempty"`
	AgentEmpathyScore      int      `json:"agent_empathy_score,omitempty"`
	ClarityScore           int      `json:"clarity_score,omitempty"`
	ResolutionConfidence   string   `json:"resolution_confidence,omitempty"`
	FrustrationSignals     []string `json:"frustration_signals,omitempty"`
	ActionRecommendations  []string `json:"action_recommendations,omitempty"`
}

// AnalyzerResult wraps the raw generated content from the analyzer call
// before it is parsed into a CommentAnalysis.
type AnalyzerResult struct {
	Status           string `json:"status"`
	Message          string `json:"message,omitempty"`
	ModelUsed        string `json:"model_used,omitempty"`
	GeneratedContent string `json:"generated_content,omitempty"`
	CommentsAnalyzed int    `json:"comments_analyzed,omitempty"`
}
