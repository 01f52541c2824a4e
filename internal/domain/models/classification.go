package models

// Statuses used by vendor result envelopes.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// CategoryLabels is the fixed label set the classifier chooses from. The
// parsed category is not re-validated against this list; the labels exist to
// constrain the prompt and the zero-shot candidate set.
var CategoryLabels = []string{
	"human_resources", "engineering", "it_support", "product", "design",
	"sales", "marketing", "finance", "legal", "customer_support",
	"operations", "executive",
}

// ClassificationResult is the normalized output of either classifier backend.
// On error, Category and Confidence are zero-valued and Message explains why.
type ClassificationResult struct {
	Status     string  `json:"status"`
	Category   string  `json:"category,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	Reasoning  string  `json:"reasoning,omitempty"`
	ModelUsed  string  `json:"model_used,omitempty"`
	Message    string  `json:"message,omitempty"`
}
