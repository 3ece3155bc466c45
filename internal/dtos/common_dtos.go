package dtos

// PageQuery is the resolved limit/offset of a list request.
type PageQuery struct {
	Limit  int
	Offset int
}

// FieldError names one failed validator rule.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

type UnknownVersionLabels struct {
	Labels []string `json:"labels"`
}

type HealthCheckResponse struct {
	Status string `json:"status"`
}
