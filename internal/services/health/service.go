package health

import "autotask-ml/internal/classifier"

// Status is the health payload.
type Status struct {
	OK         bool   `json:"ok"`
	Strategy   string `json:"strategy"`
	Categories int    `json:"categories"`
}

// Service reports the state of the loaded classifier.
type Service struct {
	strategy classifier.Strategy
}

// NewService constructs a new health service.
func NewService(strategy classifier.Strategy) *Service {
	return &Service{strategy: strategy}
}

// Status returns the health payload. A service without a strategy is not ok.
func (s *Service) Status() Status {
	if s == nil || s.strategy == nil {
		return Status{}
	}
	return Status{
		OK:         s.strategy.Taxonomy().Len() > 0,
		Strategy:   s.strategy.Name(),
		Categories: s.strategy.Taxonomy().Len(),
	}
}
