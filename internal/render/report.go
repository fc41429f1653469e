package render

import (
	"github.com/google/uuid"
	"github.com/sourceplane/pipeshift/internal/model"
)

// Report is the outcome of one validation run
type Report struct {
	RunID      string                  `yaml:"run_id" json:"run_id"`
	Layer      model.Layer             `yaml:"layer,omitempty" json:"layer,omitempty"`
	Passed     bool                    `yaml:"passed" json:"passed"`
	ReturnCode int                     `yaml:"return_code" json:"return_code"`
	Files      []model.FileDiagnostics `yaml:"files" json:"files"`
}

// NewReport stamps a fresh run id on a validation outcome
func NewReport(layer model.Layer, returnCode int, files []model.FileDiagnostics) *Report {
	if files == nil {
		files = []model.FileDiagnostics{}
	}
	return &Report{
		RunID:      uuid.NewString(),
		Layer:      layer,
		Passed:     returnCode == 0,
		ReturnCode: returnCode,
		Files:      files,
	}
}

// ErrorCount totals the diagnostics across files
func (r *Report) ErrorCount() int {
	n := 0
	for _, f := range r.Files {
		n += len(f.Errors)
	}
	return n
}
