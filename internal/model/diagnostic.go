package model

// FileType classifies a diagnosed file by extension
type FileType string

const (
	FileTypeYAML     FileType = "yaml"
	FileTypePython   FileType = "py"
	FileTypeNotebook FileType = "ipynb"
	FileTypeUnknown  FileType = "unknown"
)

// Diagnostic is one block of validation output. Nil fields were not present.
type Diagnostic struct {
	ErrorCode *string `yaml:"error_code" json:"error_code"`
	Category  *string `yaml:"category" json:"category"`
	Severity  *string `yaml:"severity" json:"severity"`
	YAMLKey   *string `yaml:"yaml_key" json:"yaml_key"`
	Message   *string `yaml:"message" json:"message"`
	TaskName  *string `yaml:"task_name" json:"task_name"`
	Tag       string  `yaml:"tag" json:"tag"`
}

// FileDiagnostics groups diagnostics reported against one file
type FileDiagnostics struct {
	FilePath string       `yaml:"file_path" json:"file_path"`
	FileType FileType     `yaml:"file_type" json:"file_type"`
	Errors   []Diagnostic `yaml:"errors" json:"errors"`
}
