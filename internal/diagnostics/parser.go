// Package diagnostics turns the text output of a validation run into
// per-file diagnostic groups.
package diagnostics

import (
	"regexp"
	"sort"
	"strings"

	"github.com/sourceplane/pipeshift/internal/model"
)

// Block tags that start a diagnostic block
const (
	TagErrorOccurred       = "ERROR_OCCURRED"
	TagTaskLevelError      = "DAG_VALIDATION_ERROR_TASK_LEVEL"
	TagBaseLevelError      = "DAG_VALIDATION_ERROR_BASE_LEVEL"
	TagCLIValidationFailed = "CLI_DAG_VALIDATION_FAILED"
	TagDAGValidationFailed = "DAG_VALIDATION_FAILED"
)

var blockStart = regexp.MustCompile(`\[(` + strings.Join([]string{
	TagErrorOccurred,
	TagTaskLevelError,
	TagBaseLevelError,
	TagCLIValidationFailed,
	TagDAGValidationFailed,
}, "|") + `)\]`)

var (
	fileLabels     = []string{"Yaml File", "YAML File", "File Name"}
	messageLabels  = []string{"Error Message:", "Technical Message:", "User Message:"}
	defaultMessage = map[string]string{
		TagDAGValidationFailed: "DAG validation failed",
		TagCLIValidationFailed: "CLI DAG validation failed",
	}
)

type block struct {
	tag   string
	lines []string
}

// Parse groups the diagnostics found in raw by file path. Groups are sorted
// by path; diagnostics keep their order of appearance. Text that holds no
// recognizable block yields an empty result.
func Parse(raw string) []model.FileDiagnostics {
	if raw == "" {
		return []model.FileDiagnostics{}
	}

	groups := make(map[string]*model.FileDiagnostics)
	lastFile := ""

	for _, b := range splitBlocks(splitLines(raw)) {
		file := field(b.lines, fileLabels...)
		if file == nil && lastFile != "" {
			file = &lastFile
		}
		if file == nil {
			continue
		}
		path := NormalizeFilePath(*file)
		if path == "" {
			continue
		}
		lastFile = path

		group, ok := groups[path]
		if !ok {
			group = &model.FileDiagnostics{
				FilePath: path,
				FileType: FileTypeOf(path),
				Errors:   []model.Diagnostic{},
			}
			groups[path] = group
		}

		d := parseBlock(b)
		if !empty(d) {
			group.Errors = append(group.Errors, d)
		}
	}

	out := make([]model.FileDiagnostics, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FilePath < out[j].FilePath })
	return out
}

func parseBlock(b block) model.Diagnostic {
	message := messageField(b.lines)
	if message == nil {
		if m, ok := defaultMessage[b.tag]; ok {
			message = &m
		}
	}
	return model.Diagnostic{
		ErrorCode: field(b.lines, "Error Code"),
		Category:  field(b.lines, "Category"),
		Severity:  field(b.lines, "Severity"),
		YAMLKey:   field(b.lines, "Yaml Key", "YAML Key"),
		Message:   message,
		TaskName:  field(b.lines, "Task Name"),
		Tag:       b.tag,
	}
}

func empty(d model.Diagnostic) bool {
	return d.ErrorCode == nil && d.Category == nil && d.Severity == nil &&
		d.YAMLKey == nil && d.Message == nil && d.TaskName == nil
}

func splitLines(raw string) []string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	return strings.Split(strings.TrimSuffix(raw, "\n"), "\n")
}

// splitBlocks cuts lines into blocks, each running from a tagged line up
// to the next one. Lines before the first tag are ignored.
func splitBlocks(lines []string) []block {
	var blocks []block
	for i := 0; i < len(lines); {
		m := blockStart.FindStringSubmatch(lines[i])
		if m == nil {
			i++
			continue
		}
		start := i
		i++
		for i < len(lines) && !blockStart.MatchString(lines[i]) {
			i++
		}
		blocks = append(blocks, block{tag: m[1], lines: lines[start:i]})
	}
	return blocks
}

// field returns the text after the last colon of the first line holding a
// label. Labels are tried in order across all lines before the next label.
func field(lines []string, labels ...string) *string {
	for _, label := range labels {
		for _, line := range lines {
			if !strings.Contains(line, label) {
				continue
			}
			idx := strings.LastIndex(line, ":")
			if idx < 0 {
				return nil
			}
			return nonEmpty(line[idx+1:])
		}
	}
	return nil
}

// messageField keeps everything after the first colon, since messages often
// contain colons themselves.
func messageField(lines []string) *string {
	for _, label := range messageLabels {
		for _, line := range lines {
			if !strings.Contains(line, label) {
				continue
			}
			_, after, _ := strings.Cut(line, ":")
			return nonEmpty(after)
		}
	}
	return nil
}

func nonEmpty(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// NormalizeFilePath trims whitespace and quoting, and collapses a leading
// double slash to a single one.
func NormalizeFilePath(raw string) string {
	path := strings.Trim(strings.TrimSpace(raw), "`'\"")
	if strings.HasPrefix(path, "//") {
		return path[1:]
	}
	return path
}

// FileTypeOf classifies a path by extension
func FileTypeOf(path string) model.FileType {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".yaml"), strings.HasSuffix(lower, ".yml"):
		return model.FileTypeYAML
	case strings.HasSuffix(lower, ".py"):
		return model.FileTypePython
	case strings.HasSuffix(lower, ".ipynb"):
		return model.FileTypeNotebook
	}
	return model.FileTypeUnknown
}

// CombineOutput joins the non-blank parts of a command's output streams
func CombineOutput(stdout, stderr string) string {
	parts := make([]string, 0, 2)
	for _, s := range []string{stdout, stderr} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n")
}
