package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sourceplane/pipeshift/internal/model"
)

// ViewSignals returns a human-readable tree of a signal set
func ViewSignals(set *model.SignalSet) string {
	var sb strings.Builder
	p := set.Pipeline

	sb.WriteString(fmt.Sprintf("%s [%s/%s]\n", p.Pipeline, p.Zone, p.Domain))
	sb.WriteString(fmt.Sprintf("├─ source system: %s\n", p.SourceSystem))
	if sched := p.Schedule.Value(); sched != nil {
		sb.WriteString(fmt.Sprintf("├─ schedule: %v\n", sched))
	}
	sb.WriteString(fmt.Sprintf("├─ counts: bronze=%d silver=%d\n", p.Counts.Bronze, p.Counts.Silver))

	if len(set.Tables) == 0 {
		sb.WriteString("└─ no tables\n")
		return sb.String()
	}

	entities := make([]string, 0, len(set.Tables))
	for entity := range set.Tables {
		entities = append(entities, entity)
	}
	sort.Strings(entities)

	sb.WriteString("└─ tables\n")
	for i, entity := range entities {
		t := set.Tables[entity]
		prefix := "   ├─ "
		if i == len(entities)-1 {
			prefix = "   └─ "
		}
		sb.WriteString(fmt.Sprintf("%s%s [%s] %s (transformations:%s acl:%s)\n",
			prefix, entity, t.TargetLayer, t.TableName, t.Transformations, t.ACL))
	}
	return sb.String()
}

// ViewReport returns a human-readable tree of a validation report
func ViewReport(report *Report) string {
	var sb strings.Builder

	status := "passed"
	if !report.Passed {
		status = fmt.Sprintf("failed (exit %d)", report.ReturnCode)
	}
	sb.WriteString(fmt.Sprintf("Validation %s: %d error(s) in %d file(s)\n", status, report.ErrorCount(), len(report.Files)))

	for i, file := range report.Files {
		isLastFile := i == len(report.Files)-1

		filePrefix := "├─ "
		connector := "│  "
		if isLastFile {
			filePrefix = "└─ "
			connector = "   "
		}
		sb.WriteString(fmt.Sprintf("%s%s [%s]\n", filePrefix, file.FilePath, file.FileType))

		for j, d := range file.Errors {
			errPrefix := connector + "├─ "
			if j == len(file.Errors)-1 {
				errPrefix = connector + "└─ "
			}

			line := fmt.Sprintf("%s%s", errPrefix, d.Tag)
			if d.ErrorCode != nil {
				line += fmt.Sprintf(" %s", *d.ErrorCode)
			}
			if d.YAMLKey != nil {
				line += fmt.Sprintf(" (%s)", *d.YAMLKey)
			}
			if d.Message != nil {
				line += ": " + *d.Message
			}
			sb.WriteString(line + "\n")
		}
	}
	return sb.String()
}
