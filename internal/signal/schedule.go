package signal

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sourceplane/pipeshift/internal/doc"
	"github.com/sourceplane/pipeshift/internal/model"
)

const scheduleTriggerType = "ScheduleTrigger"

// IsScheduleTrigger checks the trigger type at properties.type and at the top level
func IsScheduleTrigger(trigger interface{}) bool {
	propType, _ := doc.Get(trigger, "properties", "type")
	topType, _ := doc.Get(trigger, "type")
	return propType == scheduleTriggerType || topType == scheduleTriggerType
}

// DeriveSchedule turns a schedule trigger's recurrence into a daily cron
// string. When neither hour nor minute can be read, the raw recurrence
// block is returned for a later stage to interpret. Non-schedule triggers
// yield a zero Schedule.
func DeriveSchedule(trigger interface{}) model.Schedule {
	if !IsScheduleTrigger(trigger) {
		return model.Schedule{}
	}

	var typeProps interface{}
	if props, ok := doc.GetMap(trigger, "properties"); ok {
		typeProps = props["typeProperties"]
	} else {
		typeProps, _ = doc.Get(trigger, "typeProperties")
	}
	if typeProps == nil {
		typeProps = map[string]interface{}{}
	}

	recurrence, _ := doc.GetMap(typeProps, "recurrence")
	schedule, _ := doc.GetMap(recurrence, "schedule")

	minute, minuteOK := firstInt(schedule["minutes"])
	hour, hourOK := firstInt(schedule["hours"])

	if !minuteOK || !hourOK {
		if start, ok := recurrence["startTime"].(string); ok {
			hour, hourOK, minute, minuteOK = fromStartTime(start, hour, hourOK, minute, minuteOK)
		}
	}

	if !minuteOK && !hourOK {
		if len(recurrence) > 0 {
			return model.Schedule{Raw: recurrence}
		}
		return model.Schedule{Raw: typeProps}
	}

	return model.Schedule{Cron: fmt.Sprintf("%s %s * * *", cronField(minute, minuteOK), cronField(hour, hourOK))}
}

// fromStartTime fills the unknown slots from the hour:minute part of an
// ISO-8601 start time such as 2024-01-01T03:30:00Z.
func fromStartTime(start string, hour int, hourOK bool, minute int, minuteOK bool) (int, bool, int, bool) {
	_, clock, found := strings.Cut(start, "T")
	if !found {
		return hour, hourOK, minute, minuteOK
	}
	parts := strings.Split(clock, ":")
	if len(parts) < 2 {
		return hour, hourOK, minute, minuteOK
	}

	if !hourOK {
		h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return hour, hourOK, minute, minuteOK
		}
		hour, hourOK = h, true
	}
	if !minuteOK {
		if m, err := strconv.Atoi(strings.TrimSpace(parts[1])); err == nil {
			minute, minuteOK = m, true
		}
	}
	return hour, hourOK, minute, minuteOK
}

// firstInt reads the first element of a list, or a bare integer
func firstInt(v interface{}) (int, bool) {
	if list, ok := doc.Slice(v); ok {
		if len(list) == 0 {
			return 0, false
		}
		return doc.Int(list[0])
	}
	switch v.(type) {
	case nil, string:
		return 0, false
	}
	return doc.Int(v)
}

func cronField(v int, ok bool) string {
	if !ok {
		return "*"
	}
	return strconv.Itoa(v)
}
