// internal/domain/homework/verdict.go
package homework

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Verdicts maps a review status code to its human-readable verdict text.
// The table is assembled once at startup and never mutated afterwards.
type Verdicts map[string]string

// DefaultVerdicts returns the built-in status table. The texts are part of
// the bot's contract with its readers and must not be reworded.
func DefaultVerdicts() Verdicts {
	return Verdicts{
		"approved":  "Работа проверена: ревьюеру всё понравилось. Ура!",
		"reviewing": "Работа взята на проверку ревьюером.",
		"rejected":  "Работа проверена: у ревьюера есть замечания.",
	}
}

// MergeYAML extends the table from YAML data mapping status code to verdict
// text. Known codes are overridden, new codes added, so a status the
// built-ins don't cover can be mapped without a rebuild.
func (v Verdicts) MergeYAML(data []byte) error {
	var extra map[string]string
	if err := yaml.Unmarshal(data, &extra); err != nil {
		return fmt.Errorf("parse verdicts file: %w", err)
	}
	for code, text := range extra {
		if strings.TrimSpace(code) == "" {
			return fmt.Errorf("verdicts file contains an empty status code")
		}
		if strings.TrimSpace(text) == "" {
			return fmt.Errorf("verdicts file maps status %q to empty text", code)
		}
		v[code] = text
	}
	return nil
}

// ParseStatus renders the notification text for one homework record. Both
// required fields are checked before the verdict lookup so a single failure
// reports every absent name at once.
func (v Verdicts) ParseStatus(hw Homework) (string, error) {
	var missing []string
	if hw.HomeworkName == nil {
		missing = append(missing, "homework_name")
	}
	if hw.Status == nil {
		missing = append(missing, "status")
	}
	if len(missing) > 0 {
		return "", &SchemaError{MissingKeys: missing}
	}

	verdict, ok := v[*hw.Status]
	if !ok {
		return "", &UnknownVerdictError{Code: *hw.Status}
	}
	return fmt.Sprintf(`Изменился статус проверки работы "%s". %s`, *hw.HomeworkName, verdict), nil
}
