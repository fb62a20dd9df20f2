package homework

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	StatusApproved  = "approved"
	StatusReviewing = "reviewing"
	StatusRejected  = "rejected"
)

var defaultVerdicts = map[string]string{
	StatusApproved:  "Работа проверена: ревьюеру всё понравилось. Ура!",
	StatusReviewing: "Работа взята на проверку ревьюером.",
	StatusRejected:  "Работа проверена: у ревьюера есть замечания.",
}

// Verdicts maps a homework status to its human-readable description.
// The set is fixed at construction; there are no mutators.
type Verdicts struct {
	m map[string]string
}

// DefaultVerdicts returns the built-in approved/reviewing/rejected table.
func DefaultVerdicts() Verdicts {
	v, _ := NewVerdicts(defaultVerdicts)
	return v
}

// NewVerdicts copies m. Empty statuses or texts are rejected.
func NewVerdicts(m map[string]string) (Verdicts, error) {
	if len(m) == 0 {
		return Verdicts{}, fmt.Errorf("verdicts: empty table")
	}
	out := make(map[string]string, len(m))
	for status, text := range m {
		status, text = strings.TrimSpace(status), strings.TrimSpace(text)
		if status == "" || text == "" {
			return Verdicts{}, fmt.Errorf("verdicts: empty status or text in entry %q", status)
		}
		out[status] = text
	}
	return Verdicts{m: out}, nil
}

// LoadVerdicts reads a YAML mapping of status -> text. An empty path
// yields the defaults.
func LoadVerdicts(path string) (Verdicts, error) {
	if path == "" {
		return DefaultVerdicts(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Verdicts{}, fmt.Errorf("read verdicts: %w", err)
	}
	var m map[string]string
	if err := yaml.Unmarshal(b, &m); err != nil {
		return Verdicts{}, fmt.Errorf("parse verdicts %s: %w", path, err)
	}
	return NewVerdicts(m)
}

// Lookup returns the verdict text for status.
func (v Verdicts) Lookup(status string) (string, bool) {
	text, ok := v.m[status]
	return text, ok
}

// Statuses lists the known statuses in sorted order.
func (v Verdicts) Statuses() []string {
	out := make([]string, 0, len(v.m))
	for s := range v.m {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// ParseStatus builds the notification text for one homework record.
func (v Verdicts) ParseStatus(homework any) (string, error) {
	hw, _ := homework.(map[string]any)
	if len(hw) == 0 {
		return "", fmt.Errorf("%w: homework record is empty", ErrMissingField)
	}
	name, _ := hw[keyName].(string)
	if name == "" {
		return "", fmt.Errorf("%w: no %q in homework", ErrMissingField, keyName)
	}
	status, _ := hw[keyStatus].(string)
	if status == "" {
		return "", fmt.Errorf("%w: no %q in homework %q", ErrMissingField, keyStatus, name)
	}
	verdict, ok := v.Lookup(status)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, status)
	}
	return fmt.Sprintf("Status changed for work item \"%s\". %s", name, verdict), nil
}
