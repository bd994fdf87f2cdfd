package dedup

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Rule names a canonical club and the variant spellings that should collapse
// into it. Location narrows every lookup when set.
type Rule struct {
	Canonical string   `yaml:"canonical" json:"canonical" validate:"required"`
	Variants  []string `yaml:"variants" json:"variants" validate:"required,min=1,dive,required"`
	Location  string   `yaml:"location,omitempty" json:"location,omitempty"`
}

// Label renders the rule for logs and summaries.
func (r Rule) Label() string {
	if r.Location != "" {
		return r.Canonical + " (" + r.Location + ")"
	}
	return r.Canonical
}

// RuleSet is the document shape of a rules file.
type RuleSet struct {
	Rules []Rule `yaml:"rules" validate:"dive"`
}

var ruleValidator = validator.New(validator.WithRequiredStructEnabled())

// LoadRules reads and validates a YAML rules file.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	rules, err := ParseRules(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rules, nil
}

// ParseRules decodes a rules document. Unknown keys are rejected so a typo
// cannot silently disable a rule.
func ParseRules(r io.Reader) ([]Rule, error) {
	var set RuleSet
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&set); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("parse rules: %w", err)
	}
	for i := range set.Rules {
		rule := &set.Rules[i]
		rule.Canonical = strings.TrimSpace(rule.Canonical)
		rule.Location = strings.TrimSpace(rule.Location)
		for j := range rule.Variants {
			rule.Variants[j] = strings.TrimSpace(rule.Variants[j])
		}
	}
	if err := ruleValidator.Struct(set); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return nil, fmt.Errorf("invalid rule: %s failed %q", fe.Namespace(), fe.Tag())
		}
		return nil, fmt.Errorf("invalid rules: %w", err)
	}
	return set.Rules, nil
}
