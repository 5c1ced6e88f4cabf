package goalfile

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/stefanpenner/planlog/pkg/store"
)

// ParseError reports a document that is not valid TOML or lacks a required
// table or field. Line and Column are set when the position is known.
type ParseError struct {
	Line   int
	Column int
	Msg    string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("invalid goal document (line %d, column %d): %s", e.Line, e.Column, e.Msg)
	}
	return "invalid goal document: " + e.Msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// document is the raw TOML shape. Pointers and any distinguish absent keys
// from empty values.
type document struct {
	Goal  *goalTable  `toml:"goal"`
	Plans []planTable `toml:"plans"`
	Logs  []logTable  `toml:"logs"`
}

type goalTable struct {
	Title       *string `toml:"title"`
	Description *string `toml:"description"`
	StartDate   any     `toml:"start_date"`
	EndDate     any     `toml:"end_date"`
}

type planTable struct {
	Title       *string `toml:"title"`
	Description *string `toml:"description"`
	StartDate   any     `toml:"start_date"`
	EndDate     any     `toml:"end_date"`
}

type logTable struct {
	Date         any      `toml:"date"`
	Content      *string  `toml:"content"`
	RelatedPlans []string `toml:"related_plans"`
}

// Decode parses a goal document. Any failure is a *ParseError and no
// partial result is returned. Dates are not validated.
func Decode(text string) (*Config, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &ParseError{Msg: "document is empty"}
	}

	var doc document
	if err := toml.Unmarshal([]byte(text), &doc); err != nil {
		return nil, tomlError(err)
	}

	if doc.Goal == nil {
		return nil, &ParseError{Msg: "missing [goal] section"}
	}

	cfg := &Config{}
	var err error
	if cfg.Goal.Title, err = requireString(doc.Goal.Title, "goal.title"); err != nil {
		return nil, err
	}
	if cfg.Goal.Description, err = requireString(doc.Goal.Description, "goal.description"); err != nil {
		return nil, err
	}
	if cfg.Goal.StartDate, err = dateValue(doc.Goal.StartDate, "goal.start_date", true); err != nil {
		return nil, err
	}
	if cfg.Goal.EndDate, err = dateValue(doc.Goal.EndDate, "goal.end_date", true); err != nil {
		return nil, err
	}

	cfg.Plans = make([]PlanConfig, 0, len(doc.Plans))
	for i, p := range doc.Plans {
		field := func(name string) string { return fmt.Sprintf("plans[%d].%s", i, name) }

		var pc PlanConfig
		if pc.Title, err = requireString(p.Title, field("title")); err != nil {
			return nil, err
		}
		pc.Description = optionalString(p.Description)
		if pc.StartDate, err = dateValue(p.StartDate, field("start_date"), false); err != nil {
			return nil, err
		}
		if pc.EndDate, err = dateValue(p.EndDate, field("end_date"), false); err != nil {
			return nil, err
		}
		cfg.Plans = append(cfg.Plans, pc)
	}

	cfg.Logs = make([]LogConfig, 0, len(doc.Logs))
	for i, l := range doc.Logs {
		field := func(name string) string { return fmt.Sprintf("logs[%d].%s", i, name) }

		var lc LogConfig
		if lc.Date, err = dateValue(l.Date, field("date"), true); err != nil {
			return nil, err
		}
		if lc.Content, err = requireString(l.Content, field("content")); err != nil {
			return nil, err
		}
		// An absent related_plans and an empty list mean the same thing.
		lc.RelatedPlans = append([]string(nil), l.RelatedPlans...)
		cfg.Logs = append(cfg.Logs, lc)
	}

	return cfg, nil
}

func tomlError(err error) *ParseError {
	var decErr *toml.DecodeError
	if errors.As(err, &decErr) {
		row, col := decErr.Position()
		return &ParseError{Line: row, Column: col, Msg: strings.TrimPrefix(decErr.Error(), "toml: "), Err: err}
	}
	return &ParseError{Msg: strings.TrimPrefix(err.Error(), "toml: "), Err: err}
}

func requireString(v *string, field string) (string, error) {
	if v == nil {
		return "", &ParseError{Msg: field + " is required"}
	}
	return *v, nil
}

func optionalString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

// dateValue accepts a quoted string, kept verbatim, or a native TOML date or
// date-time, reduced to its calendar date.
func dateValue(v any, field string, required bool) (string, error) {
	switch d := v.(type) {
	case nil:
		if required {
			return "", &ParseError{Msg: field + " is required"}
		}
		return "", nil
	case string:
		return d, nil
	case toml.LocalDate:
		return d.String(), nil
	case toml.LocalDateTime:
		return d.LocalDate.String(), nil
	case time.Time:
		return d.Format(store.DateLayout), nil
	default:
		return "", &ParseError{Msg: fmt.Sprintf("%s must be a date string, got %T", field, v)}
	}
}
