// Package goalfile converts goals to and from their TOML document form.
//
// A document holds one [goal] table, any number of [[plans]] and any number of
// [[logs]]. Logs refer to plans by title; Build turns those titles into plan
// identifiers and Encode turns identifiers back into titles.
package goalfile

// Config is the decoded form of a goal document. It mirrors the document
// shape and is only meant to be passed to Build.
type Config struct {
	Goal  GoalConfig
	Plans []PlanConfig
	Logs  []LogConfig
}

// GoalConfig is the [goal] table.
type GoalConfig struct {
	Title       string
	Description string
	StartDate   string
	EndDate     string
}

// PlanConfig is one [[plans]] entry.
type PlanConfig struct {
	Title       string
	Description string
	StartDate   string
	EndDate     string
}

// LogConfig is one [[logs]] entry. RelatedPlans holds plan titles.
type LogConfig struct {
	Date         string
	Content      string
	RelatedPlans []string
}
