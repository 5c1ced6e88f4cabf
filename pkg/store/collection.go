package store

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// collection is the on-disk shape of goals.yaml.
type collection struct {
	Goals []*Goal `yaml:"goals"`
}

// ParseCollection decodes the persisted collection document.
// Empty input is an empty collection.
func ParseCollection(data []byte) ([]*Goal, error) {
	var c collection
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing collection YAML: %w", err)
	}
	goals := make([]*Goal, 0, len(c.Goals))
	for _, g := range c.Goals {
		if g != nil {
			normalize(g)
			goals = append(goals, g)
		}
	}
	return goals, nil
}

// normalize replaces absent lists with empty ones so a reloaded goal
// serializes the same way as a freshly built one.
func normalize(g *Goal) {
	if g.Plans == nil {
		g.Plans = []Plan{}
	}
	if g.Logs == nil {
		g.Logs = []LogEntry{}
	}
	for i := range g.Logs {
		if g.Logs[i].RelatedPlanIDs == nil {
			g.Logs[i].RelatedPlanIDs = []string{}
		}
	}
}

// SerializeCollection renders the whole collection as one YAML document.
func SerializeCollection(goals []*Goal) ([]byte, error) {
	if goals == nil {
		goals = []*Goal{}
	}
	data, err := yaml.Marshal(collection{Goals: goals})
	if err != nil {
		return nil, fmt.Errorf("serializing collection YAML: %w", err)
	}
	return data, nil
}
