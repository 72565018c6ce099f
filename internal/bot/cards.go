package bot

import (
	"fmt"

	"devbot/internal/gitops"
	"devbot/internal/project"
	"devbot/internal/websearch"
)

const (
	cardType    = "AdaptiveCard"
	cardSchema  = "http://adaptivecards.io/schemas/adaptive-card.json"
	cardVersion = "1.5"
)

// Card is the structured interactive reply payload: text blocks plus
// submit actions whose data re-invokes the dispatcher with a canned
// command string.
type Card struct {
	Type    string    `json:"type"`
	Schema  string    `json:"$schema"`
	Version string    `json:"version"`
	Body    []Element `json:"body"`
	Actions []Action  `json:"actions,omitempty"`
}

// Element is one body node (TextBlock or ColumnSet).
type Element struct {
	Type    string   `json:"type"`
	Text    string   `json:"text,omitempty"`
	Weight  string   `json:"weight,omitempty"`
	Size    string   `json:"size,omitempty"`
	Wrap    bool     `json:"wrap,omitempty"`
	Spacing string   `json:"spacing,omitempty"`
	Columns []Column `json:"columns,omitempty"`
}

// Column is one cell of a ColumnSet.
type Column struct {
	Type  string    `json:"type"`
	Width string    `json:"width"`
	Items []Element `json:"items"`
}

// Action is a submit button carrying a follow-up command.
type Action struct {
	Type  string      `json:"type"`
	Title string      `json:"title"`
	Data  SubmitValue `json:"data"`
}

func newCard(title string) *Card {
	return &Card{
		Type:    cardType,
		Schema:  cardSchema,
		Version: cardVersion,
		Body: []Element{
			{Type: "TextBlock", Text: title, Weight: "Bolder", Size: "Large", Wrap: true},
		},
	}
}

func (c *Card) addText(text string) *Card {
	c.Body = append(c.Body, Element{Type: "TextBlock", Text: text, Wrap: true})
	return c
}

func (c *Card) addFact(label, value string) *Card {
	c.Body = append(c.Body, Element{
		Type: "ColumnSet",
		Columns: []Column{
			{Type: "Column", Width: "stretch", Items: []Element{{Type: "TextBlock", Text: label, Weight: "Bolder", Wrap: true}}},
			{Type: "Column", Width: "auto", Items: []Element{{Type: "TextBlock", Text: value, Wrap: true}}},
		},
	})
	return c
}

func (c *Card) addAction(title, command string) *Card {
	c.Actions = append(c.Actions, Action{
		Type:  "Action.Submit",
		Title: title,
		Data:  SubmitValue{Command: command},
	})
	return c
}

func buildCapabilitiesCard() *Card {
	card := newCard("DevBot")
	card.addText("Your project assistant. Pick a quick action or type a command; send `help` for the full list.")
	card.addAction("Project Dashboard", "project")
	card.addAction("Git Status", "git status")
	card.addAction("Environments", "environment")
	card.addAction("Help", "help")
	return card
}

func buildSearchCard(query string, results []websearch.Result) *Card {
	card := newCard("Search: " + query)
	for i, r := range results {
		card.addText(fmt.Sprintf("**%d. %s**\n%s\n%s", i+1, r.Title, r.Snippet, r.URL))
	}
	card.addAction("Summarize", "summarize "+query)
	return card
}

func buildProjectCard(metrics project.Metrics) *Card {
	card := newCard("Project Dashboard")
	card.addFact("Files", fmt.Sprintf("%d", metrics.TotalFiles))
	card.addFact("Lines", fmt.Sprintf("%d", metrics.TotalLines))
	card.addFact("Dependencies", fmt.Sprintf("%d (+%d dev)", metrics.Dependencies, metrics.DevDependencies))
	card.addFact("Contributors", fmt.Sprintf("%d", len(metrics.Contributors)))
	if metrics.LastCommit != "" {
		card.addFact("Last commit", metrics.LastCommit)
	}
	for ext, count := range metrics.Languages {
		card.addFact(ext, fmt.Sprintf("%d files", count))
	}
	card.addAction("Git Status", "git status")
	card.addAction("Analyze Code", "analyze **/*.go")
	card.addAction("Environments", "environment")
	return card
}

func buildDeploymentCard(envs []project.Environment, commits []gitops.Commit) *Card {
	card := newCard("Deployment Overview")
	if len(envs) == 0 {
		card.addText("No environments configured.")
	}
	for _, env := range envs {
		label := env.Name
		if env.IsActive {
			label += " (active)"
		}
		card.addFact(label, fmt.Sprintf("%d variables", len(env.Variables)))
	}
	if len(commits) > 0 {
		card.addText("Recent commits:")
		for _, commit := range commits {
			card.addText(fmt.Sprintf("`%s` %s (%s)", commit.Hash, commit.Message, commit.Author))
		}
	}
	card.addAction("Environments", "environment")
	card.addAction("Git Status", "git status")
	return card
}

func buildEnvironmentCard(envs []project.Environment) *Card {
	card := newCard("Environments")
	if len(envs) == 0 {
		card.addText("No .env.<name> files found in the project root.")
	}
	for _, env := range envs {
		label := env.Name
		if env.IsActive {
			label += " (active)"
		}
		card.addFact(label, fmt.Sprintf("%d variables", len(env.Variables)))
	}
	card.addAction("Deployment Overview", "deployment")
	return card
}
