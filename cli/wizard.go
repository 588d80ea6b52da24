package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fatih/color"

	"github.com/randalmurphal/ugh/config"
)

// errInputClosed indicates stdin ended while the wizard was waiting.
var errInputClosed = errors.New("input closed before setup finished")

// field is one wizard question.
type field struct {
	key      string
	label    string
	optional bool
}

var trackerFields = map[string][]field{
	config.TrackerJira: {
		{key: config.KeyJiraBaseURL, label: "Jira URL (e.g. https://your-domain.atlassian.net)"},
		{key: config.KeyJiraEmail, label: "Jira account email (leave blank for a Server/DC personal access token)", optional: true},
		{key: config.KeyJiraToken, label: "Jira API token"},
		{key: config.KeyDefaultProjectKey, label: "Default project key (e.g. DEMO)"},
		{key: config.KeyDefaultIssueType, label: "Issue type"},
	},
	config.TrackerGitHub: {
		{key: config.KeyGitHubToken, label: "GitHub token (issues: write)"},
		{key: config.KeyDefaultProjectKey, label: "Default repository (owner/repo)"},
	},
	config.TrackerGitLab: {
		{key: config.KeyGitLabBaseURL, label: "GitLab URL (blank for gitlab.com)", optional: true},
		{key: config.KeyGitLabToken, label: "GitLab token (api scope)"},
		{key: config.KeyDefaultProjectKey, label: "Default project (group/project)"},
	},
}

var llmField = field{
	key:      config.KeyLLMAPIKey,
	label:    "Gemini API key (blank to draft tickets locally)",
	optional: true,
}

type wizard struct {
	app *App
	in  *bufio.Reader
	out io.Writer
}

func newWizard(app *App) *wizard {
	return &wizard{app: app, in: bufio.NewReader(app.Stdin), out: app.Stdout}
}

// run asks for settings and saves the answers to dir/config.yaml. When
// missing is non-empty only those keys are asked for.
func (w *wizard) run(dir string, current config.Settings, missing []string) error {
	onlyMissing := len(missing) > 0
	values := map[string]string{}
	trackerName := current.Tracker
	if trackerName == "" {
		trackerName = config.TrackerJira
	}

	if !onlyMissing {
		fmt.Fprintln(w.out, color.New(color.Bold).Sprint("ugh setup"))
		for {
			answer, err := w.ask("Tracker (jira, github, gitlab)", trackerName, false)
			if err != nil {
				return err
			}
			answer = strings.ToLower(answer)
			if _, ok := trackerFields[answer]; ok {
				trackerName = answer
				break
			}
			fmt.Fprintf(w.out, "  %q is not a supported tracker\n", answer)
		}
		values[config.KeyTracker] = trackerName
		current.Tracker = trackerName
	}

	fields := trackerFields[trackerName]
	if onlyMissing {
		fields = slices.DeleteFunc(slices.Clone(fields), func(f field) bool {
			return !slices.Contains(missing, f.key)
		})
	} else {
		fields = append(slices.Clone(fields), llmField)
	}

	for _, f := range fields {
		existing := currentValue(current, f.key)
		for {
			answer, err := w.ask(f.label, existing, config.IsSecret(f.key))
			if err != nil {
				return err
			}
			if answer == "" && !f.optional {
				fmt.Fprintln(w.out, "  a value is required")
				continue
			}
			if err := config.ValidateValue(f.key, answer); err != nil {
				fmt.Fprintf(w.out, "  %v\n", err)
				continue
			}
			values[f.key] = answer
			break
		}
	}

	path := filepath.Join(dir, config.FileName)
	if err := config.SaveAll(path, values); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	fmt.Fprintf(w.out, "%s Saved settings to %s\n\n", color.GreenString("✓"), path)
	return nil
}

// ask prompts for one value. An empty answer keeps def.
func (w *wizard) ask(label, def string, secret bool) (string, error) {
	switch {
	case def != "" && secret:
		fmt.Fprintf(w.out, "%s [%s]: ", label, config.Mask(def))
	case def != "":
		fmt.Fprintf(w.out, "%s [%s]: ", label, def)
	default:
		fmt.Fprintf(w.out, "%s: ", label)
	}

	var answer string
	var err error
	if secret && w.app.ReadSecret != nil && w.app.IsTerminal != nil && w.app.IsTerminal() {
		answer, err = w.app.ReadSecret()
		fmt.Fprintln(w.out)
	} else {
		answer, err = w.readLine()
	}
	if err != nil {
		return "", err
	}

	if answer = strings.TrimSpace(answer); answer == "" {
		return def, nil
	}
	return answer, nil
}

func (w *wizard) readLine() (string, error) {
	line, err := w.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return line, nil
		}
		if errors.Is(err, io.EOF) {
			return "", errInputClosed
		}
		return "", err
	}
	return line, nil
}

func currentValue(s config.Settings, key string) string {
	switch key {
	case config.KeyJiraBaseURL:
		return s.JiraBaseURL
	case config.KeyJiraEmail:
		return s.JiraEmail
	case config.KeyJiraToken:
		return s.JiraToken
	case config.KeyDefaultProjectKey:
		return s.DefaultProjectKey
	case config.KeyDefaultIssueType:
		return s.DefaultIssueType
	case config.KeyGitHubToken:
		return s.GitHubToken
	case config.KeyGitLabToken:
		return s.GitLabToken
	case config.KeyGitLabBaseURL:
		return s.GitLabBaseURL
	case config.KeyLLMAPIKey:
		return s.LLMAPIKey
	default:
		return ""
	}
}
