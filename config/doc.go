// Package config resolves ugh settings from layered sources.
//
// Precedence, highest first:
//  1. Command-line flags (ResolveWithFlags)
//  2. Environment variables (UGH_<KEY>, e.g. UGH_JIRA_TOKEN)
//  3. The config file ($UGH_CONFIG_DIR, $XDG_CONFIG_HOME/ugh or ~/.config/ugh, config.yaml)
//  4. Built-in defaults
//
// # Basic Usage
//
//	dir, err := config.Dir()
//	settings, resolved, err := config.Load(dir, config.ResolverConfig{Logger: logger})
//	fmt.Println(resolved.Source(config.KeyJiraToken)) // "env", "file" or "default"
//
//	if missing := settings.Missing(board); len(missing) > 0 {
//	    // prompt or fail
//	}
//
// Settings is built once per run and never mutated. Save, SaveAll and Delete
// edit the file; the file is written 0600 since it holds credentials.
package config
