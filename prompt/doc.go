// Package prompt provides prompt template loading.
//
// Templates use text/template syntax. A file named <name>.txt in one of the
// loader's directories overrides the embedded default of the same name.
//
// Example usage:
//
//	loader := prompt.NewLoader(filepath.Join(configDir, "prompts"))
//	text, err := loader.LoadWithVars(prompt.DraftPrompt, vars)
package prompt
