package config

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options
func GetDefaultConfigTemplate() string {
	return `# convlog configuration
# See 'convlog config -h' for commands, 'convlog config keys' for all options

infile: CHANGELOG.md                  # Changelog file; empty disables the update step
tag_name: ""                          # Tag template, e.g. "v${version}" (empty = infer from previous tag)
dry_run: false                        # Log what would be written without touching the file
debug: false                          # Verbose logging

# Changelog engine settings
generator:
  engine: builtin                     # builtin | exec (runs an external conventional-changelog CLI)
  preset: angular                     # angular | conventionalcommits
  release_count: 1                    # Releases rendered per update (0 = whole history)
  repository_url: ""                  # Enables compare, commit and issue links (builtin engine)
  command: conventional-changelog     # External engine command (exec engine)
  args: []                            # Extra arguments for the external engine
  # types:                            # Replace the preset's commit type table
  #   - type: feat
  #     section: Features
  #   - type: chore
  #     section: Chores
  #     hidden: true
`
}

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"infile":   "CHANGELOG.md",
		"tag_name": "",
		"dry_run":  false,
		"debug":    false,
		"generator": map[string]interface{}{
			"engine":         "builtin",
			"preset":         "angular",
			"release_count":  1, // range previous tag -> current tag
			"repository_url": "",
			"command":        "conventional-changelog",
			"args":           []string{},
		},
	}
}
