// Package file provides the file-based configuration adapters.
//
//   - ConfigStore: reads and writes config.toml (go-toml) for the config commands
//   - Load: layers defaults, config.toml and JIRA_* environment variables (koanf)
//     into the settings an export runs with
package file
