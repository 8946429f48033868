// Package configcmder provides the config command for managing persistent
// papershelf configuration stored in the .papershelf/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent papershelf configuration.

Configuration is stored as config.toml in the .papershelf/ directory and
provides default values for command flags. CLI flags always take
precedence over config file values.

Keys use dotted notation matching the TOML section structure:
  storage.data_dir, storage.uploads_dir,
  api.listen, api.allow_origins,
  client.api_target,
  embedding.provider, embedding.target, embedding.model,
  embedding.vector_size, embedding.min_count, embedding.epochs,
  vector_store.provider, extract.min_words,
  answer.provider, answer.target, answer.model

Use subcommands to get, set, or list configuration values:
  papershelf config set <key> <value>    Set a configuration value
  papershelf config get <key>            Get a configuration value
  papershelf config list                 List all configuration values

Examples:
  papershelf config set answer.provider ollama
  papershelf config set embedding.epochs 40
  papershelf config get vector_store.provider
  papershelf config list`

const configShortDesc string = "Manage persistent papershelf configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
