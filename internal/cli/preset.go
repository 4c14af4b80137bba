package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphsynth/pkg/pipeline"
)

// presetCommand creates the preset management command.
func (c *CLI) presetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "Manage saved configurations",
		Long: `Presets are named configurations stored in presets.toml under the user
config directory. Use them with --preset on generate and tune.`,
	}

	cmd.AddCommand(c.presetListCommand())
	cmd.AddCommand(c.presetShowCommand())
	cmd.AddCommand(c.presetSaveCommand())
	cmd.AddCommand(c.presetDeleteCommand())

	return cmd
}

func (c *CLI) presetListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := loadPresets()
			if err != nil {
				return err
			}
			names := store.List()
			if len(names) == 0 {
				printInfo("No presets in %s", store.Path())
				return nil
			}
			rows := make([][]string, 0, len(names))
			for _, name := range names {
				cfg, _ := store.Get(name)
				rows = append(rows, []string{name, cfg.Model, fmt.Sprint(cfg.Nodes), formatFloat(cfg.Density), cfg.Layout})
			}
			fmt.Println(renderTable([]string{"preset", "model", "nodes", "density", "layout"}, rows))
			return nil
		},
	}
}

func (c *CLI) presetShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Print a preset as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := loadPresets()
			if err != nil {
				return err
			}
			cfg, err := store.Get(args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(cfg)
		},
	}
}

func (c *CLI) presetSaveCommand() *cobra.Command {
	var cf *configFlags
	cmd := &cobra.Command{
		Use:   "save <name>",
		Short: "Save the given flags as a preset",
		Example: `  graphsynth preset save dense -m random -n 50 -d 0.8
  graphsynth preset save clustered --preset dense --communities --community-count 5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := loadPresets()
			if err != nil {
				return err
			}
			cfg, err := cf.resolve(cmd, func() (*pipeline.Presets, error) { return store, nil })
			if err != nil {
				return err
			}
			if err := store.Set(args[0], cfg); err != nil {
				return err
			}
			if err := store.Save(); err != nil {
				return err
			}
			c.Logger.Debug("saved preset", "name", args[0], "path", store.Path())
			printSuccess("Saved preset %s", args[0])
			printFile(store.Path())
			return nil
		},
	}
	cf = bindConfigFlags(cmd)
	return cmd
}

func (c *CLI) presetDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := loadPresets()
			if err != nil {
				return err
			}
			if _, err := store.Get(args[0]); err != nil {
				return err
			}
			store.Delete(args[0])
			if err := store.Save(); err != nil {
				return err
			}
			printSuccess("Deleted preset %s", args[0])
			return nil
		},
	}
}
