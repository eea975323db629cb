package main

import (
	"fmt"
	"strconv"
	"strings"

	"chatmd/internal/config"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change preferences",
		Long: `Preferences live in config.toml inside the config directory (~/.chatmd by
default). Besides hide_export_button, the [timing] table tunes delays and
retry ceilings, e.g. timing.scroll_settle_ms or timing.copy_attempts.`,
	}

	getCmd := &cobra.Command{
		Use:   "get [KEY]",
		Short: "Print one preference, or all of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := config.NewStore(configDir)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				v, ok := store.Get(configKey(args[0]))
				if !ok {
					return fmt.Errorf("%s is not set", args[0])
				}
				pterm.Println(fmt.Sprint(v))
				return nil
			}

			table := pterm.TableData{{"Key", "Value"}}
			for _, k := range store.Keys() {
				v, _ := store.Get(k)
				table = append(table, []string{k, fmt.Sprint(v)})
			}
			if len(table) == 1 {
				pterm.Info.Printfln("No preferences set in %s", store.Path())
				return nil
			}
			return pterm.DefaultTable.WithHasHeader().WithData(table).Render()
		},
	}

	setCmd := &cobra.Command{
		Use:     "set KEY VALUE",
		Short:   "Change a preference",
		Example: "  chatmd config set hide-button true\n  chatmd config set timing.copy_attempts 15",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := config.NewStore(configDir)
			if err != nil {
				return err
			}
			key := configKey(args[0])
			if err := store.Set(key, parseValue(args[1])); err != nil {
				return fmt.Errorf("failed to save %s: %w", key, err)
			}
			pterm.Success.Printfln("%s = %s", key, args[1])
			return nil
		},
	}

	cmd.AddCommand(getCmd, setCmd)
	return cmd
}

// configKey maps short aliases to stored keys.
func configKey(k string) string {
	switch k {
	case "hide-button", "hide-export-button":
		return config.KeyHideExportButton
	}
	return k
}

// parseValue stores booleans and integers with their TOML types.
func parseValue(s string) any {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return s
}
