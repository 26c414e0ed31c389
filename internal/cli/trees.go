package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kintree/kintree/pkg/store"
	"github.com/kintree/kintree/pkg/tree"
)

// treesCommand creates the trees command group for managing stored trees.
// All subcommands require a store backend in the config file.
func (c *CLI) treesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trees",
		Short: "Manage trees in the configured store",
	}

	cmd.AddCommand(c.treesListCommand())
	cmd.AddCommand(c.treesAddCommand())
	cmd.AddCommand(c.treesGetCommand())
	cmd.AddCommand(c.treesDeleteCommand())

	return cmd
}

// openStore connects to the configured store and fails when none is set.
func (c *CLI) openStore(cmd *cobra.Command) (store.TreeStore, error) {
	st, err := c.newStore(cmd.Context())
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, fmt.Errorf("no tree store configured (set [store] backend in the config file)")
	}
	return st, nil
}

func (c *CLI) treesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored trees",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close(cmd.Context())

			infos, err := st.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				printInfo("No trees stored")
				return nil
			}
			for _, info := range infos {
				name := info.Name
				if name == "" {
					name = "(unnamed)"
				}
				fmt.Println(StyleValue.Render(info.ID) + " " + StyleDim.Render(fmt.Sprintf("%s · %d persons", name, info.Persons)))
			}
			return nil
		},
	}
}

func (c *CLI) treesAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add [file]",
		Short: "Store a tree from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close(cmd.Context())

			t, err := tree.ReadTreeFile(args[0])
			if err != nil {
				return err
			}
			id, err := st.Put(cmd.Context(), t)
			if err != nil {
				return err
			}
			printSuccess("Stored tree %s", id)
			printNextStep("Fetch it", fmt.Sprintf("%s trees get %s", appName, id))
			return nil
		},
	}
}

func (c *CLI) treesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get [id]",
		Short: "Print a stored tree as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close(cmd.Context())

			t, err := st.Get(cmd.Context(), args[0])
			if err == store.ErrNotFound {
				return fmt.Errorf("tree %s not found", args[0])
			}
			if err != nil {
				return err
			}
			data, err := tree.MarshalTree(t)
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		},
	}
}

func (c *CLI) treesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a stored tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close(cmd.Context())

			if err := st.Delete(cmd.Context(), args[0]); err != nil {
				if err == store.ErrNotFound {
					return fmt.Errorf("tree %s not found", args[0])
				}
				return err
			}
			printSuccess("Deleted tree %s", args[0])
			return nil
		},
	}
}
