package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/umpire274/timelog/internal/config"
)

var (
	configPrint  bool
	configEdit   bool
	configEditor string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or edit the configuration file",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&configPrint, "print", false, "Print the configuration file")
	configCmd.Flags().BoolVar(&configEdit, "edit", false, "Open the configuration file in an editor")
	configCmd.Flags().StringVar(&configEditor, "editor", "", "Editor to use (default: $EDITOR, then nano/vim/notepad)")
}

func runConfig(cmd *cobra.Command, args []string) error {
	// Ensure the file exists before printing or editing it.
	if _, err := config.Load(); err != nil {
		return err
	}
	path, err := config.FilePath()
	if err != nil {
		return err
	}

	if configEdit {
		return editFile(path, configEditor)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	fmt.Printf("# %s\n%s", path, data)
	return nil
}

// editFile opens path in the requested editor, falling back to $EDITOR
// and then a platform default.
func editFile(path, editor string) error {
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		if runtime.GOOS == "windows" {
			editor = "notepad"
		} else {
			editor = "nano"
		}
	}

	c := exec.Command(editor, path)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	if err := c.Run(); err != nil {
		return fmt.Errorf("running editor %s: %w", editor, err)
	}
	return nil
}
