package commands

import (
	"fmt"
	"path/filepath"

	"git.home.luguber.info/inful/gitscriptor/internal/config"
	"git.home.luguber.info/inful/gitscriptor/internal/foundation/errors"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force  bool   `help:"Overwrite existing configuration file"`
	Output string `short:"o" name:"output" help:"Output directory for generated config file"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	// With an output directory the config lands there under the default name.
	if i.Output != "" {
		return RunInit(filepath.Join(i.Output, config.DefaultConfigFile), i.Force)
	}
	return RunInit(root.Config, i.Force)
}

func RunInit(configPath string, force bool) error {
	fmt.Println("Initializing GitScriptor configuration")
	fmt.Printf("Writing configuration to %s\n", configPath)
	if err := config.Init(configPath, force); err != nil {
		fmt.Println("Initialization failed")
		return errors.WrapError(err, errors.CategoryConfig, "failed to initialize configuration").
			WithContext("path", configPath).
			Build()
	}
	fmt.Println("initialized successfully")
	return nil
}
