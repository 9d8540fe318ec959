package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/dirtree/internal/config"
)

const (
	initUse                     = "init"
	initShortDescription        = "write a default configuration file"
	initGlobalFlagName          = "global"
	initGlobalFlagDescription   = "write the configuration under the home directory"
	initForceFlagName           = "force"
	initForceFlagDescription    = "overwrite an existing configuration file"
	configurationWrittenMessage = "configuration written"
)

// createInitCommand returns the init subcommand.
func createInitCommand(env environment) *cobra.Command {
	var global bool
	var force bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			destinationPath, initError := config.InitializeConfiguration(config.InitOptions{
				Target:           target,
				Force:            force,
				WorkingDirectory: env.workingDirectory,
			})
			if initError != nil {
				return initError
			}
			if env.logger != nil {
				env.logger.Info(configurationWrittenMessage, zap.String("path", destinationPath))
			}
			return nil
		},
	}
	registerBooleanFlag(initCommand.Flags(), &global, initGlobalFlagName, "", false, initGlobalFlagDescription)
	registerBooleanFlag(initCommand.Flags(), &force, initForceFlagName, "", false, initForceFlagDescription)
	return initCommand
}
