package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	toggleTypeName          = "bool"
	toggleImplicitLiteral   = "true"
	toggleAcceptedLiterals  = "true, false, yes, no, on, off, 1, 0"
	toggleInvalidFormat     = "invalid boolean value %q for --%s; accepted values: %s"
	toggleUnboundFormat     = "boolean flag --%s has no target"
	longFlagPrefix          = "--"
	shortFlagPrefix         = "-"
	flagValueSeparator      = "="
	argumentTerminator      = "--"
	attachedFlagValueFormat = "%s=%s"
)

var toggleLiterals = map[string]bool{
	"true":  true,
	"t":     true,
	"1":     true,
	"yes":   true,
	"y":     true,
	"on":    true,
	"false": false,
	"f":     false,
	"0":     false,
	"no":    false,
	"n":     false,
	"off":   false,
}

// parseToggleLiteral maps a user supplied literal onto a boolean. An empty literal
// means the flag was given bare.
func parseToggleLiteral(input string) (bool, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		normalized = toggleImplicitLiteral
	}
	parsed, known := toggleLiterals[normalized]
	return parsed, known
}

// toggleValue is the pflag.Value behind every boolean flag of the CLI.
type toggleValue struct {
	name   string
	target *bool
}

func (value *toggleValue) Set(input string) error {
	if value.target == nil {
		return fmt.Errorf(toggleUnboundFormat, value.name)
	}
	parsed, known := parseToggleLiteral(input)
	if !known {
		return fmt.Errorf(toggleInvalidFormat, input, value.name, toggleAcceptedLiterals)
	}
	*value.target = parsed
	return nil
}

func (value *toggleValue) String() string {
	if value == nil || value.target == nil {
		return strconv.FormatBool(false)
	}
	return strconv.FormatBool(*value.target)
}

func (value *toggleValue) Type() string {
	return toggleTypeName
}

// registerBooleanFlag binds target to --name (and -shorthand when given). A bare flag
// sets the target to true.
func registerBooleanFlag(flagSet *pflag.FlagSet, target *bool, name string, shorthand string, defaultValue bool, usage string) {
	if flagSet == nil || target == nil {
		return
	}
	*target = defaultValue
	flag := flagSet.VarPF(&toggleValue{name: name, target: target}, name, shorthand, usage)
	flag.DefValue = strconv.FormatBool(defaultValue)
	flag.NoOptDefVal = toggleImplicitLiteral
}

// toggleFlagNames lists the long names and shorthands of every boolean flag.
type toggleFlagNames struct {
	long  map[string]struct{}
	short map[string]string
}

func (names toggleFlagNames) resolve(argument string) (string, bool) {
	if strings.Contains(argument, flagValueSeparator) {
		return "", false
	}
	if strings.HasPrefix(argument, longFlagPrefix) {
		name := strings.TrimPrefix(argument, longFlagPrefix)
		_, exists := names.long[name]
		return name, exists
	}
	if strings.HasPrefix(argument, shortFlagPrefix) {
		name, exists := names.short[strings.TrimPrefix(argument, shortFlagPrefix)]
		return name, exists
	}
	return "", false
}

// normalizeBooleanFlagArguments joins "--flag value" and "-f value" into "--flag=value"
// when value is a boolean literal, so the literal is not taken for the positional path.
func normalizeBooleanFlagArguments(command *cobra.Command, arguments []string) []string {
	if command == nil || len(arguments) == 0 {
		return arguments
	}
	names := toggleFlagNames{long: map[string]struct{}{}, short: map[string]string{}}
	collectBooleanFlagNames(command, names)
	if len(names.long) == 0 {
		return arguments
	}
	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		argument := arguments[index]
		if argument == argumentTerminator {
			return append(normalized, arguments[index:]...)
		}
		flagName, isToggle := names.resolve(argument)
		if isToggle && index+1 < len(arguments) {
			nextArgument := arguments[index+1]
			if _, known := toggleLiterals[strings.ToLower(strings.TrimSpace(nextArgument))]; known && !strings.HasPrefix(nextArgument, shortFlagPrefix) {
				normalized = append(normalized, fmt.Sprintf(attachedFlagValueFormat, longFlagPrefix+flagName, nextArgument))
				index++
				continue
			}
		}
		normalized = append(normalized, argument)
	}
	return normalized
}

func collectBooleanFlagNames(command *cobra.Command, names toggleFlagNames) {
	if command == nil {
		return
	}
	record := func(flag *pflag.Flag) {
		if flag == nil || flag.Value == nil || flag.Value.Type() != toggleTypeName {
			return
		}
		names.long[flag.Name] = struct{}{}
		if flag.Shorthand != "" {
			names.short[flag.Shorthand] = flag.Name
		}
	}
	command.PersistentFlags().VisitAll(record)
	command.Flags().VisitAll(record)
	for _, child := range command.Commands() {
		collectBooleanFlagNames(child, names)
	}
}
