package cmd

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/tubular-cli/tubular/auth"
	"github.com/tubular-cli/tubular/filesystem"
	"github.com/tubular-cli/tubular/gateway"
	"github.com/tubular-cli/tubular/inline"
)

func init() {
	rootCmd.AddCommand(inlineCmd)

	inlineCmd.Flags().BoolP("json", "j", false, "Format the command output as a JSON object")
	inlineCmd.Flags().StringP("intent", "i", "", "Toggle an engagement before printing: like, dislike or subscribe")
	inlineCmd.Flags().BoolP("full", "f", false, "Print the full description instead of a preview")
	inlineCmd.Flags().StringP("output", "o", "", "Specify a file path to write the command output")

	_ = inlineCmd.RegisterFlagCompletionFunc("intent", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return lo.Map(inline.Intents, func(i inline.Intent, _ int) string {
			return string(i)
		}), cobra.ShellCompDirectiveNoFileComp
	})
}

// inlineCmd executes the application in non-interactive, scriptable inline mode.
var inlineCmd = &cobra.Command{
	Use:   "inline <video>",
	Short: "Print a video's details and engagement without starting the interface",
	Long: `Open a video without the interactive interface and print its details.

The video may be given as an id or as any watch, share, shorts or embed link.
An intent toggles the matching engagement first, exactly like pressing the
button in the interface would: liking a liked video removes the like.`,
	Example: `  tubular inline dQw4w9WgXcQ --json
  tubular inline https://youtu.be/dQw4w9WgXcQ --intent like`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		videoID, err := gateway.ParseVideoID(args[0])
		handleErr(err)

		intent := mo.None[inline.Intent]()
		if name := lo.Must(cmd.Flags().GetString("intent")); name != "" {
			parsed, err := inline.ParseIntent(name)
			handleErr(err)
			intent = mo.Some(parsed)
		}

		var writer io.Writer = os.Stdout
		if output := lo.Must(cmd.Flags().GetString("output")); output != "" {
			file, err := filesystem.API().Create(output)
			handleErr(err)
			defer file.Close()
			writer = file
		}

		source := auth.Keyring{}
		options := &inline.Options{
			Out:     writer,
			Gateway: gateway.NewFromConfig(source),
			Auth:    source,
			VideoID: videoID,
			Intent:  intent,
			Full:    lo.Must(cmd.Flags().GetBool("full")),
			Json:    lo.Must(cmd.Flags().GetBool("json")),
		}

		handleErr(inline.Run(cmd.Context(), options))
	},
}

func init() {
	inlineCmd.AddCommand(inlineSchemaCmd)

	inlineSchemaCmd.Flags().BoolP("engagement", "e", false, "Generate the JSON Schema for the engagement object only")
}

// inlineSchemaCmd generates JSON schemas for structured inline mode outputs.
var inlineSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Generate JSON schemas for structured inline mode outputs",
	Run: func(cmd *cobra.Command, args []string) {
		reflector := new(jsonschema.Reflector)
		reflector.Anonymous = true
		reflector.Namer = func(t reflect.Type) string {
			name := t.Name()
			switch strings.ToLower(name) {
			case "output", "engagement":
				return filepath.Base(t.PkgPath()) + "." + name
			}

			return name
		}

		var schema *jsonschema.Schema
		if lo.Must(cmd.Flags().GetBool("engagement")) {
			schema = reflector.Reflect(&inline.Engagement{})
		} else {
			schema = reflector.Reflect(&inline.Output{})
		}

		handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(schema))
	},
}
