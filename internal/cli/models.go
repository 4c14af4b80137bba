package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphsynth/pkg/layout"
	"github.com/matzehuels/graphsynth/pkg/models"
	"github.com/matzehuels/graphsynth/pkg/pipeline"
	"github.com/matzehuels/graphsynth/pkg/weights"
)

// modelsCommand lists the available generators and selectors.
func (c *CLI) modelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "models",
		Aliases: []string{"list"},
		Short:   "List graph models, layouts and weight distributions",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(StyleTitle.Render("Models"))
			fmt.Println(renderTable([]string{"model", "description"}, modelRows()))
			fmt.Println()
			printKeyValue("layouts", strings.Join(layout.Names(), ", "))
			printKeyValue("weights", strings.Join(weights.Names(), ", "))
			printKeyValue("formats", strings.Join(pipeline.Formats, ", "))
			return nil
		},
	}
}

func modelRows() [][]string {
	rows := make([][]string, 0, len(models.Kinds()))
	for _, k := range models.Kinds() {
		rows = append(rows, []string{k.String(), k.Description()})
	}
	return rows
}
