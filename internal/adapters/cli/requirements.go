package cli

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	plannerQuery "github.com/craftplan/craftplan-go/internal/application/planner/queries"
	"github.com/craftplan/craftplan-go/internal/domain/materials"
	"github.com/craftplan/craftplan-go/internal/infrastructure/pidfile"
)

// NewRequirementsCommand creates the requirements command
func NewRequirementsCommand() *cobra.Command {
	var (
		haveFlags  []string
		checkFlags []string
		groupBy    string
		watch      bool
	)

	cmd := &cobra.Command{
		Use:   "requirements <list-id>",
		Short: "Compute material requirements for a list",
		Long: `Expand the list's recipe trees, batch-optimize shared intermediates,
propagate on-hand inventory and print what is still needed.

Grouping:
  flat             one row per material (default)
  tier             grouped by entity tier
  step             grouped by crafting step (step 1 = gathering)
  profession       grouped by profession
  step-profession  steps subdivided by profession

Examples:
  craftplan requirements tier-3-workshop-a1b2c3d4
  craftplan requirements tier-3-workshop-a1b2c3d4 --group step
  craftplan requirements tier-3-workshop-a1b2c3d4 --have item-17=40 --check cargo-9
  craftplan requirements tier-3-workshop-a1b2c3d4 --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequirements(args[0], haveFlags, checkFlags, groupBy, watch)
		},
	}

	cmd.Flags().StringArrayVar(&haveFlags, "have", nil,
		"Manual item override, e.g. item-17=40 (repeatable)")
	cmd.Flags().StringArrayVar(&checkFlags, "check", nil,
		"Mark an entity as done (infinite supply), e.g. cargo-9 (repeatable)")
	cmd.Flags().StringVar(&groupBy, "group", "flat",
		"Output grouping: flat, tier, step, profession, step-profession")
	cmd.Flags().BoolVar(&watch, "watch", false,
		"Keep running and recompute when game data files change")

	return cmd
}

func runRequirements(listID string, haveFlags, checkFlags []string, groupBy string, watch bool) error {
	overrides, err := parseHaveFlags(haveFlags)
	if err != nil {
		return err
	}
	checked, err := parseCheckFlags(checkFlags)
	if err != nil {
		return err
	}

	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	query := &plannerQuery.ComputeRequirementsQuery{
		ListID:        listID,
		ItemOverrides: overrides,
		CheckedOff:    checked,
	}

	if !watch {
		return computeAndPrint(app, query, groupBy)
	}
	if !app.Config.Catalog.Watch {
		return fmt.Errorf("--watch requires catalog.watch enabled in config")
	}

	if path := app.Config.Catalog.WatchPIDFile; path != "" {
		lock := pidfile.New(path)
		if err := lock.Acquire(); err != nil {
			return err
		}
		defer lock.Release()
	}

	ctx, stop := signal.NotifyContext(app.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app.ServeMetrics(ctx)

	// Catalog reloads ping the recompute channel; the debouncer
	// coalesces bursts into one recomputation
	recompute := make(chan struct{}, 1)
	app.Store.OnInvalidate(func() {
		select {
		case recompute <- struct{}{}:
		default:
		}
	})
	if err := app.StartWatcher(ctx); err != nil {
		return err
	}

	if err := computeAndPrint(app, query, groupBy); err != nil {
		return err
	}
	fmt.Println("\nWatching for game data changes (ctrl-c to stop)...")

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-recompute:
			if err := app.Debouncer.Wait(ctx); err != nil {
				return nil
			}
			fmt.Println()
			if err := computeAndPrint(app, query, groupBy); err != nil {
				fmt.Fprintf(os.Stderr, "recompute failed: %v\n", err)
			}
		}
	}
}

func computeAndPrint(app *App, query *plannerQuery.ComputeRequirementsQuery, groupBy string) error {
	response, err := app.Mediator.Send(app.Context(), query)
	if err != nil {
		return err
	}

	result := response.(*plannerQuery.ComputeRequirementsResponse)

	for _, diagnostic := range result.Diagnostics {
		fmt.Fprintf(os.Stderr, "warning: %s\n", diagnostic)
	}

	switch groupBy {
	case "flat":
		printRequirementTable(result.Requirements)
	case "tier":
		printGroups(result.ByTier)
	case "step":
		printGroups(result.ByStep)
	case "profession":
		printGroups(result.ByProfession)
	case "step-profession":
		for _, stepGroup := range result.StepProfession {
			fmt.Printf("== %s ==\n", stepGroup.Label)
			printGroups(stepGroup.Professions)
		}
	default:
		return fmt.Errorf("unknown --group %q: expected flat, tier, step, profession or step-profession", groupBy)
	}

	return nil
}

func printGroups(groups []*materials.RequirementGroup) {
	for _, group := range groups {
		status := ""
		if group.IsComplete {
			status = "  [complete]"
		}
		fmt.Printf("-- %s  (%d/%d)%s\n", group.Label, group.TotalAvailable, group.TotalRequired, status)
		printRequirementTable(group.Requirements)
	}
}

func printRequirementTable(requirements []*materials.Requirement) {
	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "KEY\tNAME\tTIER\tSTEP\tPROFESSION\tREQUIRED\tHAVE\tREMAINING\tCOVERED BY")
	for _, requirement := range requirements {
		fmt.Fprintf(writer, "%s\t%s\t%s\t%d\t%s\t%d\t%d\t%d\t%s\n",
			requirement.Key(),
			requirement.Name,
			tierLabel(requirement.Tier),
			requirement.Step,
			requirement.Profession,
			requirement.BaseRequired,
			requirement.Have,
			requirement.Remaining,
			formatContributions(requirement.ParentContributions),
		)
	}
	writer.Flush()
}

func formatContributions(contributions []materials.Contribution) string {
	if len(contributions) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(contributions))
	for _, contribution := range contributions {
		parts = append(parts, fmt.Sprintf("%s (%d)", contribution.ParentKey, contribution.Covered))
	}
	return strings.Join(parts, ", ")
}
