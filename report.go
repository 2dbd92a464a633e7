package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/sebastien-chopin-dev/rne-dashboard/config"
	"github.com/sebastien-chopin-dev/rne-dashboard/data"
	"github.com/sebastien-chopin-dev/rne-dashboard/handlers"
	"github.com/sebastien-chopin-dev/rne-dashboard/models"
	"github.com/sebastien-chopin-dev/rne-dashboard/utils"
)

func newReportCmd(cfg *config.Config) *cobra.Command {
	var department, function string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the dashboard aggregates as text tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := openSource(*cfg)
			if err != nil {
				return err
			}
			defer config.CloseDB()

			req, err := resolveRequest(cmd, src, department, function)
			if err != nil {
				return err
			}
			snap, err := data.NewService(src).Snapshot(cmd.Context(), req)
			if err != nil {
				return err
			}
			writeReport(cmd.OutOrStdout(), snap)
			return nil
		},
	}
	cmd.Flags().StringVar(&department, "departement", "", "department label (default: all departments)")
	cmd.Flags().StringVar(&function, "fonction", "", "Maire, Maire délégué or Adjoint du maire (default: all functions)")
	return cmd
}

func resolveRequest(cmd *cobra.Command, src data.Source, department, function string) (models.DashboardRequest, error) {
	req := models.AllRecords()
	if department != "" && department != models.AllDepartmentsLabel {
		opts, err := data.LoadOptions(cmd.Context(), src)
		if err != nil {
			return req, err
		}
		code, ok := opts.Departments.Codes[department]
		if !ok {
			return req, fmt.Errorf("unknown departement %q", department)
		}
		req.Department = code
		req.DepartmentLabel = department
	}
	if function != "" {
		f, ok := models.ParseFunctionBucket(function)
		if !ok {
			return req, fmt.Errorf("unknown fonction %q", function)
		}
		req.Function = f
	}
	return req, nil
}

func writeReport(out io.Writer, snap models.Snapshot) {
	fmt.Fprintln(out, handlers.HeaderText(snap.Request))
	fmt.Fprintln(out, handlers.SummaryText(snap.Count))
	fmt.Fprintln(out)

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Sexe", "Pourcentage"})
	for _, s := range snap.Shares {
		table.Append([]string{s.Label, utils.FormatPercent(s.Percentage)})
	}
	table.Render()

	female := make(map[models.FunctionBucket]int, len(snap.FunctionsFemale))
	for _, v := range snap.FunctionsFemale {
		female[v.Function] = v.Volume
	}
	table = tablewriter.NewWriter(out)
	table.SetHeader([]string{"Fonction", "Hommes", "Femmes"})
	for _, v := range snap.FunctionsMale {
		table.Append([]string{string(v.Function), utils.FormatCount(v.Volume), utils.FormatCount(female[v.Function])})
	}
	table.Render()

	table = tablewriter.NewWriter(out)
	table.SetHeader([]string{"Âge", "Hommes", "Femmes"})
	for _, row := range data.AlignAges(snap.AgesMale, snap.AgesFemale) {
		table.Append([]string{strconv.Itoa(row.Age), utils.FormatCount(row.Male), utils.FormatCount(row.Female)})
	}
	table.Render()

	for _, part := range []struct {
		title   string
		ranking []models.CategoryVolume
	}{
		{"Catégorie socio-professionnelle homme", snap.CategoriesMale},
		{"Catégorie socio-professionnelle femme", snap.CategoriesFemale},
	} {
		fmt.Fprintln(out, part.title)
		table = tablewriter.NewWriter(out)
		table.SetAutoWrapText(false)
		table.SetHeader([]string{"Code", "Libellé", "Volume"})
		for _, c := range part.ranking {
			table.Append([]string{c.Code, c.Label, utils.FormatCount(c.Volume)})
		}
		table.Render()
	}
}
