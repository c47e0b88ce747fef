package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/investor/internal/contracts"
	"github.com/wonny/investor/internal/menu"
	"github.com/wonny/investor/internal/session"
)

// companyCmd represents the company command
var companyCmd = &cobra.Command{
	Use:   "company",
	Short: "Create, read, update, delete and list companies",
	Long: `Company CRUD over the configured store.

read/update/delete select a company either by exact --ticker or by a
--name substring plus --index into the matches (ordered by ticker).
With several matches and no --index the matches are printed.

Example:
  go run ./cmd/investor company create --ticker MOON --name "Moon Corp" --sector Technology --net-profit 10
  go run ./cmd/investor company read --name Apple
  go run ./cmd/investor company update --name Apple --index 1 --equity 40
  go run ./cmd/investor company delete --ticker MOON
  go run ./cmd/investor company list`,
}

var (
	companyCreateCmd = &cobra.Command{
		Use:   "create",
		Short: "Create a company with its financial snapshot",
		RunE:  runCompanyCreate,
	}

	companyReadCmd = &cobra.Command{
		Use:   "read",
		Short: "Print a company's ratios",
		RunE:  runCompanyRead,
	}

	companyUpdateCmd = &cobra.Command{
		Use:   "update",
		Short: "Replace a company's financial snapshot",
		Long: `Replaces all nine figures of the snapshot.
A figure that is not given is stored as unknown.`,
		RunE: runCompanyUpdate,
	}

	companyDeleteCmd = &cobra.Command{
		Use:   "delete",
		Short: "Delete a company and its snapshot",
		RunE:  runCompanyDelete,
	}

	companyListCmd = &cobra.Command{
		Use:   "list",
		Short: "List all companies ordered by ticker",
		RunE:  runCompanyList,
	}
)

var (
	companyInput  session.CreateInput
	updateInput   session.FinancialInput
	companyTicker string
	companyQuery  string
	companyIndex  int
)

func init() {
	rootCmd.AddCommand(companyCmd)
	companyCmd.AddCommand(companyCreateCmd, companyReadCmd, companyUpdateCmd, companyDeleteCmd, companyListCmd)

	companyCreateCmd.Flags().StringVar(&companyInput.Ticker, "ticker", "", "ticker (e.g. MOON)")
	companyCreateCmd.Flags().StringVar(&companyInput.Name, "name", "", "company name")
	companyCreateCmd.Flags().StringVar(&companyInput.Sector, "sector", "", "industry sector")
	_ = companyCreateCmd.MarkFlagRequired("ticker")
	figureFlags(companyCreateCmd, &companyInput.Financial)

	for _, c := range []*cobra.Command{companyReadCmd, companyUpdateCmd, companyDeleteCmd} {
		c.Flags().StringVar(&companyTicker, "ticker", "", "exact ticker")
		c.Flags().StringVar(&companyQuery, "name", "", "name substring (case-sensitive)")
		c.Flags().IntVar(&companyIndex, "index", -1, "0-based index into the name matches")
		c.MarkFlagsOneRequired("ticker", "name")
		c.MarkFlagsMutuallyExclusive("ticker", "name")
	}
	figureFlags(companyUpdateCmd, &updateInput)
}

// figureFlags binds the nine snapshot figures; an omitted flag stays blank (unknown)
func figureFlags(c *cobra.Command, in *session.FinancialInput) {
	flags := c.Flags()
	for i, p := range in.Raw() {
		name := contracts.FinancialFields[i]
		flags.StringVar(p, flagName(name), "", name+" figure")
	}
}

func flagName(field string) string {
	return strings.ReplaceAll(field, "_", "-")
}

func runCompanyCreate(cmd *cobra.Command, args []string) error {
	params, err := companyInput.Parse()
	if err != nil {
		return err
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	created, err := a.session.CreateCompany(cmd.Context(), params)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	PrintSuccess(out, "Company created successfully!")
	menu.WriteReport(out, created)
	return nil
}

func runCompanyRead(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	var report *contracts.CompanyReport
	if cmd.Flags().Changed("ticker") {
		report, err = a.session.ReportByTicker(cmd.Context(), companyTicker)
	} else {
		var sel session.Selection
		if sel, err = resolveSelection(cmd, a); err == nil {
			report, err = a.session.ReadCompany(cmd.Context(), sel)
		}
	}
	if err != nil {
		return err
	}

	menu.WriteReport(cmd.OutOrStdout(), report)
	return nil
}

func runCompanyUpdate(cmd *cobra.Command, args []string) error {
	values, err := updateInput.Parse()
	if err != nil {
		return err
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	var report *contracts.CompanyReport
	if cmd.Flags().Changed("ticker") {
		report, err = a.session.UpdateByTicker(cmd.Context(), companyTicker, values)
	} else {
		var sel session.Selection
		if sel, err = resolveSelection(cmd, a); err == nil {
			report, err = a.session.UpdateCompany(cmd.Context(), sel, values)
		}
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	PrintSuccess(out, "Company updated successfully!")
	menu.WriteReport(out, report)
	return nil
}

func runCompanyDelete(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	var deleted *contracts.Company
	if cmd.Flags().Changed("ticker") {
		deleted, err = a.session.DeleteByTicker(cmd.Context(), companyTicker)
	} else {
		var sel session.Selection
		if sel, err = resolveSelection(cmd, a); err == nil {
			deleted, err = a.session.DeleteCompany(cmd.Context(), sel)
		}
	}
	if err != nil {
		return err
	}

	PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Company deleted successfully! (%s %s)", deleted.Ticker, deleted.Name))
	return nil
}

func runCompanyList(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	companies, err := a.session.ListCompanies(cmd.Context())
	if err != nil {
		return err
	}

	menu.WriteCompanyList(cmd.OutOrStdout(), companies)
	return nil
}

// resolveSelection applies --name/--index. Without --index a single match is
// taken; several matches are printed and reported as an invalid selection.
func resolveSelection(cmd *cobra.Command, a *app) (session.Selection, error) {
	sel := session.Selection{Query: companyQuery, Index: companyIndex}
	if cmd.Flags().Changed("index") {
		return sel, nil
	}

	matches, err := a.session.Search(cmd.Context(), companyQuery)
	if err != nil {
		return sel, err
	}
	if len(matches) == 1 {
		sel.Index = 0
		return sel, nil
	}

	menu.WriteMatches(cmd.OutOrStdout(), matches)
	return sel, fmt.Errorf("%w: %d companies match %q, pass --index",
		contracts.ErrInvalidSelection, len(matches), companyQuery)
}
