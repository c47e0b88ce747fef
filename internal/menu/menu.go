// Package menu runs the interactive investor menus over a text stream.
package menu

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/wonny/investor/internal/contracts"
	"github.com/wonny/investor/internal/session"
)

// errQuit ends the loop when the user exits or input runs out
var errQuit = errors.New("quit")

type screen struct {
	title   string
	options []string
}

var (
	mainScreen = screen{"MAIN MENU", []string{
		"Exit",
		"CRUD operations",
		"Show top ten companies by criteria",
	}}
	crudScreen = screen{"CRUD MENU", []string{
		"Back",
		"Create a company",
		"Read a company",
		"Update a company",
		"Delete a company",
		"List all companies",
	}}
	topScreen = screen{"TOP TEN MENU", []string{
		"Back",
		"List by ND/EBITDA",
		"List by ROE",
		"List by ROA",
	}}
)

// figurePrompts are the snapshot prompts in contracts.FinancialFields order
var figurePrompts = []string{
	"ebitda",
	"sales",
	"net profit",
	"market price",
	"net debt",
	"assets",
	"equity",
	"cash equivalents",
	"liabilities",
}

// Menu is one interactive session over in/out
type Menu struct {
	session *session.Session
	in      *bufio.Scanner
	out     io.Writer
	limit   int
	current screen
}

// New creates a menu. limit is the size of the top-ten listings.
func New(s *session.Session, in io.Reader, out io.Writer, limit int) *Menu {
	return &Menu{
		session: s,
		in:      bufio.NewScanner(in),
		out:     out,
		limit:   limit,
		current: mainScreen,
	}
}

// Run loops until Exit is chosen, input ends or ctx is cancelled
func (m *Menu) Run(ctx context.Context) error {
	m.println("Welcome to the Investor Program!")
	m.println()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := m.step(ctx)
		m.println()

		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (m *Menu) step(ctx context.Context) error {
	m.printScreen(m.current)

	line, err := m.prompt("Enter an option:")
	if err != nil {
		return err
	}

	choice, err := strconv.Atoi(line)
	if err != nil || choice < 0 || choice >= len(m.current.options) {
		m.println("Invalid option!")
		m.current = mainScreen
		return nil
	}

	option := m.current.options[choice]
	next := mainScreen

	switch option {
	case "Exit":
		m.println()
		m.println("Have a nice day!")
		return errQuit
	case "CRUD operations":
		next = crudScreen
	case "Show top ten companies by criteria":
		next = topScreen
	case "Back":
	case "Create a company":
		err = m.create(ctx)
	case "Read a company":
		err = m.read(ctx)
	case "Update a company":
		err = m.update(ctx)
	case "Delete a company":
		err = m.delete(ctx)
	case "List all companies":
		err = m.list(ctx)
	case "List by ND/EBITDA":
		err = m.top(ctx, contracts.MetricNDEBITDA)
	case "List by ROE":
		err = m.top(ctx, contracts.MetricROE)
	case "List by ROA":
		err = m.top(ctx, contracts.MetricROA)
	}

	m.current = next
	return err
}

func (m *Menu) create(ctx context.Context) error {
	var in session.CreateInput
	var err error

	if in.Ticker, err = m.prompt("Enter ticker (in the format 'MOON'):"); err != nil {
		return err
	}
	if in.Name, err = m.prompt("Enter company (in the format 'Moon Corp'):"); err != nil {
		return err
	}
	if in.Sector, err = m.prompt("Enter industries (in the format 'Technology'):"); err != nil {
		return err
	}
	if in.Financial, err = m.promptFigures(); err != nil {
		return err
	}

	params, err := in.Parse()
	if err != nil {
		return m.report(err)
	}

	if _, err := m.session.CreateCompany(ctx, params); err != nil {
		return m.report(err)
	}

	m.println("Company created successfully!")
	return nil
}

func (m *Menu) read(ctx context.Context) error {
	sel, ok, err := m.selectCompany(ctx)
	if err != nil || !ok {
		return err
	}

	report, err := m.session.ReadCompany(ctx, sel)
	if err != nil {
		return m.report(err)
	}

	WriteReport(m.out, report)
	return nil
}

func (m *Menu) update(ctx context.Context) error {
	sel, ok, err := m.selectCompany(ctx)
	if err != nil || !ok {
		return err
	}

	input, err := m.promptFigures()
	if err != nil {
		return err
	}

	values, err := input.Parse()
	if err != nil {
		return m.report(err)
	}

	if _, err := m.session.UpdateCompany(ctx, sel, values); err != nil {
		return m.report(err)
	}

	m.println("Company updated successfully!")
	return nil
}

func (m *Menu) delete(ctx context.Context) error {
	sel, ok, err := m.selectCompany(ctx)
	if err != nil || !ok {
		return err
	}

	if _, err := m.session.DeleteCompany(ctx, sel); err != nil {
		return m.report(err)
	}

	m.println("Company deleted successfully!")
	return nil
}

func (m *Menu) list(ctx context.Context) error {
	companies, err := m.session.ListCompanies(ctx)
	if err != nil {
		return m.report(err)
	}

	WriteCompanyList(m.out, companies)
	return nil
}

func (m *Menu) top(ctx context.Context, metric contracts.Metric) error {
	ranking, err := m.session.Rank(ctx, metric, m.limit)
	if err != nil {
		return m.report(err)
	}

	WriteRanking(m.out, ranking)
	return nil
}

// selectCompany asks for a name, lists the matches and asks for a number.
// ok is false when nothing was selected (message already printed).
func (m *Menu) selectCompany(ctx context.Context) (session.Selection, bool, error) {
	query, err := m.prompt("Enter company name:")
	if err != nil {
		return session.Selection{}, false, err
	}

	matches, err := m.session.Search(ctx, query)
	if err != nil {
		return session.Selection{}, false, m.report(err)
	}

	WriteMatches(m.out, matches)

	line, err := m.prompt("Enter company number:")
	if err != nil {
		return session.Selection{}, false, err
	}

	index, err := strconv.Atoi(line)
	if err != nil {
		m.println("Invalid company number!")
		return session.Selection{}, false, nil
	}

	return session.Selection{Query: query, Index: index}, true, nil
}

func (m *Menu) promptFigures() (session.FinancialInput, error) {
	var in session.FinancialInput

	for i, field := range in.Raw() {
		v, err := m.prompt(fmt.Sprintf("Enter %s (in the format '987654321'):", figurePrompts[i]))
		if err != nil {
			return in, err
		}
		*field = v
	}

	return in, nil
}

// report prints a use case failure. Only unclassified errors stop the loop.
func (m *Menu) report(err error) error {
	switch contracts.Classify(err) {
	case contracts.OutcomeNotFound:
		m.println("Company not found!")
	case contracts.OutcomeInvalidSelection:
		m.println("Invalid company number!")
	case contracts.OutcomeIntegrity:
		m.println("Company already exists!")
	case contracts.OutcomeParse:
		m.println("Invalid input: " + err.Error())
	default:
		return err
	}
	return nil
}

func (m *Menu) prompt(text string) (string, error) {
	m.println(text)

	if !m.in.Scan() {
		if err := m.in.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", errQuit
	}
	return strings.TrimSpace(m.in.Text()), nil
}

func (m *Menu) printScreen(s screen) {
	m.println(s.title)
	for i, option := range s.options {
		fmt.Fprintf(m.out, "%d %s\n", i, option)
	}
	m.println()
}

func (m *Menu) println(a ...interface{}) {
	fmt.Fprintln(m.out, a...)
}
