package commands

import (
	"errors"
	"fmt"
	"io"
	"sort"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"serviceflow/internal/domain"
	"serviceflow/internal/location"
	"serviceflow/internal/tui"
	"serviceflow/internal/validate"
	"serviceflow/internal/wizard"
)

type registerFlags struct {
	noInput         bool
	company         string
	phone           string
	email           string
	address         string
	password        string
	confirmPassword string
	currentLocation bool
	search          string
}

func registerCmd(opts *rootOptions) *cobra.Command {
	f := &registerFlags{}

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a company",
		Long: `Starts the three-step registration wizard.

With --no-input the same steps run from flags, which is handy for scripts:

  serviceflow register --no-input --company "Acme" --phone 5512345678 \
    --email ops@acme.mx --search "ciudad de mexico" \
    --password s3cretpass --confirm-password s3cretpass`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{ownsTerminal: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.wire.Backend.Health(cmd.Context()); err != nil {
				return fmt.Errorf("%w at %s: %w", errBackendUnreachable, opts.cfg.Backend.BaseURL, err)
			}
			if f.noInput {
				return runRegisterFlags(cmd, opts, f)
			}
			return runRegisterTUI(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&f.noInput, "no-input", false, "do not prompt; take every value from flags")
	cmd.Flags().StringVar(&f.company, "company", "", "company name")
	cmd.Flags().StringVar(&f.phone, "phone", "", "10-digit phone number")
	cmd.Flags().StringVar(&f.email, "email", "", "contact email")
	cmd.Flags().StringVar(&f.address, "address", "", "service address typed by hand")
	cmd.Flags().StringVar(&f.password, "password", "", "account password (at least 8 characters)")
	cmd.Flags().StringVar(&f.confirmPassword, "confirm-password", "", "repeat the password")
	cmd.Flags().BoolVar(&f.currentLocation, "current-location", false, "use the current location as the address")
	cmd.Flags().StringVar(&f.search, "search", "", "search the address and take the first suggestion")
	return cmd
}

func runRegisterTUI(cmd *cobra.Command, opts *rootOptions) error {
	model := tui.New(opts.wire.NewController, opts.wire.Picker, tui.Options{
		Context:      cmd.Context(),
		DashboardURL: opts.cfg.GetDashboardURL(),
	})
	p := tea.NewProgram(model,
		tea.WithContext(cmd.Context()),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	final, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	if m, ok := final.(tui.Model); ok && m.Aborted() {
		fmt.Fprintln(cmd.ErrOrStderr(), "Registration cancelled.")
	}
	return nil
}

var (
	// errStageInvalid is returned after the per-field messages were printed.
	errStageInvalid = errors.New("registration has invalid fields")
	// errBackendUnreachable is returned when the health check fails before the wizard starts.
	errBackendUnreachable = errors.New("backend unreachable")
)

func runRegisterFlags(cmd *cobra.Command, opts *rootOptions, f *registerFlags) error {
	ctx := cmd.Context()
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

	var account domain.Account
	ctrl := opts.wire.NewController(func(a domain.Account) { account = a })
	defer ctrl.Close()

	set := func(values map[domain.Field]string) error {
		for field, v := range values {
			if err := ctrl.SetField(field, v); err != nil {
				return err
			}
		}
		return nil
	}

	if err := set(map[domain.Field]string{
		domain.FieldCompanyName:     f.company,
		domain.FieldPhoneNumber:     f.phone,
		domain.FieldEmail:           f.email,
		domain.FieldAddress:         f.address,
		domain.FieldPassword:        f.password,
		domain.FieldConfirmPassword: f.confirmPassword,
	}); err != nil {
		return err
	}

	switch {
	case f.currentLocation:
		opts.wire.Picker.RequestCurrentPosition(ctx, ctrl)
	case f.search != "":
		results, err := opts.wire.Picker.Search(ctx, f.search)
		switch {
		case err != nil:
			return fmt.Errorf("search address: %w", err)
		case len(results) == 0:
			ctrl.Advise(location.Advisory(domain.ErrNoResults))
		default:
			opts.wire.Picker.Accept(results[0], ctrl)
		}
	}
	st := ctrl.State()
	if st.Advisory != nil {
		fmt.Fprintln(errOut, "warning:", st.Advisory.Message)
	}
	if st.Location != nil {
		fmt.Fprintln(out, "Location:", st.Location.String())
	}

	// Flags carry every stage at once, so report every invalid field together.
	if errs := validate.All(st.Draft, st.Location, opts.wire.ValidationOptions()); len(errs) > 0 {
		printErrors(errOut, errs)
		return errStageInvalid
	}
	for range 2 {
		if err := advance(ctrl, errOut); err != nil {
			return err
		}
	}
	if err := ctrl.Submit(ctx); err != nil {
		if errors.Is(err, wizard.ErrInvalidStage) {
			printErrors(errOut, ctrl.Errors())
			return errStageInvalid
		}
		if msg := ctrl.State().SubmitError; msg != "" {
			fmt.Fprintln(errOut, msg)
		}
		return err
	}

	fmt.Fprintf(out, "Registered %s (account %s)\n", account.CompanyName, account.ID)
	fmt.Fprintf(out, "Continue at %s\n", opts.cfg.GetDashboardURL())
	return nil
}

func advance(ctrl *wizard.Controller, errOut io.Writer) error {
	if err := ctrl.Advance(); err != nil {
		if errors.Is(err, wizard.ErrInvalidStage) {
			printErrors(errOut, ctrl.Errors())
			return errStageInvalid
		}
		return err
	}
	return nil
}

func printErrors(w io.Writer, errs domain.StageErrors) {
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, string(f))
	}
	sort.Strings(fields)
	for _, f := range fields {
		fmt.Fprintf(w, "  %s: %s\n", f, errs[domain.Field(f)])
	}
}
