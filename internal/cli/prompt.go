package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/rileyhilliard/pem/internal/address"
	"github.com/rileyhilliard/pem/internal/errors"
	"github.com/rileyhilliard/pem/internal/promconfig"
	"github.com/rileyhilliard/pem/internal/targets"
	"github.com/rileyhilliard/pem/internal/ui"
	"golang.org/x/term"
)

// Menu choices
const (
	choiceAdd    = "add"
	choiceRemove = "remove"
	choiceList   = "list"
	choiceQuit   = "quit"
)

// errCancelled is returned by prompts the operator backed out of.
var errCancelled = stderrors.New("cancelled")

// AddInput collects the answers for an add, from flags or prompts.
type AddInput struct {
	IP   string
	Name string
	Code string
	City string

	// MonitorIPv6 keeps IPv6 targets in the probe job. When false the job
	// drops them.
	MonitorIPv6 bool
	IPv6Address string

	AuthUser     string
	AuthPassword string
	// NoAuth skips the basic auth question.
	NoAuth bool
}

// Complete reports whether every required field is filled in.
func (in AddInput) Complete() bool {
	return in.IP != "" && in.Name != "" && in.Code != "" && in.City != ""
}

// Request converts the answers into a targets.AddRequest.
func (in AddInput) Request() targets.AddRequest {
	return targets.AddRequest{
		Host:         strings.TrimSpace(in.IP),
		Instance:     strings.TrimSpace(in.Name),
		Code:         strings.TrimSpace(in.Code),
		City:         strings.TrimSpace(in.City),
		FilterIPv6:   !in.MonitorIPv6,
		IPv6:         strings.TrimSpace(in.IPv6Address),
		AuthUsername: in.AuthUser,
		AuthPassword: in.AuthPassword,
	}
}

// Prompter asks the operator for input. huhPrompter is the terminal
// implementation.
type Prompter interface {
	// MenuChoice shows the main menu.
	MenuChoice() (string, error)
	// CompleteAdd asks for every field of in that is still empty. Invalid
	// answers are asked again.
	CompleteAdd(in *AddInput) error
	// RemoveAddress asks for the address of the host to remove.
	RemoveAddress() (string, error)
	// Confirm asks a yes/no question.
	Confirm(title string) (bool, error)
	// PickHost lets the operator choose from known hosts. Nil means cancelled.
	PickHost(hosts []ui.HostInfo) (*ui.HostInfo, error)
}

type huhPrompter struct {
	in  io.Reader
	out io.Writer
}

func newHuhPrompter(in io.Reader, out io.Writer) *huhPrompter {
	return &huhPrompter{in: in, out: out}
}

// interactive reports whether prompts can be shown.
func (p *huhPrompter) interactive() bool {
	f, ok := p.in.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (p *huhPrompter) run(form *huh.Form) error {
	if !p.interactive() {
		return errors.New(errors.ErrValidate,
			"Input is needed but there's no terminal to ask on",
			"Pass the values as flags instead, see 'pem --help'.")
	}
	err := form.WithInput(p.in).WithOutput(p.out).Run()
	if stderrors.Is(err, huh.ErrUserAborted) {
		return errCancelled
	}
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrValidate,
			"Couldn't get your input",
			"Check terminal compatibility or pass the values as flags.")
	}
	return nil
}

func (p *huhPrompter) MenuChoice() (string, error) {
	var choice string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("What would you like to do?").
				Options(
					huh.NewOption("Add a monitored host", choiceAdd),
					huh.NewOption("Remove a monitored host", choiceRemove),
					huh.NewOption("List monitored hosts", choiceList),
					huh.NewOption("Quit", choiceQuit),
				).
				Value(&choice),
		),
	)
	if err := p.run(form); err != nil {
		if stderrors.Is(err, errCancelled) {
			return choiceQuit, nil
		}
		return "", err
	}
	return choice, nil
}

func (p *huhPrompter) CompleteAdd(in *AddInput) error {
	var groups []*huh.Group

	var hostFields []huh.Field
	if in.IP == "" {
		hostFields = append(hostFields, huh.NewInput().
			Title("Host IPv4 address").
			Placeholder("192.168.1.1").
			Value(&in.IP).
			Validate(validateIPv4Input))
	}
	if in.Name == "" {
		hostFields = append(hostFields, huh.NewInput().
			Title("Instance name").
			Description("Becomes the probe job name").
			Placeholder("HK-Alice").
			Value(&in.Name).
			Validate(validateInstanceInput))
	}
	if in.Code == "" {
		hostFields = append(hostFields, huh.NewInput().
			Title("Airport code").
			Placeholder("HKG").
			Value(&in.Code).
			Validate(requiredInput("code")))
	}
	if in.City == "" {
		hostFields = append(hostFields, huh.NewInput().
			Title("City").
			Placeholder("Hong Kong").
			Value(&in.City).
			Validate(requiredInput("city")))
	}
	if len(hostFields) > 0 {
		groups = append(groups, huh.NewGroup(hostFields...))
	}

	groups = append(groups, ipv6Groups(in)...)

	if !in.NoAuth && in.AuthUser == "" && in.AuthPassword == "" {
		useAuth := true
		groups = append(groups,
			huh.NewGroup(
				huh.NewConfirm().
					Title("Protect blackbox_exporter with basic auth?").
					Description("Recommended: keeps the exporter's /metrics endpoint private").
					Affirmative("Yes (recommended)").
					Negative("No").
					Value(&useAuth),
			),
			huh.NewGroup(
				huh.NewInput().
					Title("Basic auth username").
					Value(&in.AuthUser).
					Validate(requiredInput("username")),
				huh.NewInput().
					Title("Basic auth password").
					EchoMode(huh.EchoModePassword).
					Value(&in.AuthPassword).
					Validate(requiredInput("password")),
			).WithHideFunc(func() bool { return !useAuth }),
		)
	}

	if len(groups) == 0 {
		return nil
	}
	return p.run(huh.NewForm(groups...))
}

// ipv6Groups asks whether to monitor IPv6 unless --ipv6 already said so,
// then asks for the address whenever it is missing and monitoring is on.
func ipv6Groups(in *AddInput) []*huh.Group {
	if in.IPv6Address != "" {
		return nil
	}

	var groups []*huh.Group
	if !in.MonitorIPv6 {
		groups = append(groups, huh.NewGroup(
			huh.NewConfirm().
				Title("Monitor this host over IPv6?").
				Description("No adds a relabel step that drops IPv6 targets from its probe job").
				Value(&in.MonitorIPv6),
		))
	}
	groups = append(groups, huh.NewGroup(
		huh.NewInput().
			Title("IPv6 address for the blackbox target list (optional)").
			Placeholder("2001:db8::1").
			Value(&in.IPv6Address).
			Validate(validateIPv6Input),
	).WithHideFunc(func() bool { return !in.MonitorIPv6 }))
	return groups
}

func (p *huhPrompter) RemoveAddress() (string, error) {
	var addr string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Host IPv4 address to remove").
				Placeholder("192.168.1.1").
				Value(&addr).
				Validate(validateIPv4Input),
		),
	)
	if err := p.run(form); err != nil {
		return "", err
	}
	return strings.TrimSpace(addr), nil
}

func (p *huhPrompter) Confirm(title string) (bool, error) {
	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Value(&ok),
		),
	)
	if err := p.run(form); err != nil {
		return false, err
	}
	return ok, nil
}

func (p *huhPrompter) PickHost(hosts []ui.HostInfo) (*ui.HostInfo, error) {
	if !p.interactive() {
		return nil, errors.New(errors.ErrValidate,
			"Picking a host needs a terminal",
			"Pass the address instead: pem remove <ip>")
	}
	return ui.PickHost(hosts, p.out, p.in)
}

func validateIPv4Input(s string) error {
	if !address.Validate(strings.TrimSpace(s), false) {
		return fmt.Errorf("enter a valid IPv4 address, like 192.168.1.1")
	}
	return nil
}

func validateIPv6Input(s string) error {
	s = strings.TrimSpace(s)
	if s != "" && (!address.Validate(s, true) || address.Validate(s, false)) {
		return fmt.Errorf("enter a valid IPv6 address, like 2001:db8::1")
	}
	return nil
}

func validateInstanceInput(s string) error {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return fmt.Errorf("instance name is required")
	case promconfig.JobPrometheus, promconfig.JobBlackboxExporter, promconfig.JobCAdvisor:
		return fmt.Errorf("'%s' is a reserved job name", s)
	}
	return nil
}

func requiredInput(what string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", what)
		}
		return nil
	}
}
