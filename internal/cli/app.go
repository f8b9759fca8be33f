package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/rileyhilliard/pem/internal/activate"
	"github.com/rileyhilliard/pem/internal/address"
	"github.com/rileyhilliard/pem/internal/config"
	"github.com/rileyhilliard/pem/internal/errors"
	"github.com/rileyhilliard/pem/internal/logger"
	"github.com/rileyhilliard/pem/internal/promconfig"
	"github.com/rileyhilliard/pem/internal/store"
	"github.com/rileyhilliard/pem/internal/targetlist"
	"github.com/rileyhilliard/pem/internal/targets"
	"github.com/rileyhilliard/pem/internal/ui"
	"golang.org/x/term"
)

// App carries everything a command needs: settings, output, the prompter
// and the restart step.
type App struct {
	Cfg       *config.Config
	Out       io.Writer
	Log       logger.Logger
	Prompt    Prompter
	Activator activate.Activator

	// DryRun mutates in memory only: no file is written and nothing restarts.
	DryRun bool
	// Animate enables the spinner animation while restarting.
	Animate bool
	// Now names backup copies. Defaults to time.Now.
	Now func() time.Time
}

// newApp builds the App from the global flags and the settings file.
func newApp(in io.Reader, out io.Writer) (*App, error) {
	cfg, path, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, err
	}

	log := newConsoleLogger(out)
	if path != "" {
		log.Debug("settings loaded from %s", path)
	}

	var act activate.Activator = activate.CommandActivator{
		Container: cfg.Restart.Container,
		Command:   cfg.Restart.Command,
		Timeout:   cfg.Restart.Timeout,
	}
	if noRestart || dryRun {
		act = activate.Noop{}
	}

	return &App{
		Cfg:       cfg,
		Out:       out,
		Log:       log,
		Prompt:    newHuhPrompter(in, out),
		Activator: act,
		DryRun:    dryRun,
		Animate:   isTerminal(out),
	}, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (a *App) writer() store.Writer {
	return store.Writer{DisableBackup: !a.Cfg.Backup, Now: a.Now}
}

func (a *App) listFiles() (v4, v6 targetlist.File) {
	w := a.writer()
	return targetlist.File{Path: a.Cfg.TargetsV4, Writer: w},
		targetlist.File{Path: a.Cfg.TargetsV6, Writer: w}
}

func (a *App) manager() (*targets.Manager, error) {
	mode, err := targets.ParseMatchMode(a.Cfg.Match)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Use 'substring' or 'exact'.")
	}

	v4, v6 := a.listFiles()
	m := targets.New(v4, v6, targets.Options{
		NodePort:    a.Cfg.Ports.Node,
		ProbePort:   a.Cfg.Ports.Probe,
		ProbeModule: a.Cfg.Probe.Module,
		SDFiles:     a.Cfg.Probe.SDFiles,
		Match:       mode,
	}, a.Log)
	m.DryRun = a.DryRun
	return m, nil
}

func (a *App) loadPrimary() (*promconfig.Document, error) {
	doc, err := promconfig.Load(a.Cfg.PrometheusConfig)
	if err != nil {
		return nil, err
	}
	a.Log.Debug("loaded %s (%d jobs)", a.Cfg.PrometheusConfig, len(doc.ScrapeConfigs))
	return doc, nil
}

// AddHost registers a host in all three files and restarts Prometheus when
// the Prometheus config changed.
func (a *App) AddHost(ctx context.Context, req targets.AddRequest) error {
	doc, err := a.loadPrimary()
	if err != nil {
		return err
	}
	m, err := a.manager()
	if err != nil {
		return err
	}

	changed, err := m.Add(doc, req)
	if err != nil {
		return err
	}
	if !changed {
		printNote(a.Out, "%s is already in the Prometheus config, nothing to restart.", req.Host)
		return nil
	}

	if err := a.commit(ctx, doc); err != nil {
		return err
	}
	printSuccess(a.Out, "Added %s (%s)", req.Host, req.Instance)
	return nil
}

// RemoveHost deletes every trace of host and restarts Prometheus when
// anything was removed.
func (a *App) RemoveHost(ctx context.Context, host string) error {
	if err := checkIPv4(host); err != nil {
		return err
	}

	doc, err := a.loadPrimary()
	if err != nil {
		return err
	}
	m, err := a.manager()
	if err != nil {
		return err
	}

	changed, err := m.Remove(doc, host)
	if err != nil {
		return err
	}
	if !changed {
		printNote(a.Out, "No targets found for %s, nothing changed.", host)
		return nil
	}

	if err := a.commit(ctx, doc); err != nil {
		return err
	}
	printSuccess(a.Out, "Removed %s", host)
	return nil
}

func checkIPv4(host string) error {
	if !address.Validate(host, false) {
		return errors.New(errors.ErrValidate,
			fmt.Sprintf("'%s' isn't a valid IPv4 address", host),
			"Use a form like 192.168.1.1 or 192.168.1.1:9100.")
	}
	return nil
}

// commit saves the Prometheus config and restarts Prometheus. A failed save
// skips the restart.
func (a *App) commit(ctx context.Context, doc *promconfig.Document) error {
	path := a.Cfg.PrometheusConfig
	if a.DryRun {
		a.Log.Info("dry run: %s not written", path)
		return nil
	}

	backup, err := promconfig.Save(path, doc, a.writer())
	if err != nil {
		return err
	}
	if backup != "" {
		a.Log.Info("backed up %s to %s", path, backup)
	}

	return a.restart(ctx)
}

func (a *App) restart(ctx context.Context) error {
	if _, ok := a.Activator.(activate.Noop); ok {
		a.Log.Warn("restart skipped, run '%s' to apply", restartHint(a.Cfg))
		return nil
	}

	spinner := ui.NewSpinner(a.Out, "Restarting Prometheus ("+a.Activator.Describe()+")", a.Animate)
	spinner.Start()
	out, err := a.Activator.Activate(ctx)
	if err != nil {
		spinner.Fail()
		return err
	}
	spinner.Success()
	if out != "" {
		a.Log.Debug("%s", out)
	}
	return nil
}

func restartHint(cfg *config.Config) string {
	if cfg.Restart.Command != "" {
		return cfg.Restart.Command
	}
	return "docker restart " + cfg.Restart.Container
}

// Hosts joins the three files into one summary per host.
func (a *App) Hosts() ([]targets.HostSummary, error) {
	doc, err := a.loadPrimary()
	if err != nil {
		return nil, err
	}
	mode, err := targets.ParseMatchMode(a.Cfg.Match)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Use 'substring' or 'exact'.")
	}

	v4, v6 := a.listFiles()
	return targets.Inventory(doc, v4.LoadOrEmpty(a.Log), v6.LoadOrEmpty(a.Log), mode), nil
}

// ListHosts prints the host inventory and the managed files.
func (a *App) ListHosts() error {
	hosts, err := a.Hosts()
	if err != nil {
		return err
	}

	rows := make([]ui.HostRow, len(hosts))
	incomplete := 0
	for i, h := range hosts {
		rows[i] = ui.HostRow{
			Instance: h.Instance,
			Target:   h.Target,
			Probe:    h.ProbeJob,
			Auth:     h.BasicAuth,
			V4:       h.V4 != nil,
			Complete: h.Complete(),
		}
		if h.V6 != nil {
			rows[i].IPv6 = h.V6.FirstTarget()
		}
		if !h.Complete() {
			incomplete++
		}
	}

	fmt.Fprint(a.Out, ui.RenderHostTable(rows))
	fmt.Fprintln(a.Out)
	if incomplete > 0 {
		printNote(a.Out, "%d host(s) are missing entries. Run 'pem add' again to fill them in.", incomplete)
	}

	files := [][]string{
		{"prometheus", a.Cfg.PrometheusConfig},
		{"IPv4 list", a.Cfg.TargetsV4},
		{"IPv6 list", a.Cfg.TargetsV6},
	}
	width := 40
	for _, f := range files {
		width = max(width, len(f[1])+2)
	}
	fmt.Fprintln(a.Out, ui.RenderSimpleTable(
		[]ui.TableColumn{{Title: "File", Width: 12}, {Title: "Path", Width: width}},
		files,
	))
	return nil
}

// pickerHosts turns the inventory into picker entries for removal. Hosts
// scraped on a non-default port are removed by their full target.
func pickerHosts(hosts []targets.HostSummary, nodePort int) []ui.HostInfo {
	infos := make([]ui.HostInfo, 0, len(hosts))
	for _, h := range hosts {
		if h.IP == "" {
			continue
		}
		info := ui.HostInfo{
			Instance: h.Instance,
			Address:  h.IP,
			Target:   h.Target,
		}
		if h.Target != "" && h.Target != h.IP+":"+strconv.Itoa(nodePort) {
			info.Address = h.Target
		}
		if h.V4 != nil {
			info.City = h.V4.Labels.City
			info.Code = h.V4.Labels.Code
		}
		infos = append(infos, info)
	}
	return infos
}
