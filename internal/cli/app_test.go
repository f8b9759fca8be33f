package cli

import (
	"bytes"
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rileyhilliard/pem/internal/activate"
	"github.com/rileyhilliard/pem/internal/config"
	"github.com/rileyhilliard/pem/internal/errors"
	"github.com/rileyhilliard/pem/internal/logger"
	"github.com/rileyhilliard/pem/internal/store"
	"github.com/rileyhilliard/pem/internal/targetlist"
	"github.com/rileyhilliard/pem/internal/targets"
	"github.com/rileyhilliard/pem/internal/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const basePrometheus = `global:
  scrape_interval: 15s
scrape_configs:
  - job_name: prometheus
    static_configs: []
`

// fakePrompter answers prompts from canned values and records what was asked.
type fakePrompter struct {
	menu []string

	fill    AddInput
	addErr  error
	addSeen []AddInput

	removeAddr string
	removeErr  error

	confirm    bool
	confirmErr error
	confirmed  []string

	pick       *ui.HostInfo
	pickErr    error
	pickOffers []ui.HostInfo
}

func (p *fakePrompter) MenuChoice() (string, error) {
	if len(p.menu) == 0 {
		return choiceQuit, nil
	}
	choice := p.menu[0]
	p.menu = p.menu[1:]
	return choice, nil
}

func (p *fakePrompter) CompleteAdd(in *AddInput) error {
	p.addSeen = append(p.addSeen, *in)
	if p.addErr != nil {
		return p.addErr
	}
	if in.IP == "" {
		in.IP = p.fill.IP
	}
	if in.Name == "" {
		in.Name = p.fill.Name
	}
	if in.Code == "" {
		in.Code = p.fill.Code
	}
	if in.City == "" {
		in.City = p.fill.City
	}
	if in.IPv6Address == "" {
		in.IPv6Address = p.fill.IPv6Address
		in.MonitorIPv6 = in.MonitorIPv6 || p.fill.MonitorIPv6
	}
	if in.AuthUser == "" && !in.NoAuth {
		in.AuthUser = p.fill.AuthUser
		in.AuthPassword = p.fill.AuthPassword
	}
	return nil
}

func (p *fakePrompter) RemoveAddress() (string, error) {
	return p.removeAddr, p.removeErr
}

func (p *fakePrompter) Confirm(title string) (bool, error) {
	p.confirmed = append(p.confirmed, title)
	return p.confirm, p.confirmErr
}

func (p *fakePrompter) PickHost(hosts []ui.HostInfo) (*ui.HostInfo, error) {
	p.pickOffers = hosts
	return p.pick, p.pickErr
}

type fakeActivator struct {
	calls int
	err   error
}

func (a *fakeActivator) Activate(ctx context.Context) (string, error) {
	a.calls++
	return "ok", a.err
}

func (a *fakeActivator) Describe() string {
	return "fake restart"
}

type testEnv struct {
	dir    string
	app    *App
	out    *bytes.Buffer
	log    *logger.BufferLogger
	prompt *fakePrompter
	act    *fakeActivator
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.PrometheusConfig = filepath.Join(dir, "prometheus.yml")
	cfg.TargetsV4 = filepath.Join(dir, "blackbox", "my_vps.yml")
	cfg.TargetsV6 = filepath.Join(dir, "blackbox", "my_vps_v6.yml")
	require.NoError(t, os.WriteFile(cfg.PrometheusConfig, []byte(basePrometheus), 0644))

	env := &testEnv{
		dir:    dir,
		out:    &bytes.Buffer{},
		log:    logger.NewBufferLogger(),
		prompt: &fakePrompter{confirm: true},
		act:    &fakeActivator{},
	}
	env.app = &App{
		Cfg:       cfg,
		Out:       env.out,
		Log:       env.log,
		Prompt:    env.prompt,
		Activator: env.act,
	}
	return env
}

func (e *testEnv) read(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func (e *testEnv) prometheus(t *testing.T) string {
	return e.read(t, e.app.Cfg.PrometheusConfig)
}

func aliceInput() AddInput {
	return AddInput{IP: "10.0.0.5", Name: "HK-Alice", Code: "HKG", City: "Hong Kong"}
}

func TestAddHost_WritesFilesAndRestarts(t *testing.T) {
	env := newTestEnv(t)

	err := runAdd(context.Background(), env.app, aliceInput())
	require.NoError(t, err)

	prom := env.prometheus(t)
	assert.Contains(t, prom, "10.0.0.5:9100")
	assert.Contains(t, prom, "job_name: HK-Alice")
	assert.Contains(t, prom, "scrape_interval: 15s", "unrelated settings survive")

	v4 := env.read(t, env.app.Cfg.TargetsV4)
	assert.Contains(t, v4, "HK | Alice")
	assert.Contains(t, v4, "10.0.0.5")

	_, err = os.Stat(env.app.Cfg.TargetsV6)
	assert.True(t, os.IsNotExist(err), "no IPv6 address, no v6 list write")

	backups, err := filepath.Glob(filepath.Join(env.dir, "prometheus.yml.bak.*"))
	require.NoError(t, err)
	assert.Len(t, backups, 1)

	assert.Equal(t, 1, env.act.calls)
	assert.Empty(t, env.prompt.addSeen, "complete input asks nothing")
	assert.Contains(t, env.out.String(), "Added 10.0.0.5 (HK-Alice)")
	assert.Contains(t, env.out.String(), "Restarting Prometheus (fake restart)")
}

func TestAddHost_AlreadyPresentSkipsRestart(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, runAdd(ctx, env.app, aliceInput()))
	before := env.prometheus(t)

	require.NoError(t, runAdd(ctx, env.app, aliceInput()))

	assert.Equal(t, before, env.prometheus(t))
	assert.Equal(t, 1, env.act.calls)
	assert.Contains(t, env.out.String(), "nothing to restart")
}

func TestAddHost_BackupDisabled(t *testing.T) {
	env := newTestEnv(t)
	env.app.Cfg.Backup = false

	require.NoError(t, runAdd(context.Background(), env.app, aliceInput()))

	backups, err := filepath.Glob(filepath.Join(env.dir, "*.bak.*"))
	require.NoError(t, err)
	assert.Empty(t, backups)
}

func TestAddHost_RestartFailure(t *testing.T) {
	env := newTestEnv(t)
	env.act.err = errors.New(errors.ErrActivate, "Restart failed", "")

	err := runAdd(context.Background(), env.app, aliceInput())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrActivate))

	assert.Contains(t, env.prometheus(t), "HK-Alice", "files are written before the restart")
}

func TestAddHost_SaveFailureSkipsRestart(t *testing.T) {
	env := newTestEnv(t)
	now := time.Date(2026, 10, 19, 8, 30, 5, 0, time.Local)
	env.app.Now = func() time.Time { return now }
	// A directory where the backup copy goes makes the save fail.
	require.NoError(t, os.Mkdir(store.BackupPath(env.app.Cfg.PrometheusConfig, now), 0755))

	err := runAdd(context.Background(), env.app, aliceInput())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrSave))

	assert.Equal(t, 0, env.act.calls)
	assert.Equal(t, basePrometheus, env.prometheus(t))
	assert.NotContains(t, env.out.String(), "Restarting Prometheus")
}

func TestAddHost_MissingPrometheusConfig(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.Remove(env.app.Cfg.PrometheusConfig))

	err := runAdd(context.Background(), env.app, aliceInput())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrNotFound))
	assert.Equal(t, 0, env.act.calls)

	_, statErr := os.Stat(env.app.Cfg.TargetsV4)
	assert.True(t, os.IsNotExist(statErr), "nothing is written when the config can't be loaded")
}

func TestAddHost_NoRestart(t *testing.T) {
	env := newTestEnv(t)
	env.app.Activator = activate.Noop{}

	require.NoError(t, runAdd(context.Background(), env.app, aliceInput()))

	assert.Contains(t, env.prometheus(t), "HK-Alice")
	assert.True(t, env.log.Contains("warn", "docker restart prometheus"))
}

func TestAddHost_DryRun(t *testing.T) {
	env := newTestEnv(t)
	env.app.DryRun = true
	env.app.Activator = activate.Noop{}

	require.NoError(t, runAdd(context.Background(), env.app, aliceInput()))

	assert.Equal(t, basePrometheus, env.prometheus(t))
	_, err := os.Stat(env.app.Cfg.TargetsV4)
	assert.True(t, os.IsNotExist(err))
	assert.True(t, env.log.Contains("info", "dry run"))
}

func TestRemoveHost_AfterAdd(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	in := aliceInput()
	in.IPv6Address = "2001:db8::5"
	require.NoError(t, runAdd(ctx, env.app, in))
	require.Contains(t, env.read(t, env.app.Cfg.TargetsV6), "2001:db8::5")

	require.NoError(t, runRemove(ctx, env.app, []string{"10.0.0.5"}, false, true))

	prom := env.prometheus(t)
	assert.NotContains(t, prom, "10.0.0.5")
	assert.NotContains(t, prom, "HK-Alice")
	assert.NotContains(t, env.read(t, env.app.Cfg.TargetsV4), "10.0.0.5")
	assert.NotContains(t, env.read(t, env.app.Cfg.TargetsV6), "2001:db8::5")

	assert.Equal(t, 2, env.act.calls)
	assert.Empty(t, env.prompt.confirmed, "--yes skips confirmation")
	assert.Contains(t, env.out.String(), "Removed 10.0.0.5")
}

func TestRemoveHost_UnknownHost(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, runRemove(context.Background(), env.app, []string{"10.9.9.9"}, false, true))

	assert.Equal(t, basePrometheus, env.prometheus(t))
	assert.Equal(t, 0, env.act.calls)
	assert.Contains(t, env.out.String(), "No targets found for 10.9.9.9")
}

func TestRemoveHost_InvalidAddress(t *testing.T) {
	tests := []struct {
		name string
		host string
	}{
		{"not an address", "prometheus"},
		{"octet out of range", "10.0.0.256"},
		{"ipv6", "2001:db8::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			err := runRemove(context.Background(), env.app, []string{tt.host}, false, false)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrValidate))
			assert.Empty(t, env.prompt.confirmed, "invalid input is rejected before confirming")
		})
	}
}

func TestListHosts(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, runAdd(context.Background(), env.app, aliceInput()))
	env.out.Reset()

	require.NoError(t, env.app.ListHosts())

	out := env.out.String()
	assert.Contains(t, out, "HK-Alice")
	assert.Contains(t, out, "10.0.0.5:9100")
	assert.Contains(t, out, env.app.Cfg.PrometheusConfig)
	assert.Contains(t, out, env.app.Cfg.TargetsV4)
	assert.NotContains(t, out, "missing entries")
}

func TestListHosts_FlagsIncompleteHosts(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, runAdd(context.Background(), env.app, aliceInput()))
	require.NoError(t, os.Remove(env.app.Cfg.TargetsV4))
	env.out.Reset()

	require.NoError(t, env.app.ListHosts())

	assert.Contains(t, env.out.String(), "1 host(s) are missing entries")
}

func TestListHosts_Empty(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.app.ListHosts())
	assert.Contains(t, env.out.String(), "No hosts configured")
}

func TestPickerHosts(t *testing.T) {
	hosts := []targets.HostSummary{
		{
			Instance: "HK-Alice",
			Target:   "10.0.0.5:9100",
			IP:       "10.0.0.5",
			V4:       &targetlist.Entry{Labels: targetlist.Labels{City: "Hong Kong", Code: "HKG"}},
		},
		{Instance: "JP-Tokyo", Target: "10.0.0.1:9101", IP: "10.0.0.1"},
		{Instance: "SG-Orphan", IP: "10.0.0.7"},
		{Instance: "broken"},
	}

	got := pickerHosts(hosts, 9100)
	require.Len(t, got, 3)

	assert.Equal(t, ui.HostInfo{
		Instance: "HK-Alice", Address: "10.0.0.5", Target: "10.0.0.5:9100", City: "Hong Kong", Code: "HKG",
	}, got[0])
	assert.Equal(t, "10.0.0.1:9101", got[1].Address, "non-default port removes by full target")
	assert.Equal(t, "10.0.0.7", got[2].Address)
}

func TestCancelled(t *testing.T) {
	env := newTestEnv(t)

	assert.NoError(t, cancelled(env.app, errCancelled))
	assert.Contains(t, env.out.String(), "Cancelled.")

	other := stderrors.New("boom")
	assert.Equal(t, other, cancelled(env.app, other))
}
