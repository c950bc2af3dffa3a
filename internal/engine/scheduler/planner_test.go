package scheduler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/mason/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

func TestResolve_ConcreteTargetIsItself(t *testing.T) {
	set := mustSet(t, domain.NewVoidTarget("all"))
	target, ok := set.Get(intern("all"))
	require.True(t, ok)

	resolved, err := scheduler.Resolve(set, target, testConfig(t))
	require.NoError(t, err)
	assert.Equal(t, intern("all"), resolved.Name)
}

func TestResolve_FollowsRedirectChain(t *testing.T) {
	set := mustSet(t,
		domain.NewRedirectTarget("cli", domain.OptionDownload, map[string]string{
			"false": "cli-crate",
			"true":  "cli-download",
		}),
		domain.NewRedirectTarget("cli-crate", domain.OptionContainerized, map[string]string{
			"false": "cli-host",
			"true":  "cli-container",
		}),
		domain.NewCrateTarget("cli-host", domain.CrateKind{Packages: []string{"loom-cli"}}),
		domain.NewContainerTarget("cli-container", domain.ContainerRunKind{Image: "loom-build:latest"}),
		domain.NewDownloadTarget("cli-download", "https://example.com/loom", "./out/loom"),
	)
	target, ok := set.Get(intern("cli"))
	require.True(t, ok)

	tests := []struct {
		name   string
		mutate func(*domain.BuildConfig)
		want   string
	}{
		{"defaults compile on the host", func(*domain.BuildConfig) {}, "cli-host"},
		{"download wins over compilation", func(c *domain.BuildConfig) { c.Download = true }, "cli-download"},
		{"containerized compilation", func(c *domain.BuildConfig) { c.Containerized = true }, "cli-container"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.mutate(&cfg)

			resolved, err := scheduler.Resolve(set, target, cfg)
			require.NoError(t, err)
			assert.Equal(t, intern(tt.want), resolved.Name)
		})
	}
}

func TestResolve_UnmappedSelectorValue(t *testing.T) {
	set := mustSet(t,
		domain.NewRedirectTarget("cli", domain.OptionDownload, map[string]string{
			"true": "cli-download",
		}),
		domain.NewDownloadTarget("cli-download", "https://example.com/loom", "./out/loom"),
	)
	target, _ := set.Get(intern("cli"))

	_, err := scheduler.Resolve(set, target, testConfig(t))
	require.ErrorIs(t, err, domain.ErrUnknownSelectorValue)

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	meta := zErr.Metadata()
	assert.Equal(t, "cli", meta["target"])
	assert.Equal(t, domain.OptionDownload, meta["option"])
	assert.Equal(t, "false", meta["value"])
}

func TestResolve_UnknownSelectorOption(t *testing.T) {
	set := mustSet(t,
		domain.NewRedirectTarget("cli", "flavor", map[string]string{"false": "cli"}),
	)
	target, _ := set.Get(intern("cli"))

	_, err := scheduler.Resolve(set, target, testConfig(t))
	require.ErrorIs(t, err, domain.ErrUnknownSelectorOption)
}

func TestResolve_DanglingChoice(t *testing.T) {
	set := mustSet(t,
		domain.NewRedirectTarget("cli", domain.OptionDev, map[string]string{
			"false": "ghost",
			"true":  "ghost",
		}),
	)
	target, _ := set.Get(intern("cli"))

	_, err := scheduler.Resolve(set, target, testConfig(t))
	require.ErrorIs(t, err, domain.ErrTargetNotFound)

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	meta := zErr.Metadata()
	assert.Equal(t, "ghost", meta["target"])
	assert.Equal(t, "cli", meta["redirect"])
}

func TestResolve_CyclicRedirects(t *testing.T) {
	set := mustSet(t,
		domain.NewRedirectTarget("a", domain.OptionDev, map[string]string{"false": "b", "true": "b"}),
		domain.NewRedirectTarget("b", domain.OptionDev, map[string]string{"false": "a", "true": "a"}),
	)
	target, _ := set.Get(intern("a"))

	_, err := scheduler.Resolve(set, target, testConfig(t))
	require.ErrorIs(t, err, domain.ErrCyclicDependency)
}

// names flattens one tree level for assertions.
func names(nodes []domain.DependencyNode) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name.String()
	}
	return out
}

func TestBuildTree_Chain(t *testing.T) {
	set := mustSet(t,
		domain.NewVoidTarget("a", domain.WithDeps("b")),
		domain.NewVoidTarget("b", domain.WithDeps("c")),
		domain.NewVoidTarget("c"),
	)

	tree, err := scheduler.BuildTree(set, intern("a"), testConfig(t))
	require.NoError(t, err)

	assert.Equal(t, "a", tree.Name.String())
	require.Equal(t, []string{"b"}, names(tree.Children))
	require.Equal(t, []string{"c"}, names(tree.Children[0].Children))
	assert.Empty(t, tree.Children[0].Children[0].Children)
}

func TestBuildTree_DiamondKeepsBothBranches(t *testing.T) {
	set := mustSet(t,
		domain.NewVoidTarget("root", domain.WithDeps("x", "y")),
		domain.NewVoidTarget("x", domain.WithDeps("z")),
		domain.NewVoidTarget("y", domain.WithDeps("z")),
		domain.NewVoidTarget("z"),
	)

	tree, err := scheduler.BuildTree(set, intern("root"), testConfig(t))
	require.NoError(t, err)

	require.Equal(t, []string{"x", "y"}, names(tree.Children))
	assert.Equal(t, []string{"z"}, names(tree.Children[0].Children))
	assert.Equal(t, []string{"z"}, names(tree.Children[1].Children))
}

func TestBuildTree_RedirectKeepsRequestedName(t *testing.T) {
	// The tree shows the redirect under its own name but inherits the
	// dependencies of the selected target, followed by the redirect's own.
	set := mustSet(t,
		domain.NewRedirectTarget("img", domain.OptionDev,
			map[string]string{"false": "img-release", "true": "img-debug"},
			domain.WithDeps("stage")),
		domain.NewVoidTarget("img-release", domain.WithDeps("base")),
		domain.NewVoidTarget("img-debug"),
		domain.NewVoidTarget("base"),
		domain.NewVoidTarget("stage"),
	)

	tree, err := scheduler.BuildTree(set, intern("img"), testConfig(t))
	require.NoError(t, err)

	assert.Equal(t, "img", tree.Name.String())
	assert.Equal(t, []string{"base", "stage"}, names(tree.Children))

	cfg := testConfig(t)
	cfg.Dev = true
	tree, err = scheduler.BuildTree(set, intern("img"), cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"stage"}, names(tree.Children))
}

func TestBuildTree_UnknownDependency(t *testing.T) {
	set := mustSet(t, domain.NewVoidTarget("a", domain.WithDeps("ghost")))

	_, err := scheduler.BuildTree(set, intern("a"), testConfig(t))
	require.ErrorIs(t, err, domain.ErrUnknownDependency)

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	meta := zErr.Metadata()
	assert.Equal(t, "ghost", meta["dependency"])
	assert.Equal(t, "a", meta["of"])
}

func TestBuildTree_UnknownRoot(t *testing.T) {
	set := mustSet(t)

	_, err := scheduler.BuildTree(set, intern("ghost"), testConfig(t))
	require.ErrorIs(t, err, domain.ErrUnknownDependency)

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, "<root>", zErr.Metadata()["of"])
}

func TestBuildTree_CycleIsRejected(t *testing.T) {
	set := mustSet(t,
		domain.NewVoidTarget("a", domain.WithDeps("b")),
		domain.NewVoidTarget("b", domain.WithDeps("a")),
	)

	_, err := scheduler.BuildTree(set, intern("a"), testConfig(t))
	require.ErrorIs(t, err, domain.ErrCyclicDependency)
}

func TestBuildTree_SharedDependencyAcrossBranchesIsFine(t *testing.T) {
	// z appears on two separate branches; only recurrence on a single
	// root-to-leaf path is a cycle.
	set := mustSet(t,
		domain.NewVoidTarget("root", domain.WithDeps("x", "z")),
		domain.NewVoidTarget("x", domain.WithDeps("z")),
		domain.NewVoidTarget("z"),
	)

	_, err := scheduler.BuildTree(set, intern("root"), testConfig(t))
	require.NoError(t, err)
}

func TestWaves_Chain(t *testing.T) {
	set := mustSet(t,
		domain.NewVoidTarget("a", domain.WithDeps("b")),
		domain.NewVoidTarget("b", domain.WithDeps("c")),
		domain.NewVoidTarget("c"),
	)
	tree, err := scheduler.BuildTree(set, intern("a"), testConfig(t))
	require.NoError(t, err)

	assert.Equal(t, [][]domain.InternedString{
		{intern("c")},
		{intern("b")},
		{intern("a")},
	}, scheduler.Waves(tree))
}

func TestWaves_DiamondSharesAWave(t *testing.T) {
	set := mustSet(t,
		domain.NewVoidTarget("root", domain.WithDeps("x", "y")),
		domain.NewVoidTarget("x", domain.WithDeps("z")),
		domain.NewVoidTarget("y", domain.WithDeps("z")),
		domain.NewVoidTarget("z"),
	)
	tree, err := scheduler.BuildTree(set, intern("root"), testConfig(t))
	require.NoError(t, err)

	assert.Equal(t, [][]domain.InternedString{
		{intern("z")},
		{intern("x"), intern("y")},
		{intern("root")},
	}, scheduler.Waves(tree))
}

func TestWaves_KeepsDeepestOccurrence(t *testing.T) {
	// b is both a direct dependency of root and a dependency of a. It must
	// build in its deeper wave, before a needs it.
	set := mustSet(t,
		domain.NewVoidTarget("root", domain.WithDeps("a", "b")),
		domain.NewVoidTarget("a", domain.WithDeps("b")),
		domain.NewVoidTarget("b"),
	)
	tree, err := scheduler.BuildTree(set, intern("root"), testConfig(t))
	require.NoError(t, err)

	assert.Equal(t, [][]domain.InternedString{
		{intern("b")},
		{intern("a")},
		{intern("root")},
	}, scheduler.Waves(tree))
}
