// Package catalog defines the build targets of the loom workspace: the
// command-line binaries, the service images of a loom instance and the
// auxiliary images they run next to. Targets are data; everything about how
// they build lives in the engine.
package catalog

import (
	"fmt"
	"path/filepath"

	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/mason/internal/core/ports"
	"go.trai.ch/zerr"
)

// services are the loom components shipped as container images. Each lives
// in a workspace crate named loom-<service>.
var services = []string{"api", "proxy", "worker"}

// auxImages are the off-the-shelf images a loom instance depends on,
// pinned so every machine loads the same stack.
var auxImages = []struct{ name, ref string }{
	{"postgres", "docker.io/library/postgres:16.3"},
	{"redis", "docker.io/library/redis:7.2.5"},
	{"minio", "docker.io/minio/minio:RELEASE.2024-05-10T01-41-38Z"},
}

// Targets builds the full catalog for the workspace rooted at root. Crate
// sources are discovered through scan, so edits to any local dependency of a
// crate re-trigger the targets built from it.
func Targets(root string, scan ports.ManifestScanner) (*domain.TargetSet, error) {
	targets := testTargets()
	targets = append(targets, imageInfraTargets()...)

	cli, err := binaryTargets(root, scan)
	if err != nil {
		return nil, err
	}
	targets = append(targets, cli...)

	svc, err := serviceTargets(root, scan)
	if err != nil {
		return nil, err
	}
	targets = append(targets, svc...)

	targets = append(targets, auxTargets()...)
	targets = append(targets, aggregateTargets()...)

	return domain.NewTargetSet(targets...)
}

// testTargets gate merges: unit tests, lints and the dependency audit, plus
// an aggregator that runs all three.
func testTargets() []domain.Target {
	return []domain.Target{
		domain.NewShellTarget("test-units",
			[]domain.ExecStep{
				{Program: "cargo", Args: []string{"test", "--workspace"}},
			},
			domain.WithDescription("Runs the unit tests of all workspace crates.")),

		domain.NewShellTarget("test-lint",
			[]domain.ExecStep{
				{Program: "cargo", Args: []string{"clippy", "--workspace", "--all-targets", "--", "-D", "warnings"}},
			},
			domain.WithDescription("Lints all workspace crates, treating warnings as errors.")),

		domain.NewShellTarget("test-audit",
			[]domain.ExecStep{
				{Program: "cargo", Args: []string{"audit"}},
			},
			domain.WithDescription("Audits the dependency tree for known vulnerabilities.")),

		domain.NewVoidTarget("test",
			domain.WithDeps("test-units", "test-lint", "test-audit"),
			domain.WithDescription("Runs all checks: unit tests, lints and the dependency audit.")),
	}
}

// imageInfraTargets provide the in-container toolchains: the build image
// used for containerized compilation and the OpenSSL cross-build used by the
// statically linked service binaries.
func imageInfraTargets() []domain.Target {
	return []domain.Target{
		domain.NewImageTarget("build-image",
			domain.ImageBuildKind{
				Dockerfile: "./Dockerfile",
				Stage:      "build",
			},
			"./target/images/build.tar",
			domain.WithDescription("Builds the container image used to compile loom binaries with '--containerized'.")),

		domain.NewImageInstallTarget("install-build-image",
			"./target/images/build.tar", "loom-build:latest", "build-image"),

		domain.NewImageTarget("ssl-image",
			domain.ImageBuildKind{
				Dockerfile: "./Dockerfile",
				Stage:      "ssl-build",
			},
			"./target/images/ssl-build.tar",
			domain.WithDescription("Builds the container image that cross-compiles OpenSSL for the service binaries.")),

		domain.NewImageInstallTarget("install-ssl-image",
			"./target/images/ssl-build.tar", "loom-ssl-build:latest", "ssl-image"),

		domain.NewContainerTarget("openssl",
			domain.ContainerRunKind{
				Image:   "loom-ssl-build:latest",
				Command: []string{"/build.sh"},
				Volumes: []domain.VolumeMount{
					{Host: "$CWD/target/openssl/$ARCH", Container: "/out"},
				},
				Env: map[string]string{"TARGET_ARCH": "$RUST_ARCH"},
			},
			domain.WithDeps("install-ssl-image"),
			domain.WithResults(
				"./target/openssl/$ARCH/lib/libssl.a",
				"./target/openssl/$ARCH/lib/libcrypto.a",
				"./target/openssl/$ARCH/include/openssl/ssl.h",
			),
			domain.WithDescription("Cross-compiles a static OpenSSL inside the ssl-build image. "+
				"Required once per architecture before the service binaries link against it.")),
	}
}

// binaryTargets define the user-facing binaries. Each is a redirect that
// picks, per invocation, between downloading a released binary and
// compiling it from the workspace; compilation itself redirects between the
// host toolchain and the build container.
func binaryTargets(root string, scan ports.ManifestScanner) ([]domain.Target, error) {
	cliSources, err := crateSources(root, "loom-cli", scan)
	if err != nil {
		return nil, err
	}
	ctlSources, err := crateSources(root, "loomctl", scan)
	if err != nil {
		return nil, err
	}

	return []domain.Target{
		domain.NewRedirectTarget("cli", domain.OptionDownload, map[string]string{
			"false": "cli-crate",
			"true":  "cli-download",
		}, domain.WithDescription("Makes the loom CLI available: compiles it from the workspace, "+
			"or downloads the released binary when '--download' is given.")),

		domain.NewRedirectTarget("cli-crate", domain.OptionContainerized, map[string]string{
			"false": "cli-host",
			"true":  "cli-container",
		}),

		domain.NewCrateTarget("cli-host",
			domain.CrateKind{Packages: []string{"loom-cli"}},
			domain.WithSources(cliSources...),
			domain.WithResults("./target/$RELEASE/loom")),

		domain.NewContainerTarget("cli-container",
			domain.ContainerRunKind{
				Image:   "loom-build:latest",
				Command: []string{"cargo", "build", "--release", "--package", "loom-cli"},
				Volumes: []domain.VolumeMount{
					{Host: "$CWD", Container: "/workspace"},
					{Host: "$CWD/target/registry", Container: "/usr/local/cargo/registry"},
				},
			},
			domain.WithDeps("install-build-image"),
			domain.WithSources(cliSources...),
			domain.WithResults("./target/release/loom")),

		domain.NewDownloadTarget("cli-download",
			"https://github.com/traiproject/loom/releases/download/v$VERSION/loom-$OS-$ARCH",
			"./target/release/loom"),

		domain.NewInstallTarget("install-cli",
			"./target/$RELEASE/loom", "/usr/local/bin/loom", "cli", true,
			domain.WithDescription("Installs the loom CLI to /usr/local/bin. May ask for sudo credentials.")),

		domain.NewRedirectTarget("ctl", domain.OptionDownload, map[string]string{
			"false": "ctl-host",
			"true":  "ctl-download",
		}, domain.WithDescription("Makes loomctl, the instance management tool, available: compiles it "+
			"from the workspace, or downloads the released binary when '--download' is given.")),

		domain.NewCrateTarget("ctl-host",
			domain.CrateKind{Packages: []string{"loomctl"}},
			domain.WithSources(ctlSources...),
			domain.WithResults("./target/$RELEASE/loomctl")),

		domain.NewDownloadTarget("ctl-download",
			"https://github.com/traiproject/loom/releases/download/v$VERSION/loomctl-$OS-$ARCH",
			"./target/release/loomctl"),

		domain.NewInstallTarget("install-ctl",
			"./target/$RELEASE/loomctl", "/usr/local/bin/loomctl", "ctl", true,
			domain.WithDescription("Installs loomctl to /usr/local/bin. May ask for sudo credentials.")),
	}, nil
}

// serviceTargets define, per service, the musl-linked binary, its staging
// copy for out-of-image builds, the release and development images and the
// engine install of whichever image was built.
func serviceTargets(root string, scan ports.ManifestScanner) ([]domain.Target, error) {
	var targets []domain.Target
	for _, svc := range services {
		crate := "loom-" + svc
		sources, err := crateSources(root, crate, scan)
		if err != nil {
			return nil, err
		}

		binary := svc + "-binary"
		stage := "stage-" + svc
		image := svc + "-image"
		archive := fmt.Sprintf("./target/images/%s.tar", crate)
		binaryPath := fmt.Sprintf("./target/$RUST_ARCH-unknown-linux-musl/$RELEASE/%s", crate)
		stagedPath := fmt.Sprintf("./.container-bins/$ARCH/%s", crate)

		targets = append(targets,
			// Service binaries always cross-compile: they run inside
			// containers, never on the build host.
			domain.NewCrateTarget(binary,
				domain.CrateKind{
					Packages:     []string{crate},
					Triple:       "$RUST_ARCH-unknown-linux-musl",
					TripleAlways: true,
					Env: map[string]string{
						"OPENSSL_STATIC":      "1",
						"OPENSSL_LIB_DIR":     "$CWD/target/openssl/$ARCH/lib",
						"OPENSSL_INCLUDE_DIR": "$CWD/target/openssl/$ARCH/include",
					},
				},
				domain.WithSources(sources...),
				domain.WithDeps("openssl"),
				domain.WithDepSource("openssl"),
				domain.WithResults(binaryPath)),

			domain.NewInstallTarget(stage, binaryPath, stagedPath, binary, false),

			domain.NewRedirectTarget(image, domain.OptionDev, map[string]string{
				"false": image + "-release",
				"true":  image + "-debug",
			}, domain.WithDescription(fmt.Sprintf("Builds the container image for the loom %s service "+
				"to a .tar archive. With '--dev' it builds a development image that copies the binary "+
				"from './.container-bins' instead of compiling it in-container, which is much faster "+
				"to rebuild but produces far larger images.", svc))),

			domain.NewImageTarget(image+"-release",
				domain.ImageBuildKind{
					Dockerfile: "./Dockerfile",
					Stage:      crate,
				},
				archive,
				domain.WithSources(sources...)),

			domain.NewImageTarget(image+"-debug",
				domain.ImageBuildKind{
					Dockerfile: "./Dockerfile.dev",
					Context:    "./.container-bins",
					Stage:      crate,
					BuildArgs:  map[string]string{"ARCH": "$ARCH"},
				},
				archive,
				domain.WithDeps(stage),
				domain.WithDepSource(stage)),

			domain.NewImageInstallTarget("install-"+image, archive, crate+":latest", image,
				domain.WithDescription(fmt.Sprintf("Loads the built %s service image into the local "+
					"container engine.", svc))),
		)
	}
	return targets, nil
}

// auxTargets pull the off-the-shelf images of a loom instance to archives,
// so air-gapped hosts can load them without registry access.
func auxTargets() []domain.Target {
	var targets []domain.Target
	for _, img := range auxImages {
		targets = append(targets, domain.NewImagePullTarget(img.name+"-image",
			img.ref,
			fmt.Sprintf("./target/images/%s.tar", img.name),
			domain.WithDescription(fmt.Sprintf("Pulls the %s image of a loom instance and saves it "+
				"to a .tar archive.", img.name))))
	}
	return targets
}

// aggregateTargets name the common bundles.
func aggregateTargets() []domain.Target {
	deps := make([]string, 0, len(services)+len(auxImages))
	for _, svc := range services {
		deps = append(deps, "install-"+svc+"-image")
	}
	for _, img := range auxImages {
		deps = append(deps, img.name+"-image")
	}

	return []domain.Target{
		domain.NewVoidTarget("stack",
			domain.WithDeps(deps...),
			domain.WithDescription("Builds and loads every image a loom instance needs: the three "+
				"service images plus the pinned auxiliary images.")),

		domain.NewVoidTarget("binaries",
			domain.WithDeps("cli", "ctl"),
			domain.WithDescription("Builds (or downloads) both loom binaries without installing them.")),
	}
}

// crateSources expands a crate directory into the source directories that
// feed it: the crate itself plus every workspace crate it path-depends on.
func crateSources(root, crate string, scan ports.ManifestScanner) ([]string, error) {
	manifest := filepath.Join(root, crate, "Cargo.toml")
	dirs, err := scan.SourceDirs(manifest)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to discover crate sources"), "crate", crate)
	}
	return dirs, nil
}
